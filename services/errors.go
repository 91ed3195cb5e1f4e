package services

import "errors"

var (
	ErrValidation       = errors.New("invalid input")
	ErrDuplicateContent = errors.New("duplicate content submitted within the last 24 hours")
	ErrForbidden        = errors.New("not allowed")
	ErrSelfVote         = errors.New("cannot vote on your own post")
	ErrSelfReaction     = errors.New("cannot react to your own post")
	ErrPostNotFound     = errors.New("post not found")
	ErrGroupNotFound    = errors.New("group not found")
	ErrRequestNotFound  = errors.New("request not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrAlreadyMember    = errors.New("already a group member")
	ErrCreatorLeave     = errors.New("group creator cannot leave, delete the group instead")

	// ErrPostRemoved is a terminal success signal: the caller's vote pushed
	// the post over the removal threshold and it is gone.
	ErrPostRemoved = errors.New("post removed by community feedback")
)
