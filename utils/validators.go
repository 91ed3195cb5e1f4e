// File: /utils/validators.go
package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaxPostContentLength = 5000
	MaxCommentLength     = 2000
	MaxSectorLength      = 100
)

func IsValidEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

func IsValidPassword(password string) bool {
	if len(password) < 6 {
		return false
	}

	var (
		hasUpper   = false
		hasLower   = false
		hasNumber  = false
		hasSpecial = false
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	// At least 3 of 4 character types required
	count := 0
	if hasUpper {
		count++
	}
	if hasLower {
		count++
	}
	if hasNumber {
		count++
	}
	if hasSpecial {
		count++
	}

	return count >= 3
}

// IsValidPostContent rejects empty and oversized submissions.
func IsValidPostContent(content string) bool {
	trimmed := strings.TrimSpace(content)
	return trimmed != "" && utf8.RuneCountInString(content) <= MaxPostContentLength
}

func IsValidCommentBody(body string) bool {
	trimmed := strings.TrimSpace(body)
	return trimmed != "" && utf8.RuneCountInString(body) <= MaxCommentLength
}

// IsValidSector accepts lowercase tenant names like "drivers" or "sports".
func IsValidSector(sector string) bool {
	if sector == "" || len(sector) > MaxSectorLength {
		return false
	}
	sectorRegex := regexp.MustCompile(`^[a-z0-9_\-]+$`)
	return sectorRegex.MatchString(sector)
}
