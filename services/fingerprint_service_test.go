package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sectornet-api/models"
)

func TestFingerprintDeterminism(t *testing.T) {
	svc := NewFingerprintService(nil)

	image := "https://cdn.example.com/a.jpg"
	hash1 := svc.Fingerprint("hello", &image)
	hash2 := svc.Fingerprint("hello", &image)
	assert.Equal(t, hash1, hash2)
	assert.Len(t, hash1, 64)

	// Image reference is part of the identity
	assert.NotEqual(t, hash1, svc.Fingerprint("hello", nil))
	assert.NotEqual(t, hash1, svc.Fingerprint("hello!", &image))
}

func TestCheckAndRegisterBlocksRecentDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFingerprintService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")

	hash, err := svc.CheckAndRegister(ctx, author.ID, "same words", nil)
	require.NoError(t, err)

	post := createTestPost(t, db, author.ID, models.PrivacyPublic)
	require.NoError(t, db.Model(post).Update("content_hash", hash).Error)

	_, err = svc.CheckAndRegister(ctx, author.ID, "same words", nil)
	assert.ErrorIs(t, err, ErrDuplicateContent)
}

func TestCheckAndRegisterIsAuthorScoped(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFingerprintService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	other := createTestUser(t, db, "other")

	hash, err := svc.CheckAndRegister(ctx, author.ID, "same words", nil)
	require.NoError(t, err)

	post := createTestPost(t, db, author.ID, models.PrivacyPublic)
	require.NoError(t, db.Model(post).Update("content_hash", hash).Error)

	// A different author posting identical content is fine
	_, err = svc.CheckAndRegister(ctx, other.ID, "same words", nil)
	assert.NoError(t, err)
}

func TestCheckAndRegisterWindowExpiry(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFingerprintService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")

	hash, err := svc.CheckAndRegister(ctx, author.ID, "same words", nil)
	require.NoError(t, err)

	post := createTestPost(t, db, author.ID, models.PrivacyPublic)
	stale := time.Now().Add(-25 * time.Hour)
	require.NoError(t, db.Model(post).Updates(map[string]interface{}{
		"content_hash": hash,
		"created_at":   stale,
	}).Error)

	_, err = svc.CheckAndRegister(ctx, author.ID, "same words", nil)
	assert.NoError(t, err)
}
