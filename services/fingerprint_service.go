// File: /services/fingerprint_service.go
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"gorm.io/gorm"

	"sectornet-api/models"
)

// duplicateWindow is how long a fingerprint blocks resubmission. Reposting
// the same content after the window is allowed.
const duplicateWindow = 24 * time.Hour

// FingerprintService computes content fingerprints and rejects duplicate
// submissions by the same author inside the trailing window.
type FingerprintService struct {
	db *gorm.DB
}

func NewFingerprintService(db *gorm.DB) *FingerprintService {
	return &FingerprintService{db: db}
}

// Fingerprint returns the deterministic hash for a post's content plus its
// image reference (empty string when there is none).
func (s *FingerprintService) Fingerprint(content string, image *string) string {
	imageRef := ""
	if image != nil {
		imageRef = *image
	}
	sum := sha256.Sum256([]byte(content + imageRef))
	return hex.EncodeToString(sum[:])
}

// CheckAndRegister verifies the author has no post with the same fingerprint
// inside the window and returns the hash to stamp on the new post. The check
// is author-scoped, not sector-wide. Read-then-write: a concurrent duplicate
// can slip through, which is acceptable here.
func (s *FingerprintService) CheckAndRegister(ctx context.Context, authorID, content string, image *string) (string, error) {
	hash := s.Fingerprint(content, image)
	cutoff := time.Now().Add(-duplicateWindow)

	var cnt int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("user_id = ? AND content_hash = ? AND created_at > ?", authorID, hash, cutoff).
		Count(&cnt).Error; err != nil {
		return "", err
	}
	if cnt > 0 {
		return "", ErrDuplicateContent
	}
	return hash, nil
}
