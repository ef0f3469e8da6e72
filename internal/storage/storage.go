package storage

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/creerlio/talentbank/internal/apperr"
	"github.com/google/uuid"
)

// Storage defines the object storage operations the artifact pipeline needs
type Storage interface {
	// Upload writes body at path. It never overwrites: an existing object
	// fails with apperr.ErrConflict.
	Upload(ctx context.Context, path string, body io.ReadSeeker, size int64, contentType string) error

	// SignedURL returns a time-limited GET URL for path.
	// Missing objects fail with apperr.ErrNotFound.
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)

	// Delete removes the object at path
	Delete(ctx context.Context, path string) error
}

var unsafeFilenameChars = regexp.MustCompile(`[^\w.\-]+`)

// SanitizeFilename replaces every run of characters outside [A-Za-z0-9_.-] with "_".
func SanitizeFilename(name string) string {
	if name == "" {
		name = "file"
	}
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

// BuildPath derives the object key ownerID/itemType/<uuid>-<sanitized filename>.
// The random segment keeps concurrent uploads of the same file apart.
func BuildPath(ownerID, itemType, filename string) (string, error) {
	if ownerID == "" {
		return "", fmt.Errorf("%w: owner id is required", apperr.ErrValidation)
	}
	if itemType == "" {
		return "", fmt.Errorf("%w: item type is required", apperr.ErrValidation)
	}
	return fmt.Sprintf("%s/%s/%s-%s", ownerID, itemType, uuid.New().String(), SanitizeFilename(filename)), nil
}
