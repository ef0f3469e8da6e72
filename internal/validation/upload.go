package validation

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/creerlio/talentbank/internal/apperr"
	"github.com/creerlio/talentbank/internal/model"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 2000
)

// ValidateMetadata checks the caller-supplied part of an upload
func ValidateMetadata(meta model.ItemMetadata) error {
	if !model.IsItemType(meta.ItemType) {
		return fmt.Errorf("%w: unknown item type %q", apperr.ErrValidation, meta.ItemType)
	}

	err := ValidateTitle(meta.Title)
	if err != nil {
		return err
	}

	if meta.Description != nil && len(*meta.Description) > maxDescriptionLength {
		return fmt.Errorf("%w: description is too long (max %d characters)", apperr.ErrValidation, maxDescriptionLength)
	}

	return nil
}

// ValidateTitle validates an item title
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)

	if trimmed == "" {
		return fmt.Errorf("%w: title is required", apperr.ErrValidation)
	}

	if len(trimmed) > maxTitleLength {
		return fmt.Errorf("%w: title is too long (max %d characters)", apperr.ErrValidation, maxTitleLength)
	}

	return nil
}

// ValidateSize rejects uploads over maxSize. A maxSize of zero disables the check.
func ValidateSize(size, maxSize int64) error {
	if maxSize > 0 && size > maxSize {
		maxMB := maxSize / (1 << 20)
		return fmt.Errorf("%w: file too large: maximum size is %d MB", apperr.ErrValidation, maxMB)
	}
	return nil
}

// ContentType returns the declared content type, or sniffs one from the
// first 512 bytes when the client sent none. The reader is rewound afterwards.
func ContentType(body io.ReadSeeker, declared string) (string, error) {
	declared = strings.TrimSpace(declared)
	if declared != "" {
		return declared, nil
	}

	// http.DetectContentType reads max 512 bytes to determine MIME type
	buffer := make([]byte, 512)
	n, err := io.ReadFull(body, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	_, err = body.Seek(0, io.SeekStart)
	if err != nil {
		return "", fmt.Errorf("failed to reset file pointer: %w", err)
	}

	return http.DetectContentType(buffer[:n]), nil
}
