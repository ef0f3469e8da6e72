package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/creerlio/talentbank/internal/apperr"
	"github.com/creerlio/talentbank/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

var (
	ErrArtifactNotFound = fmt.Errorf("artifact %w", apperr.ErrNotFound)
)

type ArtifactRepository interface {
	Create(ctx context.Context, artifact *model.Artifact) error
	ByID(ctx context.Context, id string) (*model.Artifact, error)
	ByVerificationToken(ctx context.Context, token string) (*model.Artifact, error)
	AllUserArtifacts(ctx context.Context, userID string) ([]*model.Artifact, error)
}

type artifactRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewArtifactRepository bounds every statement by timeout (30s when zero).
func NewArtifactRepository(db *sqlx.DB, timeout time.Duration) *artifactRepository {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &artifactRepository{db: db, timeout: timeout}
}

const artifactColumns = `id, user_id, item_type, title, description, file_path, file_type, file_size, is_public, content_hash, verification_token, created_at`

// Create persists a new record. The row is written in a single statement,
// so it either exists completely or not at all.
func (r *artifactRepository) Create(ctx context.Context, artifact *model.Artifact) error {
	err := validateArtifact(artifact)
	if err != nil {
		return err
	}

	query := `INSERT INTO talent_bank_items (` + artifactColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err = r.db.ExecContext(ctx, query,
		artifact.ID,
		artifact.UserID,
		artifact.ItemType,
		artifact.Title,
		artifact.Description,
		artifact.FilePath,
		artifact.FileType,
		artifact.FileSize,
		artifact.IsPublic,
		artifact.ContentHash,
		artifact.VerificationToken,
		artifact.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: artifact record: %v", apperr.ErrConflict, err)
		}
		return fmt.Errorf("%w: insert artifact: %v", apperr.ErrPersistence, err)
	}

	return nil
}

func (r *artifactRepository) ByID(ctx context.Context, id string) (*model.Artifact, error) {
	artifact := &model.Artifact{}
	query := `SELECT ` + artifactColumns + ` FROM talent_bank_items WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := r.db.GetContext(ctx, artifact, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}

	return artifact, nil
}

func (r *artifactRepository) ByVerificationToken(ctx context.Context, token string) (*model.Artifact, error) {
	artifact := &model.Artifact{}
	query := `SELECT ` + artifactColumns + ` FROM talent_bank_items WHERE verification_token = $1`

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := r.db.GetContext(ctx, artifact, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}

	return artifact, nil
}

func (r *artifactRepository) AllUserArtifacts(ctx context.Context, userID string) ([]*model.Artifact, error) {
	artifacts := []*model.Artifact{}
	query := `SELECT ` + artifactColumns + ` FROM talent_bank_items WHERE user_id = $1 ORDER BY created_at DESC`

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := r.db.SelectContext(ctx, &artifacts, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}

	return artifacts, nil
}

func validateArtifact(a *model.Artifact) error {
	if a == nil {
		return fmt.Errorf("%w: artifact is required", apperr.ErrValidation)
	}

	var missing []string
	if a.ID == "" {
		missing = append(missing, "id")
	}
	if a.UserID == "" {
		missing = append(missing, "user_id")
	}
	if a.ItemType == "" {
		missing = append(missing, "item_type")
	}
	if strings.TrimSpace(a.Title) == "" {
		missing = append(missing, "title")
	}
	if a.FilePath == "" {
		missing = append(missing, "file_path")
	}
	if a.ContentHash == "" {
		missing = append(missing, "content_hash")
	}
	if a.VerificationToken == "" {
		missing = append(missing, "verification_token")
	}
	if a.CreatedAt.IsZero() {
		missing = append(missing, "created_at")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", apperr.ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// isUniqueViolation handles both Postgres and SQLite unique constraint errors
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
