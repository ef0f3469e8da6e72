package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/creerlio/talentbank/internal/apperr"
	"github.com/creerlio/talentbank/internal/hashing"
	"github.com/creerlio/talentbank/internal/model"
	"github.com/creerlio/talentbank/internal/repository"
	"github.com/creerlio/talentbank/internal/storage"
	"github.com/creerlio/talentbank/internal/validation"
	"github.com/google/uuid"
)

// Stage names the step of an upload that failed.
type Stage string

const (
	StageValidating       Stage = "validating"
	StageStoringBytes     Stage = "storing_bytes"
	StageHashing          Stage = "hashing"
	StagePersistingRecord Stage = "persisting_record"
)

// UploadError reports which stage of an upload failed.
// Before StageHashing no bytes were stored and no record exists.
type UploadError struct {
	Stage Stage
	Err   error
	// Orphaned is set when the bytes were stored, the record was not
	// written and removing the object failed as well.
	Orphaned bool
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed at %s: %v", e.Stage, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// BytesStored reports whether the object reached storage before the failure.
func (e *UploadError) BytesStored() bool {
	return e.Stage == StageHashing || e.Stage == StagePersistingRecord
}

// UploadInput is one file plus its metadata, as received from the caller.
type UploadInput struct {
	OwnerID     string
	Filename    string
	ContentType string
	Body        io.ReadSeeker
	Metadata    model.ItemMetadata
}

type UploadResult struct {
	Path              string         `json:"path"`
	ID                string         `json:"id"`
	Digest            hashing.Digest `json:"digest"`
	VerificationToken string         `json:"verification_token"`
}

type ArtifactService struct {
	artifactRepo  repository.ArtifactRepository
	storage       storage.Storage
	signedURLTTL  time.Duration
	maxUploadSize int64
	recordTimeout time.Duration
	now           func() time.Time
}

// NewArtifactService wires the upload pipeline. recordTimeout bounds the
// record insert (30s when zero).
func NewArtifactService(artifactRepo repository.ArtifactRepository, storage storage.Storage, signedURLTTL time.Duration, maxUploadSize int64, recordTimeout time.Duration) *ArtifactService {
	if signedURLTTL <= 0 {
		signedURLTTL = 60 * time.Second
	}
	if recordTimeout <= 0 {
		recordTimeout = 30 * time.Second
	}
	return &ArtifactService{
		artifactRepo:  artifactRepo,
		storage:       storage,
		signedURLTTL:  signedURLTTL,
		maxUploadSize: maxUploadSize,
		recordTimeout: recordTimeout,
		now:           time.Now,
	}
}

// Upload stores the bytes, hashes what was stored and then writes the record.
// A record is only written after the bytes are in storage. If the record
// write fails the object is removed again.
func (s *ArtifactService) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	// Validating
	if in.OwnerID == "" {
		return nil, &UploadError{Stage: StageValidating, Err: fmt.Errorf("%w: owner is required", apperr.ErrAuthentication)}
	}
	if in.Body == nil {
		return nil, &UploadError{Stage: StageValidating, Err: fmt.Errorf("%w: file is required", apperr.ErrValidation)}
	}

	err := validation.ValidateMetadata(in.Metadata)
	if err != nil {
		return nil, &UploadError{Stage: StageValidating, Err: err}
	}

	size, err := in.Body.Seek(0, io.SeekEnd)
	if err == nil {
		_, err = in.Body.Seek(0, io.SeekStart)
	}
	if err != nil {
		return nil, &UploadError{Stage: StageValidating, Err: fmt.Errorf("failed to measure file: %w", err)}
	}

	err = validation.ValidateSize(size, s.maxUploadSize)
	if err != nil {
		return nil, &UploadError{Stage: StageValidating, Err: err}
	}

	contentType, err := validation.ContentType(in.Body, in.ContentType)
	if err != nil {
		return nil, &UploadError{Stage: StageValidating, Err: err}
	}

	path, err := storage.BuildPath(in.OwnerID, in.Metadata.ItemType, in.Filename)
	if err != nil {
		return nil, &UploadError{Stage: StageValidating, Err: err}
	}

	// StoringBytes
	err = s.storage.Upload(ctx, path, in.Body, size, contentType)
	if err != nil {
		slog.Warn("failed to store artifact bytes", "error", err, "user_id", in.OwnerID, "path", path)
		return nil, &UploadError{Stage: StageStoringBytes, Err: err}
	}

	// Hashing
	_, err = in.Body.Seek(0, io.SeekStart)
	if err != nil {
		return nil, s.abort(ctx, path, StageHashing, fmt.Errorf("failed to rewind file: %w", err))
	}
	digest, n, err := hashing.SumReader(in.Body)
	if err != nil {
		return nil, s.abort(ctx, path, StageHashing, fmt.Errorf("failed to hash file: %w", err))
	}

	// PersistingRecord
	artifact := &model.Artifact{
		ID:                uuid.New().String(),
		UserID:            in.OwnerID,
		ItemType:          in.Metadata.ItemType,
		Title:             in.Metadata.Title,
		Description:       in.Metadata.Description,
		FilePath:          path,
		FileType:          contentType,
		FileSize:          n,
		IsPublic:          in.Metadata.IsPublic,
		ContentHash:       string(digest),
		VerificationToken: rand.Text(),
		CreatedAt:         s.now().UTC(),
	}

	err = s.insert(ctx, artifact)
	if err != nil {
		return nil, s.abort(ctx, path, StagePersistingRecord, err)
	}

	slog.Info("artifact uploaded",
		"user_id", artifact.UserID,
		"artifact_id", artifact.ID,
		"path", path,
		"size", n,
	)

	return &UploadResult{
		Path:              path,
		ID:                artifact.ID,
		Digest:            digest,
		VerificationToken: artifact.VerificationToken,
	}, nil
}

func (s *ArtifactService) insert(ctx context.Context, artifact *model.Artifact) error {
	ctx, cancel := context.WithTimeout(ctx, s.recordTimeout)
	defer cancel()
	return s.artifactRepo.Create(ctx, artifact)
}

// abort removes the already stored object. The delete ignores cancellation
// of ctx, a client that went away must not leave the object behind.
func (s *ArtifactService) abort(ctx context.Context, path string, stage Stage, cause error) *UploadError {
	uploadErr := &UploadError{Stage: stage, Err: cause}

	delErr := s.storage.Delete(context.WithoutCancel(ctx), path)
	if delErr != nil {
		uploadErr.Orphaned = true
		slog.Error("failed to delete artifact from storage during cleanup",
			"error", delErr,
			"cause", cause,
			"path", path,
			"stage", string(stage),
		)
		return uploadErr
	}

	slog.Warn("artifact upload rolled back", "error", cause, "path", path, "stage", string(stage))
	return uploadErr
}

// List returns the owner's artifacts, newest first
func (s *ArtifactService) List(ctx context.Context, ownerID string) ([]*model.Artifact, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", apperr.ErrAuthentication)
	}
	return s.artifactRepo.AllUserArtifacts(ctx, ownerID)
}

// Owned returns the artifact if ownerID owns it. Someone else's artifact
// looks exactly like a missing one.
func (s *ArtifactService) Owned(ctx context.Context, ownerID, id string) (*model.Artifact, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", apperr.ErrAuthentication)
	}

	artifact, err := s.artifactRepo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if artifact.UserID != ownerID {
		return nil, repository.ErrArtifactNotFound
	}
	return artifact, nil
}

// DownloadURL issues a short-lived signed URL for one of the owner's artifacts
func (s *ArtifactService) DownloadURL(ctx context.Context, ownerID, id string) (string, time.Duration, error) {
	artifact, err := s.Owned(ctx, ownerID, id)
	if err != nil {
		return "", 0, err
	}

	url, err := s.storage.SignedURL(ctx, artifact.FilePath, s.signedURLTTL)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			slog.Error("artifact record without stored object", "artifact_id", artifact.ID, "path", artifact.FilePath)
		}
		return "", 0, err
	}

	return url, s.signedURLTTL, nil
}
