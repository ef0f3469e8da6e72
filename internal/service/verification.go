package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/creerlio/talentbank/internal/apperr"
	"github.com/creerlio/talentbank/internal/hashing"
	"github.com/creerlio/talentbank/internal/model"
	"github.com/creerlio/talentbank/internal/qr"
	"github.com/creerlio/talentbank/internal/repository"
	"github.com/creerlio/talentbank/internal/storage"
)

type IntegrityStatus string

const (
	IntegrityMatch       IntegrityStatus = "match"
	IntegrityMismatch    IntegrityStatus = "mismatch"
	IntegrityUnavailable IntegrityStatus = "unavailable"
)

// RemoteHasher hashes the bytes behind a URL
type RemoteHasher interface {
	FromRemote(ctx context.Context, url string) (hashing.Digest, error)
}

type VerificationResult struct {
	Artifact     *model.Artifact
	Status       IntegrityStatus
	RemoteDigest hashing.Digest
	// DownloadURL is empty when the stored object could not be signed
	DownloadURL string
	ExpiresIn   time.Duration
}

type VerificationService struct {
	artifactRepo repository.ArtifactRepository
	storage      storage.Storage
	hasher       RemoteHasher
	renderer     *qr.Renderer
	artifacts    *ArtifactService
	baseURL      string
	signedURLTTL time.Duration
}

func NewVerificationService(
	artifactRepo repository.ArtifactRepository,
	storage storage.Storage,
	hasher RemoteHasher,
	renderer *qr.Renderer,
	artifacts *ArtifactService,
	baseURL string,
	signedURLTTL time.Duration,
) *VerificationService {
	if signedURLTTL <= 0 {
		signedURLTTL = 60 * time.Second
	}
	return &VerificationService{
		artifactRepo: artifactRepo,
		storage:      storage,
		hasher:       hasher,
		renderer:     renderer,
		artifacts:    artifacts,
		baseURL:      baseURL,
		signedURLTTL: signedURLTTL,
	}
}

// Verify looks up a public artifact by token, re-fetches the stored bytes and
// compares their digest with the recorded one. A digest mismatch is a result,
// not an error. When the bytes cannot be fetched the status is unavailable.
func (s *VerificationService) Verify(ctx context.Context, token string) (*VerificationResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: verification token is required", apperr.ErrValidation)
	}

	artifact, err := s.artifactRepo.ByVerificationToken(ctx, token)
	if err != nil {
		return nil, err
	}
	// Private artifacts are indistinguishable from unknown tokens
	if !artifact.IsPublic {
		return nil, repository.ErrArtifactNotFound
	}

	result := &VerificationResult{
		Artifact: artifact,
		Status:   IntegrityUnavailable,
	}

	url, err := s.storage.SignedURL(ctx, artifact.FilePath, s.signedURLTTL)
	if err != nil {
		slog.Warn("verification could not sign artifact url", "error", err, "artifact_id", artifact.ID)
		return result, nil
	}
	result.DownloadURL = url
	result.ExpiresIn = s.signedURLTTL

	remote, err := s.hasher.FromRemote(ctx, url)
	if err != nil {
		slog.Warn("verification could not fetch artifact", "error", err, "artifact_id", artifact.ID)
		return result, nil
	}
	result.RemoteDigest = remote

	if hashing.Equal(remote, hashing.Digest(artifact.ContentHash)) {
		result.Status = IntegrityMatch
	} else {
		result.Status = IntegrityMismatch
		slog.Warn("artifact integrity mismatch",
			"artifact_id", artifact.ID,
			"recorded", artifact.ContentHash,
			"remote", string(remote),
		)
	}

	return result, nil
}

// VerificationLink returns the public verification URL of one of the owner's
// artifacts. The configured base URL wins over origin, the request origin.
func (s *VerificationService) VerificationLink(ctx context.Context, ownerID, id, origin string) (string, error) {
	artifact, err := s.artifacts.Owned(ctx, ownerID, id)
	if err != nil {
		return "", err
	}

	base := s.baseURL
	if base == "" {
		base = origin
	}
	return qr.VerificationURL(artifact.VerificationToken, base)
}

// QRCode renders the verification link of one of the owner's artifacts
func (s *VerificationService) QRCode(ctx context.Context, ownerID, id, origin string, format qr.Format) ([]byte, error) {
	link, err := s.VerificationLink(ctx, ownerID, id, origin)
	if err != nil {
		return nil, err
	}

	img, err := s.renderer.Render(link, format)
	if err != nil {
		slog.Error("failed to render qr code", "error", err, "artifact_id", id)
		return nil, err
	}
	return img, nil
}

// QRDataURL is QRCode as a PNG data: URL, ready for an <img> src.
func (s *VerificationService) QRDataURL(ctx context.Context, ownerID, id, origin string) (string, error) {
	link, err := s.VerificationLink(ctx, ownerID, id, origin)
	if err != nil {
		return "", err
	}

	u, err := s.renderer.DataURL(link)
	if err != nil {
		slog.Error("failed to render qr code", "error", err, "artifact_id", id)
		return "", err
	}
	return u, nil
}
