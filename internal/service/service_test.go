package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/creerlio/talentbank/internal/db"
	"github.com/creerlio/talentbank/internal/hashing"
	"github.com/creerlio/talentbank/internal/model"
	"github.com/creerlio/talentbank/internal/qr"
	"github.com/creerlio/talentbank/internal/repository"
	"github.com/creerlio/talentbank/internal/storage/storagetest"
	"github.com/stretchr/testify/require"
)

// failingRepo fails every write
type failingRepo struct {
	repository.ArtifactRepository
	err error
}

func (r *failingRepo) Create(ctx context.Context, artifact *model.Artifact) error {
	return r.err
}

// deadlineRepo records whether Create ran under a deadline
type deadlineRepo struct {
	repository.ArtifactRepository
	deadline    time.Time
	hasDeadline bool
}

func (r *deadlineRepo) Create(ctx context.Context, artifact *model.Artifact) error {
	r.deadline, r.hasDeadline = ctx.Deadline()
	return r.ArtifactRepository.Create(ctx, artifact)
}

type testEnv struct {
	repo      repository.ArtifactRepository
	store     *storagetest.Memory
	artifacts *ArtifactService
	verify    *VerificationService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.Init("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(database) })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	env := &testEnv{
		repo:  repository.NewArtifactRepository(database, 5*time.Second),
		store: storagetest.NewMemory(),
	}
	t.Cleanup(env.store.Close)
	env.wire(t, "https://app.example.com")
	return env
}

// wire (re)builds the services on top of repo and store
func (e *testEnv) wire(t *testing.T, baseURL string) {
	t.Helper()
	renderer, err := qr.NewRenderer(qr.Options{Level: "M", Width: 300, Margin: 1})
	require.NoError(t, err)

	e.artifacts = NewArtifactService(e.repo, e.store, time.Minute, 25<<20, 5*time.Second)
	e.verify = NewVerificationService(
		e.repo,
		e.store,
		hashing.NewHasher(nil, 5*time.Second),
		renderer,
		e.artifacts,
		baseURL,
		time.Minute,
	)
}

func resumeInput(owner string, body []byte, public bool) UploadInput {
	return UploadInput{
		OwnerID:     owner,
		Filename:    "resume.pdf",
		ContentType: "application/pdf",
		Body:        strings.NewReader(string(body)),
		Metadata: model.ItemMetadata{
			ItemType: model.ItemTypeResume,
			Title:    "Resume",
			IsPublic: public,
		},
	}
}

func uploadErr(t *testing.T, err error) *UploadError {
	t.Helper()
	var ue *UploadError
	require.True(t, errors.As(err, &ue), "expected *UploadError, got %T: %v", err, err)
	return ue
}
