package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creerlio/talentbank/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 answers the handful of path-style S3 calls S3Storage makes
type fakeS3 struct {
	mu      sync.Mutex
	bucket  string
	objects map[string][]byte
	denyPut bool
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/"+f.bucket)
	key = strings.TrimPrefix(key, "/")

	if key == "" {
		// HeadBucket
		w.WriteHeader(http.StatusOK)
		return
	}

	switch r.Method {
	case http.MethodPut:
		if f.denyPut {
			s3Error(w, http.StatusForbidden, "AccessDenied")
			return
		}
		if _, ok := f.objects[key]; ok && r.Header.Get("If-None-Match") == "*" {
			s3Error(w, http.StatusPreconditionFailed, "PreconditionFailed")
			return
		}
		b, _ := io.ReadAll(r.Body)
		f.objects[key] = b
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		if _, ok := f.objects[key]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func s3Error(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>`+code+`</Code><Message>`+code+`</Message></Error>`)
}

func setupFakeS3(t *testing.T) (*S3Storage, *fakeS3) {
	t.Helper()
	fake := &fakeS3{bucket: "talent-bank", objects: map[string][]byte{}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	store, err := NewS3Storage(context.Background(), S3Config{
		Endpoint:  server.URL,
		Region:    "us-east-1",
		Bucket:    "talent-bank",
		AccessKey: "test",
		SecretKey: "test",
		Timeout:   5 * time.Second,
	})
	require.NoError(t, err)
	return store, fake
}

func TestS3Storage_Fake(t *testing.T) {
	store, fake := setupFakeS3(t)
	ctx := context.Background()
	path := "u1/resume/0b6f4a8e-3c1d-4a3f-9a55-6f1f2f1d2c3b-resume.pdf"
	data := []byte("0123456789")

	t.Run("SignedURLMissingIsNotFound", func(t *testing.T) {
		_, err := store.SignedURL(ctx, path, time.Minute)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("Upload", func(t *testing.T) {
		require.NoError(t, store.Upload(ctx, path, bytes.NewReader(data), int64(len(data)), "application/pdf"))
	})

	t.Run("UploadDuplicateIsConflict", func(t *testing.T) {
		err := store.Upload(ctx, path, bytes.NewReader([]byte("other")), 5, "application/pdf")
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("SignedURL", func(t *testing.T) {
		signed, err := store.SignedURL(ctx, path, time.Minute)
		require.NoError(t, err)

		u, err := url.Parse(signed)
		require.NoError(t, err)
		assert.Equal(t, "/talent-bank/"+path, u.Path)
		assert.Equal(t, "60", u.Query().Get("X-Amz-Expires"))
		assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, path))
		_, err := store.SignedURL(ctx, path, time.Minute)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("RejectedWriteIsStorageError", func(t *testing.T) {
		fake.mu.Lock()
		fake.denyPut = true
		fake.mu.Unlock()

		err := store.Upload(ctx, path, bytes.NewReader(data), int64(len(data)), "application/pdf")
		assert.ErrorIs(t, err, apperr.ErrStorage)
		assert.NotErrorIs(t, err, apperr.ErrConflict)
	})
}
