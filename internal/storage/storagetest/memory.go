// Package storagetest provides an in-memory storage.Storage for tests.
package storagetest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/creerlio/talentbank/internal/apperr"
)

// Memory keeps objects in a map. Signed URLs point at an httptest server
// that serves the stored bytes, so they can be fetched like real ones.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	server  *httptest.Server

	// Injected failures, returned as-is when set
	UploadErr error
	SignErr   error
	DeleteErr error
}

func NewMemory() *Memory {
	m := &Memory{objects: make(map[string][]byte)}
	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, ok := m.Object(strings.TrimPrefix(r.URL.Path, "/"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(b)
	}))
	return m
}

// Close stops the download server. Signed URLs fail to fetch afterwards.
func (m *Memory) Close() {
	m.server.Close()
}

func (m *Memory) Upload(ctx context.Context, path string, body io.ReadSeeker, size int64, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UploadErr != nil {
		return m.UploadErr
	}
	if _, ok := m.objects[path]; ok {
		return fmt.Errorf("%w: object %q", apperr.ErrConflict, path)
	}

	b, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	m.objects[path] = b
	return nil
}

func (m *Memory) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	if m.SignErr != nil {
		return "", m.SignErr
	}
	if _, ok := m.Object(path); !ok {
		return "", fmt.Errorf("%w: object %q", apperr.ErrNotFound, path)
	}
	return m.server.URL + "/" + path, nil
}

func (m *Memory) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleted = append(m.deleted, path)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.objects, path)
	return nil
}

func (m *Memory) Object(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[path]
	return b, ok
}

// Put replaces the bytes at path, bypassing the no-overwrite rule
func (m *Memory) Put(path string, b []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = b
}

func (m *Memory) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// Deleted lists every path Delete was called with
func (m *Memory) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}
