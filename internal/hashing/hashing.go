package hashing

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/creerlio/talentbank/internal/apperr"
)

// Digest is the lowercase hex SHA-256 of a byte sequence (64 characters).
type Digest string

// EmptyDigest is the digest of zero bytes.
const EmptyDigest Digest = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// Sum hashes b. Any finite input is hashable, so it never fails.
func Sum(b []byte) Digest {
	sum := sha256.Sum256(b)
	return Digest(hex.EncodeToString(sum[:]))
}

// SumReader hashes everything r yields and reports how many bytes were read.
func SumReader(r io.Reader) (Digest, int64, error) {
	h := sha256.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return "", n, err
	}
	return Digest(hex.EncodeToString(h.Sum(nil))), n, nil
}

// Equal compares two digests case-insensitively in constant time.
func Equal(a, b Digest) bool {
	la := strings.ToLower(string(a))
	lb := strings.ToLower(string(b))
	return subtle.ConstantTimeCompare([]byte(la), []byte(lb)) == 1
}

// Hasher fetches remote bytes and hashes them.
type Hasher struct {
	client  *http.Client
	timeout time.Duration
}

// NewHasher returns a Hasher using client. A nil client falls back to
// http.DefaultClient; timeout bounds each fetch (30s when zero).
func NewHasher(client *http.Client, timeout time.Duration) *Hasher {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Hasher{client: client, timeout: timeout}
}

// FromRemote downloads url and returns the digest of the body.
// Unreachable hosts and non-2xx responses fail with apperr.ErrFetch.
func (h *Hasher) FromRemote(ctx context.Context, url string) (Digest, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", apperr.ErrFetch, err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: failed to fetch file: %s", apperr.ErrFetch, resp.Status)
	}

	digest, _, err := SumReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", apperr.ErrFetch, err)
	}
	return digest, nil
}
