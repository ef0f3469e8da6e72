package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", fmt.Errorf("%w: title is required", ErrValidation), http.StatusBadRequest},
		{"auth", ErrAuthentication, http.StatusUnauthorized},
		{"not found", fmt.Errorf("object: %w", ErrNotFound), http.StatusNotFound},
		{"conflict", ErrConflict, http.StatusConflict},
		{"storage", fmt.Errorf("%w: timeout", ErrStorage), http.StatusBadGateway},
		{"persistence", ErrPersistence, http.StatusBadGateway},
		{"fetch", ErrFetch, http.StatusBadGateway},
		{"render", ErrRender, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage_HidesCollaboratorDetail(t *testing.T) {
	err := fmt.Errorf("%w: dial tcp 10.0.0.3:9000: connection refused", ErrStorage)
	assert.NotContains(t, PublicMessage(err), "10.0.0.3")

	err = fmt.Errorf("%w: title is required", ErrValidation)
	assert.Equal(t, err.Error(), PublicMessage(err))
}
