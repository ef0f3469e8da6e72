package handler

import (
	"net/http"
	"time"

	"github.com/creerlio/talentbank/internal/service"
)

type VerifyHandler struct {
	verificationService *service.VerificationService
}

func NewVerifyHandler(verificationService *service.VerificationService) *VerifyHandler {
	return &VerifyHandler{
		verificationService: verificationService,
	}
}

// verifiedItem is the public view of an artifact. Owner and storage path stay private.
type verifiedItem struct {
	ID          string    `json:"id"`
	ItemType    string    `json:"item_type"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	FileType    string    `json:"file_type"`
	FileSize    int64     `json:"file_size"`
	ContentHash string    `json:"content_hash"`
	CreatedAt   time.Time `json:"created_at"`
}

type verifyResponse struct {
	Item         verifiedItem `json:"item"`
	Integrity    string       `json:"integrity"`
	RemoteDigest string       `json:"remote_digest,omitempty"`
	DownloadURL  string       `json:"download_url,omitempty"`
	ExpiresIn    int          `json:"expires_in,omitempty"`
}

func (h *VerifyHandler) Verify(w http.ResponseWriter, r *http.Request) {
	result, err := h.verificationService.Verify(r.Context(), r.PathValue("token"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	a := result.Artifact
	writeJSON(w, http.StatusOK, verifyResponse{
		Item: verifiedItem{
			ID:          a.ID,
			ItemType:    a.ItemType,
			Title:       a.Title,
			Description: a.Description,
			FileType:    a.FileType,
			FileSize:    a.FileSize,
			ContentHash: a.ContentHash,
			CreatedAt:   a.CreatedAt,
		},
		Integrity:    string(result.Status),
		RemoteDigest: string(result.RemoteDigest),
		DownloadURL:  result.DownloadURL,
		ExpiresIn:    int(result.ExpiresIn.Seconds()),
	})
}
