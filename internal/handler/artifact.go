package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/creerlio/talentbank/internal/apperr"
	"github.com/creerlio/talentbank/internal/ctxkeys"
	"github.com/creerlio/talentbank/internal/model"
	"github.com/creerlio/talentbank/internal/qr"
	"github.com/creerlio/talentbank/internal/service"
)

// multipart overhead allowed on top of the file itself
const formOverhead = 1 << 20

type ArtifactHandler struct {
	artifactService     *service.ArtifactService
	verificationService *service.VerificationService
	maxUploadSize       int64
}

func NewArtifactHandler(artifactService *service.ArtifactService, verificationService *service.VerificationService, maxUploadSize int64) *ArtifactHandler {
	return &ArtifactHandler{
		artifactService:     artifactService,
		verificationService: verificationService,
		maxUploadSize:       maxUploadSize,
	}
}

// Upload accepts multipart/form-data with a "file" part and a "metadata"
// JSON part. Plain item_type/title/description/is_public fields are
// accepted when metadata is absent.
func (h *ArtifactHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+formOverhead)
	}

	err := r.ParseMultipartForm(32 << 20)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, fmt.Errorf("%w: file too large: maximum size is %d MB", apperr.ErrValidation, h.maxUploadSize/(1<<20)))
			return
		}
		writeError(w, r, fmt.Errorf("%w: invalid multipart form: %v", apperr.ErrValidation, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: file is required", apperr.ErrValidation))
		return
	}
	defer func() { _ = file.Close() }()

	meta, err := parseMetadata(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.artifactService.Upload(r.Context(), service.UploadInput{
		OwnerID:     userID,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
		Metadata:    meta,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func parseMetadata(r *http.Request) (model.ItemMetadata, error) {
	var meta model.ItemMetadata

	raw := r.FormValue("metadata")
	if raw != "" {
		err := json.Unmarshal([]byte(raw), &meta)
		if err != nil {
			return meta, fmt.Errorf("%w: invalid metadata: %v", apperr.ErrValidation, err)
		}
		return meta, nil
	}

	meta.ItemType = strings.TrimSpace(r.FormValue("item_type"))
	meta.Title = strings.TrimSpace(r.FormValue("title"))
	if desc := strings.TrimSpace(r.FormValue("description")); desc != "" {
		meta.Description = &desc
	}
	if v := r.FormValue("is_public"); v != "" {
		public, err := strconv.ParseBool(v)
		if err != nil {
			return meta, fmt.Errorf("%w: is_public must be a boolean", apperr.ErrValidation)
		}
		meta.IsPublic = public
	}
	return meta, nil
}

func (h *ArtifactHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.artifactService.List(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *ArtifactHandler) Download(w http.ResponseWriter, r *http.Request) {
	url, ttl, err := h.artifactService.DownloadURL(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"url":        url,
		"expires_in": int(ttl.Seconds()),
	})
}

func (h *ArtifactHandler) VerificationLink(w http.ResponseWriter, r *http.Request) {
	link, err := h.verificationService.VerificationLink(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"), requestOrigin(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": link})
}

// QR renders the verification link as ?format=png (default) or svg
func (h *ArtifactHandler) QR(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "dataurl" {
		u, err := h.verificationService.QRDataURL(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"), requestOrigin(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"data_url": u})
		return
	}

	format, err := qr.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	img, err := h.verificationService.QRCode(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"), requestOrigin(r), format)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "private, max-age=3600")
	_, _ = w.Write(img)
}
