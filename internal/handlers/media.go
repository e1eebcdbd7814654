// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"

	"nunchakuclub/internal/features"
	"nunchakuclub/internal/models"
	"nunchakuclub/internal/result"
)

// maxFilesPerUpload caps upload-multiple requests.
const maxFilesPerUpload = 10

// MediaService is the media library feature.
type MediaService interface {
	Enabled() bool
	Upload(ctx context.Context, f features.FileUpload, uploadedBy uuid.UUID) result.Result[*models.Media]
	UploadMany(ctx context.Context, files []features.FileUpload, uploadedBy uuid.UUID) result.Result[[]*models.Media]
	Delete(ctx context.Context, id uuid.UUID) result.Result[result.Empty]
	PresignedURL(ctx context.Context, id uuid.UUID) result.Result[features.PresignedLink]
}

// Media serves uploads to object storage.
type Media struct {
	media MediaService
}

// NewMedia creates the media handlers.
func NewMedia(media MediaService) *Media {
	return &Media{media: media}
}

// enabled writes a 503 when object storage is not configured.
func (h *Media) enabled(w http.ResponseWriter) bool {
	if !h.media.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "media storage is not configured")
		return false
	}
	return true
}

// Upload handles POST /api/media/upload with a single "file" part.
func (h *Media) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w) {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, features.MaxUploadSize+1024)
	if err := r.ParseMultipartForm(features.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file too large or invalid form (max %d MB)", features.MaxUploadSize>>20))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	f, err := readUpload(headers[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}
	respond(w, h.media.Upload(r.Context(), f, userID), http.StatusCreated)
}

// UploadMany handles POST /api/media/upload-multiple with "files" parts.
// Files that fail are skipped; the response lists the stored ones.
func (h *Media) UploadMany(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w) {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFilesPerUpload*features.MaxUploadSize+1024)
	if err := r.ParseMultipartForm(features.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "files too large or invalid form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}
	if len(headers) > maxFilesPerUpload {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d files per upload", maxFilesPerUpload))
		return
	}

	files := make([]features.FileUpload, 0, len(headers))
	for _, fh := range headers {
		f, err := readUpload(fh)
		if err != nil {
			writeError(w, http.StatusBadRequest, "could not read uploaded file "+fh.Filename)
			return
		}
		files = append(files, f)
	}
	respond(w, h.media.UploadMany(r.Context(), files, userID), http.StatusCreated)
}

// Delete handles DELETE /api/media/{id}.
func (h *Media) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w) {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	noContent(w, h.media.Delete(r.Context(), id))
}

// URL handles GET /api/media/{id}/url and returns a temporary download link.
func (h *Media) URL(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w) {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	respond(w, h.media.PresignedURL(r.Context(), id), http.StatusOK)
}

// readUpload reads one multipart file. At most MaxUploadSize+1 bytes are
// read so the size check downstream still sees an oversized file.
func readUpload(fh *multipart.FileHeader) (features.FileUpload, error) {
	file, err := fh.Open()
	if err != nil {
		return features.FileUpload{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, features.MaxUploadSize+1))
	if err != nil {
		return features.FileUpload{}, err
	}
	return features.FileUpload{Filename: fh.Filename, Data: data}, nil
}
