package features

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	"nunchakuclub/internal/imaging"
	"nunchakuclub/internal/models"
	"nunchakuclub/internal/result"
	"nunchakuclub/internal/storage"
)

const (
	// MaxUploadSize is the largest file accepted for upload (20 MB).
	MaxUploadSize = 20 << 20

	// presignExpiry is how long a presigned download URL stays valid.
	presignExpiry = time.Hour
)

// allowedMediaTypes are the sniffed MIME types accepted for upload.
var allowedMediaTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
	"video/mp4":       true,
	"video/webm":      true,
	"application/pdf": true,
}

// ObjectStore is the object storage the media handlers upload into.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
	// ExtractKey maps a URL built by FileURL back to its object key.
	ExtractKey(rawURL string) (string, bool)
}

// MediaRepository records uploaded files.
type MediaRepository interface {
	Create(ctx context.Context, m *models.Media) (*models.Media, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Media, error)
}

// FileUpload is one file read from a multipart request.
type FileUpload struct {
	Filename string
	Data     []byte
}

// PresignedLink is a time-limited download URL.
type PresignedLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Media handles uploads to object storage.
type Media struct {
	objects ObjectStore
	media   MediaRepository
	now     func() time.Time
}

// NewMedia returns a Media handler. objects may be nil when storage is not
// configured; every operation then fails.
func NewMedia(objects ObjectStore, media MediaRepository) *Media {
	return &Media{objects: objects, media: media, now: time.Now}
}

// Enabled reports whether object storage is configured.
func (h *Media) Enabled() bool {
	return h != nil && h.objects != nil
}

// Upload stores one file and records it. Raster images also get a
// thumbnail; a failed thumbnail is logged and skipped.
func (h *Media) Upload(ctx context.Context, f FileUpload, uploadedBy uuid.UUID) result.Result[*models.Media] {
	if !h.Enabled() {
		return result.Unexpected[*models.Media]("object storage is not configured")
	}
	if len(f.Data) == 0 {
		return result.Validation[*models.Media]("file is empty")
	}
	if len(f.Data) > MaxUploadSize {
		return result.Validation[*models.Media](fmt.Sprintf("file is larger than %d MB", MaxUploadSize>>20))
	}

	contentType := imaging.DetectType(f.Data, f.Filename)
	if !allowedMediaTypes[contentType] {
		return result.Validation[*models.Media](fmt.Sprintf("file type %q is not allowed", contentType))
	}

	key := storage.ObjectKey(h.now(), f.Filename)
	size := int64(len(f.Data))
	if err := h.objects.Upload(ctx, key, contentType, bytes.NewReader(f.Data), size); err != nil {
		slog.Error("upload object failed", "key", key, "error", err)
		return result.Unexpected[*models.Media]("failed to upload file")
	}

	m := &models.Media{
		Filename:         path.Base(key),
		OriginalFilename: f.Filename,
		FilePath:         key,
		FileURL:          h.objects.FileURL(key),
		FileType:         models.FileTypeOf(contentType),
		MimeType:         contentType,
		FileSize:         size,
		UploadedBy:       uploadedBy,
	}
	if thumbKey := h.thumbnail(ctx, key, contentType, f.Data); thumbKey != "" {
		thumbURL := h.objects.FileURL(thumbKey)
		m.ThumbnailPath = &thumbKey
		m.ThumbnailURL = &thumbURL
	}

	created, err := h.media.Create(ctx, m)
	if err != nil {
		slog.Error("create media failed", "key", key, "error", err)
		h.removeObjects(ctx, m)
		return result.Unexpected[*models.Media]("failed to save file")
	}

	slog.Info("media uploaded", "media_id", created.ID, "key", key, "size", size)
	return result.Ok(created)
}

// thumbnail uploads a scaled-down copy of an image and returns its key,
// or "" when no thumbnail was stored.
func (h *Media) thumbnail(ctx context.Context, key, contentType string, data []byte) string {
	if !imaging.Thumbable(contentType) {
		return ""
	}
	thumb, err := imaging.Thumbnail(data, imaging.ThumbWidth)
	if err != nil {
		slog.Warn("thumbnail generation failed", "key", key, "error", err)
		return ""
	}
	if thumb == nil {
		return ""
	}

	thumbKey := imaging.ThumbKey(key)
	if err := h.objects.Upload(ctx, thumbKey, "image/jpeg", bytes.NewReader(thumb), int64(len(thumb))); err != nil {
		slog.Warn("thumbnail upload failed", "key", thumbKey, "error", err)
		return ""
	}
	return thumbKey
}

// UploadMany uploads each file in turn and returns the ones that
// succeeded. Failed files are logged and left out.
func (h *Media) UploadMany(ctx context.Context, files []FileUpload, uploadedBy uuid.UUID) result.Result[[]*models.Media] {
	if !h.Enabled() {
		return result.Unexpected[[]*models.Media]("object storage is not configured")
	}
	if len(files) == 0 {
		return result.Validation[[]*models.Media]("no files uploaded")
	}

	uploaded := make([]*models.Media, 0, len(files))
	for _, f := range files {
		r := h.Upload(ctx, f, uploadedBy)
		if !r.IsSuccess() {
			slog.Warn("skipping failed upload", "filename", f.Filename, "error", r.Err())
			continue
		}
		uploaded = append(uploaded, r.Value())
	}
	return result.Ok(uploaded)
}

// Delete removes a media record and its stored objects.
func (h *Media) Delete(ctx context.Context, id uuid.UUID) result.Result[result.Empty] {
	if !h.Enabled() {
		return result.Unexpected[result.Empty]("object storage is not configured")
	}

	m, err := h.media.Delete(ctx, id)
	if err != nil {
		slog.Error("delete media failed", "media_id", id, "error", err)
		return result.Unexpected[result.Empty]("failed to delete file")
	}
	if m == nil {
		return result.NotFound[result.Empty]("media not found")
	}

	h.removeObjects(ctx, m)
	slog.Info("media deleted", "media_id", id, "key", m.FilePath)
	return result.Done()
}

// removeObjects deletes a media item's objects. Failures only leave
// orphaned objects behind, so they are logged. Rows imported without a
// stored path fall back to the key embedded in their URL.
func (h *Media) removeObjects(ctx context.Context, m *models.Media) {
	for _, key := range h.objectKeys(m) {
		if err := h.objects.Delete(ctx, key); err != nil {
			slog.Warn("delete object failed", "media_id", m.ID, "key", key, "error", err)
		}
	}
}

func (h *Media) objectKeys(m *models.Media) []string {
	var keys []string
	if m.FilePath != "" {
		keys = append(keys, m.FilePath)
	} else if key, ok := h.objects.ExtractKey(m.FileURL); ok {
		keys = append(keys, key)
	} else {
		slog.Warn("media object key unknown", "media_id", m.ID, "url", m.FileURL)
	}

	switch {
	case m.ThumbnailPath != nil && *m.ThumbnailPath != "":
		keys = append(keys, *m.ThumbnailPath)
	case m.ThumbnailURL != nil:
		if key, ok := h.objects.ExtractKey(*m.ThumbnailURL); ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// PresignedURL returns a time-limited download URL for a media item.
func (h *Media) PresignedURL(ctx context.Context, id uuid.UUID) result.Result[PresignedLink] {
	if !h.Enabled() {
		return result.Unexpected[PresignedLink]("object storage is not configured")
	}

	m, err := h.media.FindByID(ctx, id)
	if err != nil {
		slog.Error("find media failed", "media_id", id, "error", err)
		return result.Unexpected[PresignedLink]("failed to load file")
	}
	if m == nil {
		return result.NotFound[PresignedLink]("media not found")
	}

	u, err := h.objects.PresignedURL(ctx, m.FilePath, presignExpiry)
	if err != nil {
		slog.Error("presign media url failed", "media_id", id, "error", err)
		return result.Unexpected[PresignedLink]("failed to sign file url")
	}
	return result.Ok(PresignedLink{URL: u, ExpiresAt: h.now().Add(presignExpiry)})
}
