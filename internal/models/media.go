// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Media represents a file uploaded to S3-compatible object storage.
// Metadata is stored in PostgreSQL; the file itself lives in the bucket.
type Media struct {
	ID               uuid.UUID `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	FilePath         string    `json:"file_path"`
	FileURL          string    `json:"file_url"`
	FileType         string    `json:"file_type"`
	MimeType         string    `json:"mime_type"`
	FileSize         int64     `json:"file_size"`
	ThumbnailPath    *string   `json:"-"`
	ThumbnailURL     *string   `json:"thumbnail_url,omitempty"`
	AltText          *string   `json:"alt_text,omitempty"`
	UploadedBy       uuid.UUID `json:"uploaded_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// FileTypeOf classifies a MIME type into the coarse bucket stored in
// file_type: image, video, audio or document.
func FileTypeOf(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return "image"
	case strings.HasPrefix(mimeType, "video/"):
		return "video"
	case strings.HasPrefix(mimeType, "audio/"):
		return "audio"
	default:
		return "document"
	}
}
