// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// ParsePostStatus maps a case-insensitive status name to a PostStatus.
func ParsePostStatus(s string) (PostStatus, bool) {
	switch st := PostStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return st, true
	}
	return "", false
}

// Post is a blog article. CategoryID and AuthorID are foreign keys; tags
// and images live in their own tables.
type Post struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Excerpt          *string    `json:"excerpt,omitempty"`
	Content          string     `json:"content"`
	FeaturedImageURL *string    `json:"featured_image_url,omitempty"`
	ThumbnailURL     *string    `json:"thumbnail_url,omitempty"`
	MetaTitle        *string    `json:"meta_title,omitempty"`
	MetaDescription  *string    `json:"meta_description,omitempty"`
	MetaKeywords     *string    `json:"meta_keywords,omitempty"`
	Status           PostStatus `json:"status"`
	IsFeatured       bool       `json:"is_featured"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	AuthorID         uuid.UUID  `json:"author_id"`
	CategoryID       *uuid.UUID `json:"category_id,omitempty"`
	ViewCount        int        `json:"view_count"`
	LikeCount        int        `json:"like_count"`
	CommentCount     int        `json:"comment_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// PostImage is one gallery image attached to a post.
type PostImage struct {
	ID           uuid.UUID `json:"id"`
	PostID       uuid.UUID `json:"post_id"`
	ImageURL     string    `json:"image_url"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	Caption      *string   `json:"caption,omitempty"`
	AltText      *string   `json:"alt_text,omitempty"`
	DisplayOrder int       `json:"display_order"`
}

// Tag is a free-form label. Tags are created on first use.
type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// PostSummary is the list projection of a post, joined with author and
// category names.
type PostSummary struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Excerpt          *string    `json:"excerpt,omitempty"`
	FeaturedImageURL *string    `json:"featured_image_url,omitempty"`
	ThumbnailURL     *string    `json:"thumbnail_url,omitempty"`
	Status           PostStatus `json:"status"`
	IsFeatured       bool       `json:"is_featured"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	ViewCount        int        `json:"view_count"`
	LikeCount        int        `json:"like_count"`
	CommentCount     int        `json:"comment_count"`
	AuthorName       string     `json:"author_name"`
	CategoryName     *string    `json:"category_name,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// PostDetail is the full post view returned by the detail endpoints.
type PostDetail struct {
	PostSummary
	Content         string      `json:"content"`
	ContentHTML     string      `json:"content_html"`
	MetaTitle       *string     `json:"meta_title,omitempty"`
	MetaDescription *string     `json:"meta_description,omitempty"`
	MetaKeywords    *string     `json:"meta_keywords,omitempty"`
	CategoryID      *uuid.UUID  `json:"category_id,omitempty"`
	Images          []PostImage `json:"images"`
	Tags            []string    `json:"tags"`
}

// RelatedPost is the compact projection used by the related-posts list.
type RelatedPost struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	FeaturedImageURL *string    `json:"featured_image_url,omitempty"`
	ThumbnailURL     *string    `json:"thumbnail_url,omitempty"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	CategoryName     *string    `json:"category_name,omitempty"`
}
