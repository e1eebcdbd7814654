// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"nunchakuclub/internal/models"
)

// PostStore handles posts and their tags and images.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// PostFilter narrows the post list. Zero values mean "no filter".
type PostFilter struct {
	Search     string
	CategoryID *uuid.UUID
	Status     *models.PostStatus
	Featured   *bool
}

// where renders the filter as a WHERE clause over alias p.
func (f PostFilter) where() (string, []any) {
	var conds []string
	var args []any

	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		conds = append(conds, fmt.Sprintf("(p.title ILIKE $%d OR p.content ILIKE $%d)", len(args), len(args)))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		conds = append(conds, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		conds = append(conds, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if f.Featured != nil {
		args = append(args, *f.Featured)
		conds = append(conds, fmt.Sprintf("p.is_featured = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

const postColumns = `id, title, slug, excerpt, content, featured_image_url, thumbnail_url,
	meta_title, meta_description, meta_keywords, status, is_featured, published_at,
	author_id, category_id, view_count, like_count, comment_count, created_at, updated_at`

func scanPost(s scanner) (*models.Post, error) {
	var p models.Post
	err := s.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.FeaturedImageURL, &p.ThumbnailURL,
		&p.MetaTitle, &p.MetaDescription, &p.MetaKeywords, &p.Status, &p.IsFeatured, &p.PublishedAt,
		&p.AuthorID, &p.CategoryID, &p.ViewCount, &p.LikeCount, &p.CommentCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

const summaryColumns = `p.id, p.title, p.slug, p.excerpt, p.featured_image_url, p.thumbnail_url,
	p.status, p.is_featured, p.published_at, p.view_count, p.like_count, p.comment_count,
	u.full_name, c.name, p.created_at`

const summaryJoins = ` FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN categories c ON c.id = p.category_id`

func scanSummary(s scanner) (*models.PostSummary, error) {
	var p models.PostSummary
	err := s.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.FeaturedImageURL, &p.ThumbnailURL,
		&p.Status, &p.IsFeatured, &p.PublishedAt, &p.ViewCount, &p.LikeCount, &p.CommentCount,
		&p.AuthorName, &p.CategoryName, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Count returns the number of posts matching the filter.
func (s *PostStore) Count(ctx context.Context, f PostFilter) (int, error) {
	where, args := f.where()
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// List returns one page of posts matching the filter, newest first by
// publish time, falling back to creation time for unpublished posts.
func (s *PostStore) List(ctx context.Context, f PostFilter, offset, limit int) ([]models.PostSummary, error) {
	where, args := f.where()
	args = append(args, limit, offset)
	q := `SELECT ` + summaryColumns + summaryJoins + where +
		fmt.Sprintf(` ORDER BY COALESCE(p.published_at, p.created_at) DESC, p.id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	items := []models.PostSummary{}
	for rows.Next() {
		p, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindByID retrieves a post by ID. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindDetail retrieves the detail projection of a post by ID or slug.
// Exactly one of id and slug should be set. Images and tags are loaded
// separately. Returns nil if not found.
func (s *PostStore) FindDetail(ctx context.Context, id *uuid.UUID, slug string) (*models.PostDetail, error) {
	q := `SELECT ` + summaryColumns + `, p.content, p.meta_title, p.meta_description, p.meta_keywords, p.category_id` + summaryJoins
	var arg any
	if id != nil {
		q += ` WHERE p.id = $1`
		arg = *id
	} else {
		q += ` WHERE p.slug = $1`
		arg = slug
	}

	var d models.PostDetail
	err := s.db.QueryRowContext(ctx, q, arg).Scan(
		&d.ID, &d.Title, &d.Slug, &d.Excerpt, &d.FeaturedImageURL, &d.ThumbnailURL,
		&d.Status, &d.IsFeatured, &d.PublishedAt, &d.ViewCount, &d.LikeCount, &d.CommentCount,
		&d.AuthorName, &d.CategoryName, &d.CreatedAt,
		&d.Content, &d.MetaTitle, &d.MetaDescription, &d.MetaKeywords, &d.CategoryID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post detail: %w", err)
	}
	return &d, nil
}

// SlugExists reports whether a post already uses the slug.
func (s *PostStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check post slug: %w", err)
	}
	return exists, nil
}

// Exists reports whether a post with the ID exists.
func (s *PostStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check post: %w", err)
	}
	return exists, nil
}

// Create inserts a post and returns its generated ID.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, excerpt, content, featured_image_url, meta_title,
			meta_description, meta_keywords, status, is_featured, published_at, author_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`, p.Title, p.Slug, p.Excerpt, p.Content, p.FeaturedImageURL, p.MetaTitle,
		p.MetaDescription, p.MetaKeywords, p.Status, p.IsFeatured, p.PublishedAt, p.AuthorID, p.CategoryID,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create post: %w", err)
	}
	return id, nil
}

// Update writes the editable fields of a post. Slug, status and counters
// are left alone.
func (s *PostStore) Update(ctx context.Context, p *models.Post) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE posts SET
			title = $1, content = $2, excerpt = $3, featured_image_url = $4,
			meta_title = $5, meta_description = $6, meta_keywords = $7,
			category_id = $8, is_featured = $9, updated_at = NOW()
		WHERE id = $10
	`, p.Title, p.Content, p.Excerpt, p.FeaturedImageURL,
		p.MetaTitle, p.MetaDescription, p.MetaKeywords,
		p.CategoryID, p.IsFeatured, p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Publish marks a post published at the given time.
func (s *PostStore) Publish(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE posts SET status = $1, published_at = $2, updated_at = NOW() WHERE id = $3
	`, models.PostStatusPublished, at, id)
	if err != nil {
		return fmt.Errorf("publish post: %w", err)
	}
	return nil
}

// Delete removes a post. Tags links, images and comments cascade.
// Returns false if no row was deleted.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete post rows: %w", err)
	}
	return n > 0, nil
}

// IncrementViews bumps the view counter.
func (s *PostStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `UPDATE posts SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment post views: %w", err)
	}
	return nil
}

// Like bumps the like counter and returns the new value. found is false
// when no post has the ID.
func (s *PostStore) Like(ctx context.Context, id uuid.UUID) (count int, found bool, err error) {
	err = s.db.QueryRowContext(ctx, `
		UPDATE posts SET like_count = like_count + 1 WHERE id = $1 RETURNING like_count
	`, id).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("like post: %w", err)
	}
	return count, true, nil
}

// IncrementComments bumps the cached comment counter.
func (s *PostStore) IncrementComments(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `UPDATE posts SET comment_count = comment_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment post comments: %w", err)
	}
	return nil
}
