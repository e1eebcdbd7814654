package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"nunchakuclub/internal/models"
)

// FindTagBySlug returns the tag with the slug, or nil if none exists.
func (s *PostStore) FindTagBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var t models.Tag
	err := s.db.QueryRowContext(ctx, `SELECT id, name, slug FROM tags WHERE slug = $1`, slug).
		Scan(&t.ID, &t.Name, &t.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by slug: %w", err)
	}
	return &t, nil
}

// CreateTag inserts a tag and returns it.
func (s *PostStore) CreateTag(ctx context.Context, name, slug string) (*models.Tag, error) {
	var t models.Tag
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO tags (name, slug) VALUES ($1, $2) RETURNING id, name, slug
	`, name, slug).Scan(&t.ID, &t.Name, &t.Slug)
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return &t, nil
}

// ReplaceTags links exactly tagIDs to the post.
func (s *PostStore) ReplaceTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear post tags: %w", err)
	}
	for _, tagID := range tagIDs {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING
		`, postID, tagID)
		if err != nil {
			return fmt.Errorf("link post tag: %w", err)
		}
	}
	return nil
}

// TagNames returns the names of the post's tags, alphabetically.
func (s *PostStore) TagNames(ctx context.Context, postID uuid.UUID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.name FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1
		ORDER BY t.name
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list post tags: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// ReplaceImages stores urls as the post's gallery with 1-based display
// order matching the slice order.
func (s *PostStore) ReplaceImages(ctx context.Context, postID uuid.UUID, urls []string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM post_images WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear post images: %w", err)
	}
	for i, url := range urls {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO post_images (post_id, image_url, display_order) VALUES ($1, $2, $3)
		`, postID, url, i+1)
		if err != nil {
			return fmt.Errorf("add post image: %w", err)
		}
	}
	return nil
}

// Images returns the post's gallery ordered by display order.
func (s *PostStore) Images(ctx context.Context, postID uuid.UUID) ([]models.PostImage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, post_id, image_url, thumbnail_url, caption, alt_text, display_order
		FROM post_images WHERE post_id = $1
		ORDER BY display_order
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list post images: %w", err)
	}
	defer rows.Close()

	images := []models.PostImage{}
	for rows.Next() {
		var img models.PostImage
		if err := rows.Scan(&img.ID, &img.PostID, &img.ImageURL, &img.ThumbnailURL,
			&img.Caption, &img.AltText, &img.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scan post image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}
