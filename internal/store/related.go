package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"nunchakuclub/internal/models"
	"nunchakuclub/internal/related"
)

// PostStore implements the tier queries of the related-posts ranker.
var _ related.Source = (*PostStore)(nil)

const relatedColumns = `p.id, p.title, p.slug, p.featured_image_url, p.thumbnail_url,
	p.published_at, p.created_at, c.name`

const relatedFrom = ` FROM posts p LEFT JOIN categories c ON c.id = p.category_id
	WHERE p.status = 'published' AND NOT (p.id = ANY($1::uuid[]))`

const relatedOrder = ` ORDER BY p.published_at DESC NULLS LAST, p.id`

// FindOrigin loads the category and tag IDs of the post with the slug.
func (s *PostStore) FindOrigin(ctx context.Context, slug string) (*related.Origin, error) {
	var o related.Origin
	err := s.db.QueryRowContext(ctx, `SELECT id, category_id FROM posts WHERE slug = $1`, slug).
		Scan(&o.ID, &o.CategoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find related origin: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT tag_id FROM post_tags WHERE post_id = $1`, o.ID)
	if err != nil {
		return nil, fmt.Errorf("list origin tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan origin tag: %w", err)
		}
		o.TagIDs = append(o.TagIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list origin tags: %w", err)
	}
	return &o, nil
}

// SameCategoryAndTags returns published posts in the category sharing at
// least one of tagIDs.
func (s *PostStore) SameCategoryAndTags(ctx context.Context, categoryID uuid.UUID, tagIDs, exclude []uuid.UUID, limit int) ([]models.RelatedPost, error) {
	q := `SELECT ` + relatedColumns + relatedFrom + `
		AND p.category_id = $2
		AND EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag_id = ANY($3::uuid[]))` +
		relatedOrder + ` LIMIT $4`
	return s.queryRelated(ctx, "category+tags", q, uuidArray(exclude), categoryID, uuidArray(tagIDs), limit)
}

// SameCategory returns published posts in the category.
func (s *PostStore) SameCategory(ctx context.Context, categoryID uuid.UUID, exclude []uuid.UUID, limit int) ([]models.RelatedPost, error) {
	q := `SELECT ` + relatedColumns + relatedFrom + ` AND p.category_id = $2` + relatedOrder + ` LIMIT $3`
	return s.queryRelated(ctx, "category", q, uuidArray(exclude), categoryID, limit)
}

// Latest returns the most recently published posts.
func (s *PostStore) Latest(ctx context.Context, exclude []uuid.UUID, limit int) ([]models.RelatedPost, error) {
	q := `SELECT ` + relatedColumns + relatedFrom + relatedOrder + ` LIMIT $2`
	return s.queryRelated(ctx, "latest", q, uuidArray(exclude), limit)
}

func (s *PostStore) queryRelated(ctx context.Context, tier, q string, args ...any) ([]models.RelatedPost, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("related posts %s: %w", tier, err)
	}
	defer rows.Close()

	posts := []models.RelatedPost{}
	for rows.Next() {
		var p models.RelatedPost
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.FeaturedImageURL, &p.ThumbnailURL,
			&p.PublishedAt, &p.CreatedAt, &p.CategoryName); err != nil {
			return nil, fmt.Errorf("scan related post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
