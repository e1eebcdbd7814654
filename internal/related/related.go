// Package related selects posts related to a given post. Candidates are
// drawn from three progressively looser tiers until the requested count
// is filled:
//
//  1. same category and at least one shared tag
//  2. same category
//  3. most recently published overall
//
// Every tier excludes the source post and anything chosen by an earlier
// tier, so the output never contains duplicates.
package related

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"nunchakuclub/internal/models"
	"nunchakuclub/internal/result"
)

const (
	// DefaultLimit is used when the caller asks for zero or fewer posts.
	DefaultLimit = 5
	// MaxLimit caps the number of posts a single call can return.
	MaxLimit = 20
)

// Origin is the subset of the source post the tiers match against.
type Origin struct {
	ID         uuid.UUID
	CategoryID *uuid.UUID
	TagIDs     []uuid.UUID
}

// Source runs the tier queries. Each query returns published posts only,
// newest first, never any ID in exclude, and at most limit rows.
type Source interface {
	// FindOrigin returns nil, nil when no post has the slug.
	FindOrigin(ctx context.Context, slug string) (*Origin, error)
	SameCategoryAndTags(ctx context.Context, categoryID uuid.UUID, tagIDs, exclude []uuid.UUID, limit int) ([]models.RelatedPost, error)
	SameCategory(ctx context.Context, categoryID uuid.UUID, exclude []uuid.UUID, limit int) ([]models.RelatedPost, error)
	Latest(ctx context.Context, exclude []uuid.UUID, limit int) ([]models.RelatedPost, error)
}

// Find returns up to limit posts related to the post with the given slug.
// A missing source post is a NotFound failure, not an empty list.
func Find(ctx context.Context, src Source, slug string, limit int) result.Result[[]models.RelatedPost] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	origin, err := src.FindOrigin(ctx, slug)
	if err != nil {
		slog.Error("related posts origin lookup failed", "slug", slug, "error", err)
		return result.Unexpected[[]models.RelatedPost]("failed to load post")
	}
	if origin == nil {
		return result.NotFound[[]models.RelatedPost]("post not found")
	}

	sel := newSelection(origin.ID, limit)

	if origin.CategoryID != nil && len(origin.TagIDs) > 0 {
		posts, err := src.SameCategoryAndTags(ctx, *origin.CategoryID, origin.TagIDs, sel.exclude(), sel.remaining())
		if err != nil {
			return tierFailed("category+tags", slug, err)
		}
		sel.add(posts)
	}

	if origin.CategoryID != nil && sel.remaining() > 0 {
		posts, err := src.SameCategory(ctx, *origin.CategoryID, sel.exclude(), sel.remaining())
		if err != nil {
			return tierFailed("category", slug, err)
		}
		sel.add(posts)
	}

	if sel.remaining() > 0 {
		posts, err := src.Latest(ctx, sel.exclude(), sel.remaining())
		if err != nil {
			return tierFailed("latest", slug, err)
		}
		sel.add(posts)
	}

	return result.Ok(sel.posts)
}

func tierFailed(tier, slug string, err error) result.Result[[]models.RelatedPost] {
	slog.Error("related posts tier query failed", "tier", tier, "slug", slug, "error", err)
	return result.Unexpected[[]models.RelatedPost]("failed to load related posts")
}

// selection accumulates tier output. add enforces exclusions and the cap
// itself instead of trusting the Source.
type selection struct {
	limit int
	seen  map[uuid.UUID]bool
	ids   []uuid.UUID
	posts []models.RelatedPost
}

func newSelection(originID uuid.UUID, limit int) *selection {
	return &selection{
		limit: limit,
		seen:  map[uuid.UUID]bool{originID: true},
		ids:   []uuid.UUID{originID},
		posts: make([]models.RelatedPost, 0, limit),
	}
}

func (s *selection) remaining() int {
	return s.limit - len(s.posts)
}

func (s *selection) exclude() []uuid.UUID {
	out := make([]uuid.UUID, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *selection) add(posts []models.RelatedPost) {
	for _, p := range posts {
		if s.remaining() == 0 {
			return
		}
		if s.seen[p.ID] {
			continue
		}
		s.seen[p.ID] = true
		s.ids = append(s.ids, p.ID)
		s.posts = append(s.posts, p)
	}
}
