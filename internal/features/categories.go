package features

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"nunchakuclub/internal/models"
	"nunchakuclub/internal/result"
	"nunchakuclub/internal/slug"
	"nunchakuclub/internal/store"
)

// CategoryRepository is the category storage the category handlers need.
type CategoryRepository interface {
	CategoryFinder
	ListActive(ctx context.Context) ([]models.Category, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
}

// CategoryRequest is the payload of POST /api/categories.
type CategoryRequest struct {
	Name         string     `json:"name" validate:"notblank,max=255"`
	Description  *string    `json:"description" validate:"omitempty,max=1000"`
	ParentID     *uuid.UUID `json:"parent_id"`
	DisplayOrder int        `json:"display_order" validate:"gte=0"`
	IsActive     *bool      `json:"is_active"`
}

// Categories handles post categories.
type Categories struct {
	categories CategoryRepository
	suffix     slug.SuffixFunc
}

// NewCategories returns a Categories handler.
func NewCategories(categories CategoryRepository) *Categories {
	return &Categories{categories: categories, suffix: slug.RandomSuffix}
}

// ListCategories returns the active categories in display order, nested
// under their parents when includeChildren is set.
func (h *Categories) ListCategories(ctx context.Context, includeChildren bool) result.Result[[]models.Category] {
	flat, err := h.categories.ListActive(ctx)
	if err != nil {
		slog.Error("list categories failed", "error", err)
		return result.Unexpected[[]models.Category]("failed to load categories")
	}
	if includeChildren {
		return result.Ok(store.BuildTree(flat))
	}
	return result.Ok(flat)
}

// CreateCategory creates a category and returns its ID.
func (h *Categories) CreateCategory(ctx context.Context, req CategoryRequest) result.Result[uuid.UUID] {
	if msg := check(req); msg != "" {
		return result.Validation[uuid.UUID](msg)
	}

	if req.ParentID != nil {
		parent, err := h.categories.FindByID(ctx, *req.ParentID)
		if err != nil {
			slog.Error("find parent category failed", "category_id", *req.ParentID, "error", err)
			return result.Unexpected[uuid.UUID]("failed to create category")
		}
		if parent == nil {
			return result.Validation[uuid.UUID]("parent category does not exist")
		}
	}

	name := strings.TrimSpace(req.Name)
	s, err := slug.Unique(ctx, slug.Generate(name), h.categories.SlugExists, h.suffix)
	if err != nil {
		slog.Error("generate category slug failed", "error", err)
		return result.Unexpected[uuid.UUID]("failed to create category")
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	c, err := h.categories.Create(ctx, &models.Category{
		Name:         name,
		Slug:         s,
		Description:  req.Description,
		ParentID:     req.ParentID,
		DisplayOrder: req.DisplayOrder,
		IsActive:     active,
	})
	if err != nil {
		slog.Error("create category failed", "slug", s, "error", err)
		return result.Unexpected[uuid.UUID]("failed to create category")
	}

	slog.Info("category created", "category_id", c.ID, "slug", s)
	return result.Ok(c.ID)
}
