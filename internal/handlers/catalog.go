package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"nunchakuclub/internal/cache"
	"nunchakuclub/internal/features"
	"nunchakuclub/internal/models"
	"nunchakuclub/internal/result"
)

// Cache groups for the catalogue lists.
const (
	categoriesGroup = "categories"
	coursesGroup    = "courses"
)

// CategoryService is the category feature.
type CategoryService interface {
	ListCategories(ctx context.Context, includeChildren bool) result.Result[[]models.Category]
	CreateCategory(ctx context.Context, req features.CategoryRequest) result.Result[uuid.UUID]
}

// CourseService is the course feature.
type CourseService interface {
	ListCourses(ctx context.Context) result.Result[[]models.Course]
	CreateCourse(ctx context.Context, req features.CourseRequest) result.Result[uuid.UUID]
}

// Catalog serves categories and courses. Both lists are read on every
// public page, so they go through the response cache.
type Catalog struct {
	categories CategoryService
	courses    CourseService
	cache      *cache.ResponseCache
}

// NewCatalog creates the catalogue handlers. rc may be nil.
func NewCatalog(categories CategoryService, courses CourseService, rc *cache.ResponseCache) *Catalog {
	return &Catalog{categories: categories, courses: courses, cache: rc}
}

// ListCategories handles GET /api/categories?include_children=true.
func (h *Catalog) ListCategories(w http.ResponseWriter, r *http.Request) {
	tree := false
	if v := r.URL.Query().Get("include_children"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "include_children must be true or false")
			return
		}
		tree = b
	}

	variant := "flat"
	if tree {
		variant = "tree"
	}
	serveCached(w, r, h.cache, cache.Key(categoriesGroup, variant), func() result.Result[[]models.Category] {
		return h.categories.ListCategories(r.Context(), tree)
	})
}

// CreateCategory handles POST /api/categories.
func (h *Catalog) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req features.CategoryRequest
	if !decode(w, r, &req) {
		return
	}
	res := h.categories.CreateCategory(r.Context(), req)
	if res.IsSuccess() {
		h.cache.InvalidateGroup(r.Context(), categoriesGroup)
	}
	created(w, res)
}

// ListCourses handles GET /api/courses.
func (h *Catalog) ListCourses(w http.ResponseWriter, r *http.Request) {
	serveCached(w, r, h.cache, cache.Key(coursesGroup), func() result.Result[[]models.Course] {
		return h.courses.ListCourses(r.Context())
	})
}

// CreateCourse handles POST /api/courses.
func (h *Catalog) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req features.CourseRequest
	if !decode(w, r, &req) {
		return
	}
	res := h.courses.CreateCourse(r.Context(), req)
	if res.IsSuccess() {
		h.cache.InvalidateGroup(r.Context(), coursesGroup)
	}
	created(w, res)
}
