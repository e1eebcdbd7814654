package features

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"nunchakuclub/internal/models"
	"nunchakuclub/internal/result"
	"nunchakuclub/internal/slug"
)

// CourseRepository is the course storage the course handlers need.
type CourseRepository interface {
	ListActive(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, c *models.Course) (uuid.UUID, error)
}

// CourseRequest is the payload of POST /api/courses.
type CourseRequest struct {
	Name            string   `json:"name" validate:"notblank,max=255"`
	Description     *string  `json:"description"`
	Level           string   `json:"level" validate:"required"`
	DurationMonths  int      `json:"duration_months" validate:"gte=0,lte=120"`
	SessionsPerWeek int      `json:"sessions_per_week" validate:"gte=0,lte=14"`
	Price           int64    `json:"price" validate:"gte=0"`
	IsFree          bool     `json:"is_free"`
	Features        []string `json:"features" validate:"omitempty,max=50,dive,notblank,max=255"`
	DisplayOrder    int      `json:"display_order" validate:"gte=0"`
	IsFeatured      bool     `json:"is_featured"`
	ThumbnailURL    *string  `json:"thumbnail_url" validate:"omitempty,max=1000"`
}

// Courses handles training courses.
type Courses struct {
	courses CourseRepository
	suffix  slug.SuffixFunc
}

// NewCourses returns a Courses handler.
func NewCourses(courses CourseRepository) *Courses {
	return &Courses{courses: courses, suffix: slug.RandomSuffix}
}

// ListCourses returns the active courses in display order.
func (h *Courses) ListCourses(ctx context.Context) result.Result[[]models.Course] {
	items, err := h.courses.ListActive(ctx)
	if err != nil {
		slog.Error("list courses failed", "error", err)
		return result.Unexpected[[]models.Course]("failed to load courses")
	}
	return result.Ok(items)
}

// CreateCourse creates an active course and returns its ID.
func (h *Courses) CreateCourse(ctx context.Context, req CourseRequest) result.Result[uuid.UUID] {
	if msg := check(req); msg != "" {
		return result.Validation[uuid.UUID](msg)
	}
	level, ok := models.ParseCourseLevel(req.Level)
	if !ok {
		return result.Validation[uuid.UUID]("level must be one of: Beginner, Intermediate, Advanced, Professional")
	}

	name := strings.TrimSpace(req.Name)
	s, err := slug.Unique(ctx, slug.Generate(name), h.courses.SlugExists, h.suffix)
	if err != nil {
		slog.Error("generate course slug failed", "error", err)
		return result.Unexpected[uuid.UUID]("failed to create course")
	}

	features := req.Features
	if features == nil {
		features = []string{}
	}
	id, err := h.courses.Create(ctx, &models.Course{
		Name:            name,
		Slug:            s,
		Description:     req.Description,
		Level:           level,
		DurationMonths:  req.DurationMonths,
		SessionsPerWeek: req.SessionsPerWeek,
		Price:           req.Price,
		IsFree:          req.IsFree,
		Features:        features,
		DisplayOrder:    req.DisplayOrder,
		IsFeatured:      req.IsFeatured,
		IsActive:        true,
		ThumbnailURL:    req.ThumbnailURL,
	})
	if err != nil {
		slog.Error("create course failed", "slug", s, "error", err)
		return result.Unexpected[uuid.UUID]("failed to create course")
	}

	slog.Info("course created", "course_id", id, "slug", s)
	return result.Ok(id)
}
