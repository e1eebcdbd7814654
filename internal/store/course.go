package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"nunchakuclub/internal/models"
)

// CourseStore manages training courses.
type CourseStore struct {
	db *sql.DB
}

// NewCourseStore returns a new CourseStore.
func NewCourseStore(db *sql.DB) *CourseStore {
	return &CourseStore{db: db}
}

const courseColumns = `id, name, slug, description, level, duration_months, sessions_per_week,
	price, is_free, features, display_order, is_featured, is_active, thumbnail_url,
	cover_image_url, created_at, updated_at`

func scanCourse(s scanner) (*models.Course, error) {
	var c models.Course
	var features []byte
	err := s.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Level, &c.DurationMonths, &c.SessionsPerWeek,
		&c.Price, &c.IsFree, &features, &c.DisplayOrder, &c.IsFeatured, &c.IsActive, &c.ThumbnailURL,
		&c.CoverImageURL, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Features = []string{}
	if len(features) > 0 {
		if err := json.Unmarshal(features, &c.Features); err != nil {
			return nil, fmt.Errorf("decode course features: %w", err)
		}
	}
	return &c, nil
}

// ListActive returns active courses ordered by display order.
func (s *CourseStore) ListActive(ctx context.Context) ([]models.Course, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+courseColumns+` FROM courses
		WHERE is_active
		ORDER BY display_order, name
	`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	items := []models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a course by ID. Returns nil if not found.
func (s *CourseStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id)
	c, err := scanCourse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find course by id: %w", err)
	}
	return c, nil
}

// SlugExists reports whether a course already uses the slug.
func (s *CourseStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM courses WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check course slug: %w", err)
	}
	return exists, nil
}

// Create inserts a course and returns its ID.
func (s *CourseStore) Create(ctx context.Context, c *models.Course) (uuid.UUID, error) {
	features := c.Features
	if features == nil {
		features = []string{}
	}
	raw, err := json.Marshal(features)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode course features: %w", err)
	}

	var id uuid.UUID
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO courses (name, slug, description, level, duration_months, sessions_per_week,
			price, is_free, features, display_order, is_featured, is_active, thumbnail_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`, c.Name, c.Slug, c.Description, c.Level, c.DurationMonths, c.SessionsPerWeek,
		c.Price, c.IsFree, string(raw), c.DisplayOrder, c.IsFeatured, c.IsActive, c.ThumbnailURL,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create course: %w", err)
	}
	return id, nil
}
