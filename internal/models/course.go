package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CourseLevel is the difficulty tier of a course.
type CourseLevel string

const (
	CourseLevelBeginner     CourseLevel = "beginner"
	CourseLevelIntermediate CourseLevel = "intermediate"
	CourseLevelAdvanced     CourseLevel = "advanced"
	CourseLevelProfessional CourseLevel = "professional"
)

// ParseCourseLevel maps a case-insensitive level name to a CourseLevel.
func ParseCourseLevel(s string) (CourseLevel, bool) {
	switch l := CourseLevel(strings.ToLower(strings.TrimSpace(s))); l {
	case CourseLevelBeginner, CourseLevelIntermediate, CourseLevelAdvanced, CourseLevelProfessional:
		return l, true
	}
	return "", false
}

// Course is a training programme offered by the club. Price is in VND.
type Course struct {
	ID              uuid.UUID   `json:"id"`
	Name            string      `json:"name"`
	Slug            string      `json:"slug"`
	Description     *string     `json:"description,omitempty"`
	Level           CourseLevel `json:"level"`
	DurationMonths  int         `json:"duration_months"`
	SessionsPerWeek int         `json:"sessions_per_week"`
	Price           int64       `json:"price"`
	IsFree          bool        `json:"is_free"`
	Features        []string    `json:"features"`
	DisplayOrder    int         `json:"display_order"`
	IsFeatured      bool        `json:"is_featured"`
	IsActive        bool        `json:"is_active"`
	ThumbnailURL    *string     `json:"thumbnail_url,omitempty"`
	CoverImageURL   *string     `json:"cover_image_url,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
