package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"nunchakuclub/internal/models"
)

// ContactStore manages contact form submissions.
type ContactStore struct {
	db *sql.DB
}

// NewContactStore returns a new ContactStore.
func NewContactStore(db *sql.DB) *ContactStore {
	return &ContactStore{db: db}
}

// Create inserts a submission and returns its ID.
func (s *ContactStore) Create(ctx context.Context, c *models.ContactSubmission) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO contact_submissions (full_name, phone, email, course_id, message, status, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, c.FullName, c.Phone, c.Email, c.CourseID, c.Message, c.Status, c.IPAddress, c.UserAgent).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create contact submission: %w", err)
	}
	return id, nil
}

// Count returns the total number of submissions.
func (s *ContactStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_submissions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count contact submissions: %w", err)
	}
	return n, nil
}

// List returns one page of submissions, newest first, with course names.
func (s *ContactStore) List(ctx context.Context, offset, limit int) ([]models.ContactSubmission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cs.id, cs.full_name, cs.phone, cs.email, cs.course_id, cs.message, cs.status,
		       cs.admin_notes, cs.handled_by, cs.handled_at, cs.created_at, c.name
		FROM contact_submissions cs
		LEFT JOIN courses c ON c.id = cs.course_id
		ORDER BY cs.created_at DESC, cs.id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contact submissions: %w", err)
	}
	defer rows.Close()

	items := []models.ContactSubmission{}
	for rows.Next() {
		var c models.ContactSubmission
		if err := rows.Scan(&c.ID, &c.FullName, &c.Phone, &c.Email, &c.CourseID, &c.Message, &c.Status,
			&c.AdminNotes, &c.HandledBy, &c.HandledAt, &c.CreatedAt, &c.CourseName); err != nil {
			return nil, fmt.Errorf("scan contact submission: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
