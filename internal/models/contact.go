package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactStatus tracks how far staff have handled a submission.
type ContactStatus string

const (
	ContactStatusNew      ContactStatus = "new"
	ContactStatusRead     ContactStatus = "read"
	ContactStatusReplied  ContactStatus = "replied"
	ContactStatusArchived ContactStatus = "archived"
)

// ContactSubmission is an enquiry sent through the public contact form,
// optionally about a specific course.
type ContactSubmission struct {
	ID         uuid.UUID     `json:"id"`
	FullName   string        `json:"full_name"`
	Phone      string        `json:"phone"`
	Email      string        `json:"email"`
	CourseID   *uuid.UUID    `json:"course_id,omitempty"`
	Message    string        `json:"message"`
	Status     ContactStatus `json:"status"`
	AdminNotes *string       `json:"admin_notes,omitempty"`
	HandledBy  *uuid.UUID    `json:"handled_by,omitempty"`
	HandledAt  *time.Time    `json:"handled_at,omitempty"`
	IPAddress  *string       `json:"-"`
	UserAgent  *string       `json:"-"`
	CreatedAt  time.Time     `json:"created_at"`

	// Joined from courses by list queries.
	CourseName *string `json:"course_name,omitempty"`
}
