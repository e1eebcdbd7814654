package features

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"nunchakuclub/internal/models"
	"nunchakuclub/internal/pagination"
	"nunchakuclub/internal/result"
)

// ContactPageSize is the default page size of the submission list.
const ContactPageSize = 20

// ContactRepository is the submission storage the contact handlers need.
type ContactRepository interface {
	Create(ctx context.Context, c *models.ContactSubmission) (uuid.UUID, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, offset, limit int) ([]models.ContactSubmission, error)
}

// CourseFinder looks up a course by ID, returning nil, nil when missing.
type CourseFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

// ContactRequest is the payload of the public contact form.
type ContactRequest struct {
	FullName string     `json:"full_name" validate:"notblank,max=255"`
	Phone    string     `json:"phone" validate:"notblank,max=20"`
	Email    string     `json:"email" validate:"required,email,max=255"`
	CourseID *uuid.UUID `json:"course_id"`
	Message  string     `json:"message" validate:"notblank,max=5000"`
}

// Contact handles contact form submissions.
type Contact struct {
	submissions ContactRepository
	courses     CourseFinder
}

// NewContact returns a Contact handler.
func NewContact(submissions ContactRepository, courses CourseFinder) *Contact {
	return &Contact{submissions: submissions, courses: courses}
}

// SubmitContact records a new submission with the sender's IP address and
// user agent.
func (h *Contact) SubmitContact(ctx context.Context, req ContactRequest, ip, userAgent string) result.Result[uuid.UUID] {
	req.Email = strings.TrimSpace(req.Email)
	if msg := check(req); msg != "" {
		return result.Validation[uuid.UUID](msg)
	}

	if req.CourseID != nil {
		c, err := h.courses.FindByID(ctx, *req.CourseID)
		if err != nil {
			slog.Error("find course failed", "course_id", *req.CourseID, "error", err)
			return result.Unexpected[uuid.UUID]("failed to submit contact form")
		}
		if c == nil {
			return result.Validation[uuid.UUID]("course does not exist")
		}
	}

	id, err := h.submissions.Create(ctx, &models.ContactSubmission{
		FullName:  strings.TrimSpace(req.FullName),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     req.Email,
		CourseID:  req.CourseID,
		Message:   strings.TrimSpace(req.Message),
		Status:    models.ContactStatusNew,
		IPAddress: optional(ip),
		UserAgent: optional(userAgent),
	})
	if err != nil {
		slog.Error("create contact submission failed", "error", err)
		return result.Unexpected[uuid.UUID]("failed to submit contact form")
	}

	slog.Info("contact submission received", "submission_id", id)
	return result.Ok(id)
}

// ListContactSubmissions returns one page of submissions, newest first.
func (h *Contact) ListContactSubmissions(ctx context.Context, page, size int) result.Result[pagination.Page[models.ContactSubmission]] {
	if size < 1 {
		size = ContactPageSize
	}
	p, err := pagination.Query[models.ContactSubmission](ctx, page, size, h.submissions.Count, h.submissions.List)
	if err != nil {
		slog.Error("list contact submissions failed", "error", err)
		return result.Unexpected[pagination.Page[models.ContactSubmission]]("failed to load contact submissions")
	}
	return result.Ok(p)
}
