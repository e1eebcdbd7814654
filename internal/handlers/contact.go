package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"nunchakuclub/internal/features"
	"nunchakuclub/internal/middleware"
	"nunchakuclub/internal/models"
	"nunchakuclub/internal/pagination"
	"nunchakuclub/internal/result"
)

// ContactService is the contact form feature.
type ContactService interface {
	SubmitContact(ctx context.Context, req features.ContactRequest, ip, userAgent string) result.Result[uuid.UUID]
	ListContactSubmissions(ctx context.Context, page, size int) result.Result[pagination.Page[models.ContactSubmission]]
}

// Contact serves the public contact form and its admin listing.
type Contact struct {
	contact ContactService
}

// NewContact creates the contact handlers.
func NewContact(contact ContactService) *Contact {
	return &Contact{contact: contact}
}

// Submit handles POST /api/contact.
func (h *Contact) Submit(w http.ResponseWriter, r *http.Request) {
	var req features.ContactRequest
	if !decode(w, r, &req) {
		return
	}
	created(w, h.contact.SubmitContact(r.Context(), req, middleware.ClientIP(r), r.UserAgent()))
}

// List handles GET /api/contact.
func (h *Contact) List(w http.ResponseWriter, r *http.Request) {
	page, size, err := pagination.ParseQuery(r, features.ContactPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	respond(w, h.contact.ListContactSubmissions(r.Context(), page, size), http.StatusOK)
}
