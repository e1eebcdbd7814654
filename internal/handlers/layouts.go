// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"nunchakuclub/internal/cache"
	"nunchakuclub/internal/features"
	"nunchakuclub/internal/models"
	"nunchakuclub/internal/result"
)

const sectionTypesGroup = "section-types"

// LayoutService is the page-builder feature.
type LayoutService interface {
	ListSectionTypes(ctx context.Context) result.Result[[]models.SectionType]
	CreateSectionType(ctx context.Context, req features.SectionTypeRequest) result.Result[uuid.UUID]
	ListLayoutTemplates(ctx context.Context) result.Result[[]models.LayoutTemplate]
	GetLayoutTemplate(ctx context.Context, id uuid.UUID) result.Result[*models.LayoutTemplate]
	CreateLayoutTemplate(ctx context.Context, req features.LayoutTemplateRequest, userID uuid.UUID) result.Result[uuid.UUID]
	UpdateLayoutTemplate(ctx context.Context, id uuid.UUID, req features.LayoutTemplateUpdate, userID uuid.UUID) result.Result[result.Empty]
	DeleteLayoutTemplate(ctx context.Context, id uuid.UUID) result.Result[result.Empty]
	GetPageLayout(ctx context.Context, pageID uuid.UUID) result.Result[models.PageLayout]
	UpdatePageLayout(ctx context.Context, pageID uuid.UUID, layout models.PageLayout) result.Result[models.PageLayout]
	ApplyLayoutTemplate(ctx context.Context, pageID, templateID uuid.UUID) result.Result[models.PageLayout]
	GetPageBySlug(ctx context.Context, slug string) result.Result[features.PageView]
}

// Layouts serves section types, layout templates and page layouts.
type Layouts struct {
	layouts LayoutService
	cache   *cache.ResponseCache
}

// NewLayouts creates the page-builder handlers. rc may be nil.
func NewLayouts(layouts LayoutService, rc *cache.ResponseCache) *Layouts {
	return &Layouts{layouts: layouts, cache: rc}
}

// ListSectionTypes handles GET /api/layouts/section-types.
func (h *Layouts) ListSectionTypes(w http.ResponseWriter, r *http.Request) {
	serveCached(w, r, h.cache, cache.Key(sectionTypesGroup), func() result.Result[[]models.SectionType] {
		return h.layouts.ListSectionTypes(r.Context())
	})
}

// CreateSectionType handles POST /api/layouts/section-types.
func (h *Layouts) CreateSectionType(w http.ResponseWriter, r *http.Request) {
	var req features.SectionTypeRequest
	if !decode(w, r, &req) {
		return
	}
	res := h.layouts.CreateSectionType(r.Context(), req)
	if res.IsSuccess() {
		h.cache.InvalidateGroup(r.Context(), sectionTypesGroup)
	}
	created(w, res)
}

// ListTemplates handles GET /api/layouts/templates.
func (h *Layouts) ListTemplates(w http.ResponseWriter, r *http.Request) {
	respond(w, h.layouts.ListLayoutTemplates(r.Context()), http.StatusOK)
}

// GetTemplate handles GET /api/layouts/templates/{id}.
func (h *Layouts) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	respond(w, h.layouts.GetLayoutTemplate(r.Context(), id), http.StatusOK)
}

// CreateTemplate handles POST /api/layouts/templates.
func (h *Layouts) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req features.LayoutTemplateRequest
	if !decode(w, r, &req) {
		return
	}
	created(w, h.layouts.CreateLayoutTemplate(r.Context(), req, userID))
}

// UpdateTemplate handles PUT /api/layouts/templates/{id}. Absent fields
// are left unchanged.
func (h *Layouts) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req features.LayoutTemplateUpdate
	if !decode(w, r, &req) {
		return
	}
	noContent(w, h.layouts.UpdateLayoutTemplate(r.Context(), id, req, userID))
}

// DeleteTemplate handles DELETE /api/layouts/templates/{id}.
func (h *Layouts) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	noContent(w, h.layouts.DeleteLayoutTemplate(r.Context(), id))
}

// GetPage handles GET /api/pages/{page}, where page is a slug.
func (h *Layouts) GetPage(w http.ResponseWriter, r *http.Request) {
	respond(w, h.layouts.GetPageBySlug(r.Context(), chi.URLParam(r, "page")), http.StatusOK)
}

// GetPageLayout handles GET /api/pages/{page}/layout, where page is an ID.
func (h *Layouts) GetPageLayout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "page")
	if !ok {
		return
	}
	respond(w, h.layouts.GetPageLayout(r.Context(), id), http.StatusOK)
}

// UpdatePageLayout handles PUT /api/pages/{page}/layout. The body's
// version must match the stored one; a stale version answers 409.
func (h *Layouts) UpdatePageLayout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "page")
	if !ok {
		return
	}
	var layout models.PageLayout
	if !decode(w, r, &layout) {
		return
	}
	respond(w, h.layouts.UpdatePageLayout(r.Context(), id, layout), http.StatusOK)
}

// ApplyTemplate handles POST /api/pages/{page}/layout/apply/{templateId}.
func (h *Layouts) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	pageID, ok := pathID(w, r, "page")
	if !ok {
		return
	}
	templateID, ok := pathID(w, r, "templateId")
	if !ok {
		return
	}
	respond(w, h.layouts.ApplyLayoutTemplate(r.Context(), pageID, templateID), http.StatusOK)
}
