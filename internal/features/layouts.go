// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package features

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"nunchakuclub/internal/models"
	"nunchakuclub/internal/result"
	"nunchakuclub/internal/slug"
)

// SectionTypeRepository is the section type storage layouts need.
type SectionTypeRepository interface {
	List(ctx context.Context) ([]models.SectionType, error)
	ActiveKeys(ctx context.Context) (map[string]bool, error)
	KeyExists(ctx context.Context, key string) (bool, error)
	Create(ctx context.Context, st *models.SectionType) (uuid.UUID, error)
}

// LayoutTemplateRepository is the template storage layouts need.
type LayoutTemplateRepository interface {
	List(ctx context.Context) ([]models.LayoutTemplate, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.LayoutTemplate, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, t *models.LayoutTemplate) (uuid.UUID, error)
	Update(ctx context.Context, t *models.LayoutTemplate) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ClearDefault(ctx context.Context, keep uuid.UUID) error
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}

// PageRepository is the page storage layouts need.
type PageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Page, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.Page, error)
	// SaveLayout writes only while the stored version equals expected and
	// reports whether it did.
	SaveLayout(ctx context.Context, id uuid.UUID, templateID *uuid.UUID, config string, expected, version int) (bool, error)
}

// SectionTypeRequest is the payload of POST /api/layouts/section-types.
type SectionTypeRequest struct {
	Name            string                     `json:"name" validate:"notblank,max=255"`
	TypeKey         string                     `json:"type_key" validate:"required,max=100,typekey"`
	Description     *string                    `json:"description"`
	Icon            *string                    `json:"icon" validate:"omitempty,max=100"`
	Category        *string                    `json:"category" validate:"omitempty,max=100"`
	PreviewImageURL *string                    `json:"preview_image_url" validate:"omitempty,max=1000"`
	ConfigSchema    models.SectionConfigSchema `json:"config_schema"`
	DefaultConfig   map[string]any             `json:"default_config"`
	DisplayOrder    int                        `json:"display_order" validate:"gte=0"`
}

// LayoutTemplateRequest is the payload for creating a layout template.
type LayoutTemplateRequest struct {
	Name            string            `json:"name" validate:"notblank,max=255"`
	Description     *string           `json:"description"`
	PreviewImageURL *string           `json:"preview_image_url" validate:"omitempty,max=1000"`
	Category        *string           `json:"category" validate:"omitempty,max=100"`
	Layout          models.PageLayout `json:"layout"`
	IsActive        *bool             `json:"is_active"`
	IsDefault       bool              `json:"is_default"`
}

// LayoutTemplateUpdate is the payload for updating a layout template. Nil
// fields keep their stored value.
type LayoutTemplateUpdate struct {
	Name            *string            `json:"name" validate:"omitempty,notblank,max=255"`
	Description     *string            `json:"description"`
	PreviewImageURL *string            `json:"preview_image_url" validate:"omitempty,max=1000"`
	Category        *string            `json:"category" validate:"omitempty,max=100"`
	Layout          *models.PageLayout `json:"layout"`
	IsActive        *bool              `json:"is_active"`
	IsDefault       *bool              `json:"is_default"`
}

// PageView is a published page with its effective layout.
type PageView struct {
	Page   *models.Page      `json:"page"`
	Layout models.PageLayout `json:"layout"`
}

// Layouts handles the page builder: section types, layout templates and
// per-page layouts.
type Layouts struct {
	sections  SectionTypeRepository
	templates LayoutTemplateRepository
	pages     PageRepository
	suffix    slug.SuffixFunc
}

// NewLayouts returns a Layouts handler.
func NewLayouts(sections SectionTypeRepository, templates LayoutTemplateRepository, pages PageRepository) *Layouts {
	return &Layouts{sections: sections, templates: templates, pages: pages, suffix: slug.RandomSuffix}
}

// ListSectionTypes returns the section type catalogue.
func (h *Layouts) ListSectionTypes(ctx context.Context) result.Result[[]models.SectionType] {
	items, err := h.sections.List(ctx)
	if err != nil {
		slog.Error("list section types failed", "error", err)
		return result.Unexpected[[]models.SectionType]("failed to load section types")
	}
	return result.Ok(items)
}

// CreateSectionType adds a section type. Type keys are unique.
func (h *Layouts) CreateSectionType(ctx context.Context, req SectionTypeRequest) result.Result[uuid.UUID] {
	req.TypeKey = strings.TrimSpace(req.TypeKey)
	if msg := check(req); msg != "" {
		return result.Validation[uuid.UUID](msg)
	}

	exists, err := h.sections.KeyExists(ctx, req.TypeKey)
	if err != nil {
		slog.Error("check section type key failed", "error", err)
		return result.Unexpected[uuid.UUID]("failed to create section type")
	}
	if exists {
		return result.Conflict[uuid.UUID](fmt.Sprintf("section type %q already exists", req.TypeKey))
	}

	for _, f := range req.ConfigSchema.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return result.Validation[uuid.UUID]("config_schema fields need a name")
		}
	}
	if req.ConfigSchema.Fields == nil {
		req.ConfigSchema.Fields = []models.ConfigField{}
	}

	id, err := h.sections.Create(ctx, &models.SectionType{
		Name:            strings.TrimSpace(req.Name),
		TypeKey:         req.TypeKey,
		Description:     req.Description,
		Icon:            req.Icon,
		Category:        req.Category,
		PreviewImageURL: req.PreviewImageURL,
		ConfigSchema:    req.ConfigSchema,
		DefaultConfig:   req.DefaultConfig,
		DisplayOrder:    req.DisplayOrder,
	})
	if err != nil {
		slog.Error("create section type failed", "type_key", req.TypeKey, "error", err)
		return result.Unexpected[uuid.UUID]("failed to create section type")
	}
	return result.Ok(id)
}

// ListLayoutTemplates returns every template, defaults first.
func (h *Layouts) ListLayoutTemplates(ctx context.Context) result.Result[[]models.LayoutTemplate] {
	items, err := h.templates.List(ctx)
	if err != nil {
		slog.Error("list layout templates failed", "error", err)
		return result.Unexpected[[]models.LayoutTemplate]("failed to load layout templates")
	}
	return result.Ok(items)
}

// GetLayoutTemplate returns one template.
func (h *Layouts) GetLayoutTemplate(ctx context.Context, id uuid.UUID) result.Result[*models.LayoutTemplate] {
	t, err := h.templates.FindByID(ctx, id)
	if err != nil {
		slog.Error("get layout template failed", "template_id", id, "error", err)
		return result.Unexpected[*models.LayoutTemplate]("failed to load layout template")
	}
	if t == nil {
		return result.NotFound[*models.LayoutTemplate]("layout template not found")
	}
	return result.Ok(t)
}

// CreateLayoutTemplate stores a template created by userID. A default
// template replaces the previous default.
func (h *Layouts) CreateLayoutTemplate(ctx context.Context, req LayoutTemplateRequest, userID uuid.UUID) result.Result[uuid.UUID] {
	if msg := check(req); msg != "" {
		return result.Validation[uuid.UUID](msg)
	}
	if r := h.validateLayout(ctx, req.Layout); !r.IsSuccess() {
		return result.Propagate[uuid.UUID](r)
	}

	name := strings.TrimSpace(req.Name)
	s, err := slug.Unique(ctx, slug.Generate(name), h.templates.SlugExists, h.suffix)
	if err != nil {
		slog.Error("generate layout template slug failed", "error", err)
		return result.Unexpected[uuid.UUID]("failed to create layout template")
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	layout := req.Layout
	layout.LayoutTemplateID = nil
	layout.TemplateName = nil

	id, err := h.templates.Create(ctx, &models.LayoutTemplate{
		Name:            name,
		Slug:            s,
		Description:     req.Description,
		PreviewImageURL: req.PreviewImageURL,
		Category:        req.Category,
		Layout:          layout,
		IsActive:        active,
		IsDefault:       req.IsDefault,
		CreatedBy:       &userID,
	})
	if err != nil {
		slog.Error("create layout template failed", "slug", s, "error", err)
		return result.Unexpected[uuid.UUID]("failed to create layout template")
	}

	if req.IsDefault {
		if err := h.templates.ClearDefault(ctx, id); err != nil {
			slog.Error("clear default layout template failed", "template_id", id, "error", err)
			return result.Unexpected[uuid.UUID]("failed to set default layout template")
		}
	}

	slog.Info("layout template created", "template_id", id, "slug", s)
	return result.Ok(id)
}

// UpdateLayoutTemplate applies the non-nil fields of req to a template.
func (h *Layouts) UpdateLayoutTemplate(ctx context.Context, id uuid.UUID, req LayoutTemplateUpdate, userID uuid.UUID) result.Result[result.Empty] {
	if msg := check(req); msg != "" {
		return result.Validation[result.Empty](msg)
	}

	t, err := h.templates.FindByID(ctx, id)
	if err != nil {
		slog.Error("find layout template failed", "template_id", id, "error", err)
		return result.Unexpected[result.Empty]("failed to update layout template")
	}
	if t == nil {
		return result.NotFound[result.Empty]("layout template not found")
	}

	if req.Layout != nil {
		if r := h.validateLayout(ctx, *req.Layout); !r.IsSuccess() {
			return r
		}
		t.Layout = *req.Layout
		t.Layout.LayoutTemplateID = nil
		t.Layout.TemplateName = nil
	}
	if req.Name != nil {
		t.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.PreviewImageURL != nil {
		t.PreviewImageURL = req.PreviewImageURL
	}
	if req.Category != nil {
		t.Category = req.Category
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	if req.IsDefault != nil {
		t.IsDefault = *req.IsDefault
	}
	t.UpdatedBy = &userID

	if err := h.templates.Update(ctx, t); err != nil {
		slog.Error("update layout template failed", "template_id", id, "error", err)
		return result.Unexpected[result.Empty]("failed to update layout template")
	}
	if t.IsDefault {
		if err := h.templates.ClearDefault(ctx, id); err != nil {
			slog.Error("clear default layout template failed", "template_id", id, "error", err)
			return result.Unexpected[result.Empty]("failed to set default layout template")
		}
	}
	return result.Done()
}

// DeleteLayoutTemplate removes a template.
func (h *Layouts) DeleteLayoutTemplate(ctx context.Context, id uuid.UUID) result.Result[result.Empty] {
	deleted, err := h.templates.Delete(ctx, id)
	if err != nil {
		slog.Error("delete layout template failed", "template_id", id, "error", err)
		return result.Unexpected[result.Empty]("failed to delete layout template")
	}
	if !deleted {
		return result.NotFound[result.Empty]("layout template not found")
	}
	slog.Info("layout template deleted", "template_id", id)
	return result.Done()
}

// GetPageLayout returns the layout a page renders with.
func (h *Layouts) GetPageLayout(ctx context.Context, pageID uuid.UUID) result.Result[models.PageLayout] {
	p, err := h.pages.FindByID(ctx, pageID)
	if err != nil {
		slog.Error("find page failed", "page_id", pageID, "error", err)
		return result.Unexpected[models.PageLayout]("failed to load page layout")
	}
	if p == nil {
		return result.NotFound[models.PageLayout]("page not found")
	}
	return h.effectiveLayout(ctx, p)
}

// UpdatePageLayout replaces a page's own layout and bumps its version. A
// non-zero version in layout must match the stored one.
func (h *Layouts) UpdatePageLayout(ctx context.Context, pageID uuid.UUID, layout models.PageLayout) result.Result[models.PageLayout] {
	p, err := h.pages.FindByID(ctx, pageID)
	if err != nil {
		slog.Error("find page failed", "page_id", pageID, "error", err)
		return result.Unexpected[models.PageLayout]("failed to save page layout")
	}
	if p == nil {
		return result.NotFound[models.PageLayout]("page not found")
	}
	if layout.Version != 0 && layout.Version != p.LayoutVersion {
		return result.Conflict[models.PageLayout](staleLayout)
	}
	if r := h.validateLayout(ctx, layout); !r.IsSuccess() {
		return result.Propagate[models.PageLayout](r)
	}

	layout.LayoutTemplateID = p.LayoutTemplateID
	layout.TemplateName = nil
	layout.Version = p.LayoutVersion + 1
	if r := h.saveLayout(ctx, p.ID, p.LayoutVersion, layout); !r.IsSuccess() {
		return result.Propagate[models.PageLayout](r)
	}
	return result.Ok(layout)
}

// ApplyLayoutTemplate copies a template's layout onto a page.
func (h *Layouts) ApplyLayoutTemplate(ctx context.Context, pageID, templateID uuid.UUID) result.Result[models.PageLayout] {
	p, err := h.pages.FindByID(ctx, pageID)
	if err != nil {
		slog.Error("find page failed", "page_id", pageID, "error", err)
		return result.Unexpected[models.PageLayout]("failed to apply layout template")
	}
	if p == nil {
		return result.NotFound[models.PageLayout]("page not found")
	}

	t, err := h.templates.FindByID(ctx, templateID)
	if err != nil {
		slog.Error("find layout template failed", "template_id", templateID, "error", err)
		return result.Unexpected[models.PageLayout]("failed to apply layout template")
	}
	if t == nil {
		return result.NotFound[models.PageLayout]("layout template not found")
	}
	if !t.IsActive {
		return result.Validation[models.PageLayout]("layout template is not active")
	}

	layout := t.Layout
	layout.LayoutTemplateID = &t.ID
	layout.TemplateName = &t.Name
	layout.Version = p.LayoutVersion + 1
	if r := h.saveLayout(ctx, p.ID, p.LayoutVersion, layout); !r.IsSuccess() {
		return result.Propagate[models.PageLayout](r)
	}

	if err := h.templates.IncrementUsage(ctx, t.ID); err != nil {
		slog.Warn("increment layout template usage failed", "template_id", t.ID, "error", err)
	}
	slog.Info("layout template applied", "page_id", p.ID, "template_id", t.ID)
	return result.Ok(layout)
}

// GetPageBySlug returns a published page with its effective layout.
func (h *Layouts) GetPageBySlug(ctx context.Context, s string) result.Result[PageView] {
	p, err := h.pages.FindPublishedBySlug(ctx, s)
	if err != nil {
		slog.Error("find page by slug failed", "slug", s, "error", err)
		return result.Unexpected[PageView]("failed to load page")
	}
	if p == nil {
		return result.NotFound[PageView]("page not found")
	}

	r := h.effectiveLayout(ctx, p)
	if !r.IsSuccess() {
		return result.Propagate[PageView](r)
	}
	return result.Ok(PageView{Page: p, Layout: r.Value()})
}

// effectiveLayout resolves a page's own layout, falling back to its
// template's layout and then to an empty layout.
func (h *Layouts) effectiveLayout(ctx context.Context, p *models.Page) result.Result[models.PageLayout] {
	if p.LayoutConfig != nil {
		l, err := models.DecodeLayout([]byte(*p.LayoutConfig))
		if err != nil {
			slog.Error("decode page layout failed", "page_id", p.ID, "error", err)
			return result.Unexpected[models.PageLayout]("failed to load page layout")
		}
		l.LayoutTemplateID = p.LayoutTemplateID
		l.Version = p.LayoutVersion
		return result.Ok(l)
	}

	if p.LayoutTemplateID != nil {
		t, err := h.templates.FindByID(ctx, *p.LayoutTemplateID)
		if err != nil {
			slog.Error("find layout template failed", "template_id", *p.LayoutTemplateID, "error", err)
			return result.Unexpected[models.PageLayout]("failed to load page layout")
		}
		if t != nil {
			l := t.Layout
			l.LayoutTemplateID = &t.ID
			l.TemplateName = &t.Name
			l.Version = p.LayoutVersion
			return result.Ok(l)
		}
	}

	return result.Ok(models.PageLayout{Sections: []models.LayoutSection{}, Version: p.LayoutVersion})
}

// staleLayout is reported when a page layout changed since it was read.
const staleLayout = "page layout was changed by someone else, reload and try again"

// saveLayout writes layout over the page version the caller read.
func (h *Layouts) saveLayout(ctx context.Context, pageID uuid.UUID, expected int, layout models.PageLayout) result.Result[result.Empty] {
	config, err := models.EncodeLayout(layout)
	if err != nil {
		slog.Error("encode page layout failed", "page_id", pageID, "error", err)
		return result.Unexpected[result.Empty]("failed to save page layout")
	}
	saved, err := h.pages.SaveLayout(ctx, pageID, layout.LayoutTemplateID, config, expected, layout.Version)
	if err != nil {
		slog.Error("save page layout failed", "page_id", pageID, "error", err)
		return result.Unexpected[result.Empty]("failed to save page layout")
	}
	if !saved {
		slog.Warn("page layout save lost a race", "page_id", pageID, "expected_version", expected)
		return result.Conflict[result.Empty](staleLayout)
	}
	return result.Done()
}

// validateLayout checks that every section has a unique ID and an active
// section type.
func (h *Layouts) validateLayout(ctx context.Context, l models.PageLayout) result.Result[result.Empty] {
	if len(l.Sections) == 0 {
		return result.Done()
	}

	keys, err := h.sections.ActiveKeys(ctx)
	if err != nil {
		slog.Error("load section type keys failed", "error", err)
		return result.Unexpected[result.Empty]("failed to validate layout")
	}

	ids := make(map[string]bool, len(l.Sections))
	for i, s := range l.Sections {
		id := strings.TrimSpace(s.ID)
		if id == "" {
			return result.Validation[result.Empty](fmt.Sprintf("section %d has no id", i+1))
		}
		if ids[id] {
			return result.Validation[result.Empty](fmt.Sprintf("section id %q is used more than once", id))
		}
		ids[id] = true

		if !keys[s.Type] {
			return result.Validation[result.Empty](fmt.Sprintf("unknown section type %q", s.Type))
		}
	}
	return result.Done()
}
