// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SectionType is a page-builder component the frontend knows how to render,
// identified by TypeKey (e.g. "hero", "blog-grid", "contact-form").
type SectionType struct {
	ID              uuid.UUID           `json:"id"`
	Name            string              `json:"name"`
	TypeKey         string              `json:"type_key"`
	Description     *string             `json:"description,omitempty"`
	Icon            *string             `json:"icon,omitempty"`
	Category        *string             `json:"category,omitempty"`
	PreviewImageURL *string             `json:"preview_image_url,omitempty"`
	ConfigSchema    SectionConfigSchema `json:"config_schema"`
	DefaultConfig   map[string]any      `json:"default_config"`
	IsActive        bool                `json:"is_active"`
	UsageCount      int                 `json:"usage_count"`
	DisplayOrder    int                 `json:"display_order"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// SectionConfigSchema describes the admin form for a section's config.
type SectionConfigSchema struct {
	Fields []ConfigField `json:"fields"`
}

// ConfigField is one input in a section config form.
type ConfigField struct {
	Name         string         `json:"name"`
	Label        string         `json:"label"`
	Type         string         `json:"type"`
	Required     bool           `json:"required"`
	DefaultValue any            `json:"default_value,omitempty"`
	Placeholder  *string        `json:"placeholder,omitempty"`
	HelpText     *string        `json:"help_text,omitempty"`
	Options      []SelectOption `json:"options,omitempty"`
	Validation   map[string]any `json:"validation,omitempty"`
}

// SelectOption is a choice for select-type config fields.
type SelectOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// LayoutTemplate is a reusable page layout. Config holds the serialized
// PageLayout.
type LayoutTemplate struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	Description     *string    `json:"description,omitempty"`
	PreviewImageURL *string    `json:"preview_image_url,omitempty"`
	Category        *string    `json:"category,omitempty"`
	Layout          PageLayout `json:"layout"`
	IsActive        bool       `json:"is_active"`
	IsDefault       bool       `json:"is_default"`
	UsageCount      int        `json:"usage_count"`
	CreatedBy       *uuid.UUID `json:"created_by,omitempty"`
	UpdatedBy       *uuid.UUID `json:"updated_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Page is a static site page. A page either carries its own LayoutConfig or
// falls back to the config of its LayoutTemplateID.
type Page struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Content          string     `json:"content"`
	Excerpt          *string    `json:"excerpt,omitempty"`
	ParentID         *uuid.UUID `json:"parent_id,omitempty"`
	FeaturedImageURL *string    `json:"featured_image_url,omitempty"`
	BannerImageURL   *string    `json:"banner_image_url,omitempty"`
	MetaTitle        *string    `json:"meta_title,omitempty"`
	MetaDescription  *string    `json:"meta_description,omitempty"`
	DisplayOrder     int        `json:"display_order"`
	IsPublished      bool       `json:"is_published"`
	ShowInMenu       bool       `json:"show_in_menu"`
	Template         *string    `json:"template,omitempty"`
	LayoutTemplateID *uuid.UUID `json:"layout_template_id,omitempty"`
	LayoutConfig     *string    `json:"-"`
	LayoutVersion    int        `json:"layout_version"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// PageLayout is the JSON document stored in layout_config columns.
type PageLayout struct {
	LayoutTemplateID *uuid.UUID      `json:"layout_template_id,omitempty"`
	TemplateName     *string         `json:"template_name,omitempty"`
	Sections         []LayoutSection `json:"sections"`
	Theme            *ThemeConfig    `json:"theme,omitempty"`
	CustomCSS        *string         `json:"custom_css,omitempty"`
	CustomJS         *string         `json:"custom_js,omitempty"`
	Version          int             `json:"version"`
}

// LayoutSection places one section type on a page.
type LayoutSection struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Name      *string        `json:"name,omitempty"`
	Config    map[string]any `json:"config"`
	Order     int            `json:"order"`
	IsVisible bool           `json:"is_visible"`
}

// ThemeConfig overrides the site theme for one layout.
type ThemeConfig struct {
	Colors           *ColorPalette     `json:"colors,omitempty"`
	Typography       *Typography       `json:"typography,omitempty"`
	LogoURL          *string           `json:"logo_url,omitempty"`
	FaviconURL       *string           `json:"favicon_url,omitempty"`
	CustomProperties map[string]string `json:"custom_properties,omitempty"`
}

type ColorPalette struct {
	Primary       *string `json:"primary,omitempty"`
	Secondary     *string `json:"secondary,omitempty"`
	Accent        *string `json:"accent,omitempty"`
	Background    *string `json:"background,omitempty"`
	Text          *string `json:"text,omitempty"`
	TextSecondary *string `json:"text_secondary,omitempty"`
	Border        *string `json:"border,omitempty"`
	Success       *string `json:"success,omitempty"`
	Warning       *string `json:"warning,omitempty"`
	Error         *string `json:"error,omitempty"`
}

type Typography struct {
	FontFamily   *string           `json:"font_family,omitempty"`
	HeadingFont  *string           `json:"heading_font,omitempty"`
	BaseFontSize *string           `json:"base_font_size,omitempty"`
	FontSizes    map[string]string `json:"font_sizes,omitempty"`
	FontWeights  map[string]string `json:"font_weights,omitempty"`
}

// SectionTypes returns the distinct section type keys used by the layout,
// in first-seen order.
func (l *PageLayout) SectionTypes() []string {
	seen := make(map[string]bool, len(l.Sections))
	var keys []string
	for _, s := range l.Sections {
		if !seen[s.Type] {
			seen[s.Type] = true
			keys = append(keys, s.Type)
		}
	}
	return keys
}

// EncodeLayout serializes a layout for storage.
func EncodeLayout(l PageLayout) (string, error) {
	if l.Sections == nil {
		l.Sections = []LayoutSection{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return "", fmt.Errorf("encode layout: %w", err)
	}
	return string(b), nil
}

// DecodeLayout parses a stored layout. An empty document yields an empty
// layout.
func DecodeLayout(raw []byte) (PageLayout, error) {
	var l PageLayout
	if len(raw) == 0 {
		l.Sections = []LayoutSection{}
		return l, nil
	}
	if err := json.Unmarshal(raw, &l); err != nil {
		return PageLayout{}, fmt.Errorf("decode layout: %w", err)
	}
	if l.Sections == nil {
		l.Sections = []LayoutSection{}
	}
	return l, nil
}
