package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"nunchakuclub/internal/models"
)

// PageStore manages static pages and their layouts.
type PageStore struct {
	db *sql.DB
}

// NewPageStore returns a new PageStore.
func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db}
}

const pageColumns = `id, title, slug, content, excerpt, parent_id, featured_image_url, banner_image_url,
	meta_title, meta_description, display_order, is_published, show_in_menu, template,
	layout_template_id, layout_config, layout_version, created_at, updated_at`

func scanPage(s scanner) (*models.Page, error) {
	var p models.Page
	var config []byte
	err := s.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.ParentID, &p.FeaturedImageURL,
		&p.BannerImageURL, &p.MetaTitle, &p.MetaDescription, &p.DisplayOrder, &p.IsPublished,
		&p.ShowInMenu, &p.Template, &p.LayoutTemplateID, &config, &p.LayoutVersion, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if config != nil {
		s := string(config)
		p.LayoutConfig = &s
	}
	return &p, nil
}

// FindByID retrieves a page by ID. Returns nil if not found.
func (s *PageStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = $1`, id)
	p, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by id: %w", err)
	}
	return p, nil
}

// FindPublishedBySlug retrieves a published page by slug. Returns nil if
// not found.
func (s *PageStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.Page, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE slug = $1 AND is_published`, slug)
	p, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by slug: %w", err)
	}
	return p, nil
}

// SaveLayout stores a page's template reference, layout document and
// version, but only while the stored version still equals expected. It
// returns false when no row matched: the page is gone or another save
// bumped the version first.
func (s *PageStore) SaveLayout(ctx context.Context, id uuid.UUID, templateID *uuid.UUID, config string, expected, version int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE pages SET layout_template_id = $1, layout_config = $2, layout_version = $3, updated_at = NOW()
		WHERE id = $4 AND layout_version = $5
	`, templateID, config, version, id, expected)
	if err != nil {
		return false, fmt.Errorf("save page layout: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("save page layout rows: %w", err)
	}
	return n > 0, nil
}
