// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"nunchakuclub/internal/models"
)

// LayoutTemplateStore manages reusable page layouts.
type LayoutTemplateStore struct {
	db *sql.DB
}

// NewLayoutTemplateStore returns a new LayoutTemplateStore.
func NewLayoutTemplateStore(db *sql.DB) *LayoutTemplateStore {
	return &LayoutTemplateStore{db: db}
}

const layoutTemplateColumns = `id, name, slug, description, preview_image_url, category, layout_config,
	is_active, is_default, usage_count, created_by, updated_by, created_at, updated_at`

func scanLayoutTemplate(s scanner) (*models.LayoutTemplate, error) {
	var t models.LayoutTemplate
	var raw []byte
	err := s.Scan(&t.ID, &t.Name, &t.Slug, &t.Description, &t.PreviewImageURL, &t.Category, &raw,
		&t.IsActive, &t.IsDefault, &t.UsageCount, &t.CreatedBy, &t.UpdatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	layout, err := models.DecodeLayout(raw)
	if err != nil {
		return nil, err
	}
	t.Layout = layout
	return &t, nil
}

// List returns every template, defaults first.
func (s *LayoutTemplateStore) List(ctx context.Context) ([]models.LayoutTemplate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+layoutTemplateColumns+` FROM layout_templates
		ORDER BY is_default DESC, name
	`)
	if err != nil {
		return nil, fmt.Errorf("list layout templates: %w", err)
	}
	defer rows.Close()

	items := []models.LayoutTemplate{}
	for rows.Next() {
		t, err := scanLayoutTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan layout template: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// FindByID retrieves a template by ID. Returns nil if not found.
func (s *LayoutTemplateStore) FindByID(ctx context.Context, id uuid.UUID) (*models.LayoutTemplate, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+layoutTemplateColumns+` FROM layout_templates WHERE id = $1`, id)
	t, err := scanLayoutTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find layout template by id: %w", err)
	}
	return t, nil
}

// SlugExists reports whether a template already uses the slug.
func (s *LayoutTemplateStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM layout_templates WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check layout template slug: %w", err)
	}
	return exists, nil
}

// Create inserts a template and returns its ID.
func (s *LayoutTemplateStore) Create(ctx context.Context, t *models.LayoutTemplate) (uuid.UUID, error) {
	config, err := models.EncodeLayout(t.Layout)
	if err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO layout_templates (name, slug, description, preview_image_url, category,
			layout_config, is_active, is_default, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id
	`, t.Name, t.Slug, t.Description, t.PreviewImageURL, t.Category,
		config, t.IsActive, t.IsDefault, t.CreatedBy).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create layout template: %w", err)
	}
	return id, nil
}

// Update writes every editable column of a template.
func (s *LayoutTemplateStore) Update(ctx context.Context, t *models.LayoutTemplate) error {
	config, err := models.EncodeLayout(t.Layout)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE layout_templates SET
			name = $1, description = $2, preview_image_url = $3, category = $4,
			layout_config = $5, is_active = $6, is_default = $7, updated_by = $8,
			updated_at = NOW()
		WHERE id = $9
	`, t.Name, t.Description, t.PreviewImageURL, t.Category,
		config, t.IsActive, t.IsDefault, t.UpdatedBy, t.ID)
	if err != nil {
		return fmt.Errorf("update layout template: %w", err)
	}
	return nil
}

// Delete removes a template. Pages using it fall back to their own layout.
func (s *LayoutTemplateStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM layout_templates WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete layout template: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete layout template rows: %w", err)
	}
	return n > 0, nil
}

// ClearDefault unsets is_default on every template except keep.
func (s *LayoutTemplateStore) ClearDefault(ctx context.Context, keep uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE layout_templates SET is_default = FALSE, updated_at = NOW()
		WHERE is_default AND id <> $1
	`, keep)
	if err != nil {
		return fmt.Errorf("clear default layout template: %w", err)
	}
	return nil
}

// IncrementUsage bumps the template's usage counter.
func (s *LayoutTemplateStore) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `UPDATE layout_templates SET usage_count = usage_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment layout template usage: %w", err)
	}
	return nil
}
