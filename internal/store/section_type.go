package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"nunchakuclub/internal/models"
)

// SectionTypeStore manages the page-builder component catalogue.
type SectionTypeStore struct {
	db *sql.DB
}

// NewSectionTypeStore returns a new SectionTypeStore.
func NewSectionTypeStore(db *sql.DB) *SectionTypeStore {
	return &SectionTypeStore{db: db}
}

const sectionTypeColumns = `id, name, type_key, description, icon, category, preview_image_url,
	config_schema, default_config, is_active, usage_count, display_order, created_at, updated_at`

func scanSectionType(s scanner) (*models.SectionType, error) {
	var st models.SectionType
	var schema, defaults []byte
	err := s.Scan(&st.ID, &st.Name, &st.TypeKey, &st.Description, &st.Icon, &st.Category, &st.PreviewImageURL,
		&schema, &defaults, &st.IsActive, &st.UsageCount, &st.DisplayOrder, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(schema) > 0 {
		if err := json.Unmarshal(schema, &st.ConfigSchema); err != nil {
			return nil, fmt.Errorf("decode config schema: %w", err)
		}
	}
	if st.ConfigSchema.Fields == nil {
		st.ConfigSchema.Fields = []models.ConfigField{}
	}
	st.DefaultConfig = map[string]any{}
	if len(defaults) > 0 {
		if err := json.Unmarshal(defaults, &st.DefaultConfig); err != nil {
			return nil, fmt.Errorf("decode default config: %w", err)
		}
	}
	return &st, nil
}

// List returns all section types ordered by display order.
func (s *SectionTypeStore) List(ctx context.Context) ([]models.SectionType, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sectionTypeColumns+` FROM section_types ORDER BY display_order, name
	`)
	if err != nil {
		return nil, fmt.Errorf("list section types: %w", err)
	}
	defer rows.Close()

	items := []models.SectionType{}
	for rows.Next() {
		st, err := scanSectionType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan section type: %w", err)
		}
		items = append(items, *st)
	}
	return items, rows.Err()
}

// ActiveKeys returns the type keys of every active section type.
func (s *SectionTypeStore) ActiveKeys(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT type_key FROM section_types WHERE is_active`)
	if err != nil {
		return nil, fmt.Errorf("list section type keys: %w", err)
	}
	defer rows.Close()

	keys := map[string]bool{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan section type key: %w", err)
		}
		keys[k] = true
	}
	return keys, rows.Err()
}

// KeyExists reports whether a section type already uses the key.
func (s *SectionTypeStore) KeyExists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM section_types WHERE type_key = $1)`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check section type key: %w", err)
	}
	return exists, nil
}

// Create inserts a section type and returns its ID.
func (s *SectionTypeStore) Create(ctx context.Context, st *models.SectionType) (uuid.UUID, error) {
	schema, err := json.Marshal(st.ConfigSchema)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode config schema: %w", err)
	}
	defaults := st.DefaultConfig
	if defaults == nil {
		defaults = map[string]any{}
	}
	defaultsRaw, err := json.Marshal(defaults)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode default config: %w", err)
	}

	var id uuid.UUID
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO section_types (name, type_key, description, icon, category, preview_image_url,
			config_schema, default_config, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, st.Name, st.TypeKey, st.Description, st.Icon, st.Category, st.PreviewImageURL,
		string(schema), string(defaultsRaw), st.DisplayOrder).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create section type: %w", err)
	}
	return id, nil
}
