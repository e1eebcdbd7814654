package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// defaultSectionTypes are the page-builder components the frontend ships
// with. Seeded once so layouts can be validated from the first boot.
var defaultSectionTypes = []struct {
	name, key, category string
	order               int
}{
	{"Hero Banner", "hero", "Header", 1},
	{"Blog Grid", "blog-grid", "Content", 2},
	{"Course List", "course-list", "Content", 3},
	{"Coach Profiles", "coach-list", "Content", 4},
	{"Contact Form", "contact-form", "Footer", 5},
}

// Seed populates the database with initial development data.
// It creates a default admin user, the built-in section types and a home
// page when the users table is empty.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO users (email, username, password_hash, full_name, role, status, email_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, "admin@nunchakuclub.local", "admin", string(hash), "Quản trị viên", "admin", "active", true)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	for _, st := range defaultSectionTypes {
		_, err := db.ExecContext(ctx, `
			INSERT INTO section_types (name, type_key, category, display_order)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (type_key) DO NOTHING
		`, st.name, st.key, st.category, st.order)
		if err != nil {
			return fmt.Errorf("seed section type %s: %w", st.key, err)
		}
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO pages (title, slug, content, layout_config)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slug) DO NOTHING
	`, "Trang chủ", "home", "", `{"sections":[{"id":"hero-1","type":"hero","config":{},"order":1,"is_visible":true}],"version":1}`)
	if err != nil {
		return fmt.Errorf("seed home page: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@nunchakuclub.local",
		"password", "admin",
	)

	return nil
}
