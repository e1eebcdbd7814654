// Package store provides database access methods for all club entities.
// Each store struct wraps a *sql.DB and exposes typed, context-aware query
// methods. Single-row lookups return nil, nil when the row does not exist.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"nunchakuclub/internal/models"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface{ Scan(...any) error }

// uuidArray renders ids as a Postgres array literal for use with a
// $n::uuid[] parameter.
func uuidArray(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, COALESCE(username, ''), password_hash, full_name, phone, avatar_url,
	role, status, email_verified, last_login_at, created_at, updated_at`

func scanUser(s scanner) (*models.User, error) {
	var u models.User
	err := s.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.FullName, &u.Phone, &u.AvatarURL,
		&u.Role, &u.Status, &u.EmailVerified, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail retrieves a user by their email address. Returns nil if not found.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// EmailExists reports whether any user has the given email.
func (s *UserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user email: %w", err)
	}
	return exists, nil
}

// UsernameExists reports whether any user has the given username.
func (s *UserStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return exists, nil
}

// Create inserts a user. PasswordHash must already be hashed; an empty
// Username is stored as NULL.
func (s *UserStore) Create(ctx context.Context, u *models.User) (*models.User, error) {
	var username *string
	if u.Username != "" {
		username = &u.Username
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, username, password_hash, full_name, phone, role, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		u.Email, username, u.PasswordHash, u.FullName, u.Phone, u.Role, u.Status,
	)
	created, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// RecordLogin stores a fresh refresh token and the login time.
func (s *UserStore) RecordLogin(ctx context.Context, id uuid.UUID, refreshToken string, refreshExpiry, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET refresh_token = $1, refresh_token_expiry = $2,
			last_login_at = $3, updated_at = NOW()
		WHERE id = $4
	`, refreshToken, refreshExpiry, at, id)
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	return nil
}
