// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package features

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"nunchakuclub/internal/auth"
	"nunchakuclub/internal/models"
	"nunchakuclub/internal/result"
)

// UserRepository is the user storage the auth handlers need.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, u *models.User) (*models.User, error)
	RecordLogin(ctx context.Context, id uuid.UUID, refreshToken string, refreshExpiry, at time.Time) error
}

// TokenSigner issues access tokens.
type TokenSigner interface {
	Sign(u *models.User) (string, time.Time, error)
}

// RegisterRequest is the payload of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"notblank,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
}

// LoginRequest is the payload of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserInfo is the public part of the logged-in user.
type UserInfo struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	Username  string      `json:"username"`
	FullName  string      `json:"full_name"`
	AvatarURL *string     `json:"avatar_url,omitempty"`
	Role      models.Role `json:"role"`
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         UserInfo  `json:"user"`
}

// Auth handles registration and login.
type Auth struct {
	users  UserRepository
	tokens TokenSigner
	now    func() time.Time
}

// NewAuth returns an Auth backed by users, signing tokens with tokens.
func NewAuth(users UserRepository, tokens TokenSigner) *Auth {
	return &Auth{users: users, tokens: tokens, now: time.Now}
}

// Register creates an active member account and returns its ID.
func (a *Auth) Register(ctx context.Context, req RegisterRequest) result.Result[uuid.UUID] {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if msg := check(req); msg != "" {
		return result.Validation[uuid.UUID](msg)
	}

	exists, err := a.users.EmailExists(ctx, req.Email)
	if err != nil {
		slog.Error("check email failed", "error", err)
		return result.Unexpected[uuid.UUID]("failed to register user")
	}
	if exists {
		return result.Conflict[uuid.UUID]("email already exists")
	}

	exists, err = a.users.UsernameExists(ctx, req.Username)
	if err != nil {
		slog.Error("check username failed", "error", err)
		return result.Unexpected[uuid.UUID]("failed to register user")
	}
	if exists {
		return result.Conflict[uuid.UUID]("username already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("hash password failed", "error", err)
		return result.Unexpected[uuid.UUID]("failed to register user")
	}

	u := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        optional(req.Phone),
		Role:         models.RoleMember,
		Status:       models.UserStatusActive,
	}
	created, err := a.users.Create(ctx, u)
	if err != nil {
		slog.Error("create user failed", "email", req.Email, "error", err)
		return result.Unexpected[uuid.UUID]("failed to register user")
	}

	slog.Info("user registered", "user_id", created.ID)
	return result.Ok(created.ID)
}

// Login verifies credentials and issues an access and a refresh token.
func (a *Auth) Login(ctx context.Context, req LoginRequest) result.Result[AuthResponse] {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if msg := check(req); msg != "" {
		return result.Validation[AuthResponse](msg)
	}

	u, err := a.users.FindByEmail(ctx, req.Email)
	if err != nil {
		slog.Error("find user failed", "error", err)
		return result.Unexpected[AuthResponse]("failed to log in")
	}
	if u == nil {
		return result.Unauthorized[AuthResponse]("invalid credentials")
	}
	if !u.IsActive() {
		return result.Unauthorized[AuthResponse]("account is not active")
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return result.Unauthorized[AuthResponse]("invalid credentials")
	}

	access, expiresAt, err := a.tokens.Sign(u)
	if err != nil {
		slog.Error("sign access token failed", "user_id", u.ID, "error", err)
		return result.Unexpected[AuthResponse]("failed to log in")
	}
	refresh, err := auth.NewRefreshToken()
	if err != nil {
		slog.Error("generate refresh token failed", "error", err)
		return result.Unexpected[AuthResponse]("failed to log in")
	}

	now := a.now()
	if err := a.users.RecordLogin(ctx, u.ID, refresh, now.Add(auth.RefreshTTL), now); err != nil {
		slog.Error("record login failed", "user_id", u.ID, "error", err)
		return result.Unexpected[AuthResponse]("failed to log in")
	}

	return result.Ok(AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		User: UserInfo{
			ID:        u.ID,
			Email:     u.Email,
			Username:  u.Username,
			FullName:  u.FullName,
			AvatarURL: u.AvatarURL,
			Role:      u.Role,
		},
	})
}

// optional returns nil for a blank string and a pointer to the trimmed
// value otherwise.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
