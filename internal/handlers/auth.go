package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"nunchakuclub/internal/features"
	"nunchakuclub/internal/result"
)

// AuthService is the account feature used by the auth endpoints.
type AuthService interface {
	Register(ctx context.Context, req features.RegisterRequest) result.Result[uuid.UUID]
	Login(ctx context.Context, req features.LoginRequest) result.Result[features.AuthResponse]
}

// Auth serves registration and login.
type Auth struct {
	auth AuthService
}

// NewAuth creates the auth handlers.
func NewAuth(auth AuthService) *Auth {
	return &Auth{auth: auth}
}

// Register handles POST /api/auth/register.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req features.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	created(w, h.auth.Register(r.Context(), req))
}

// Login handles POST /api/auth/login.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req features.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	respond(w, h.auth.Login(r.Context(), req), http.StatusOK)
}
