package features

import (
	"context"
	"testing"
	"time"

	"nunchakuclub/internal/auth"
	"nunchakuclub/internal/models"
	"nunchakuclub/internal/result"
)

func newTestAuth(t *testing.T) (*Auth, *memUsers, *auth.Issuer) {
	t.Helper()
	issuer, err := auth.NewIssuer("test-secret", "nunchakuclub", "nunchakuclub-web", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	users := newMemUsers()
	return NewAuth(users, issuer), users, issuer
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Email:    "Vo.Sinh@Example.com",
		Username: "vosinh",
		Password: "nunchaku123",
		FullName: "Võ Sinh",
	}
}

func failureKind[T any](t *testing.T, r result.Result[T]) result.Kind {
	t.Helper()
	if r.IsSuccess() {
		t.Fatal("expected failure, got success")
	}
	return r.Failure().Kind
}

func TestRegister(t *testing.T) {
	a, users, _ := newTestAuth(t)
	ctx := context.Background()

	r := a.Register(ctx, validRegistration())
	if !r.IsSuccess() {
		t.Fatalf("Register: %v", r.Err())
	}

	u := users.byID[r.Value()]
	if u == nil {
		t.Fatal("user not stored")
	}
	if u.Email != "vo.sinh@example.com" {
		t.Errorf("email: got %q, want lower-cased", u.Email)
	}
	if u.Role != models.RoleMember || u.Status != models.UserStatusActive {
		t.Errorf("role/status: got %s/%s", u.Role, u.Status)
	}
	if u.PasswordHash == "nunchaku123" || !auth.CheckPassword(u.PasswordHash, "nunchaku123") {
		t.Error("password should be stored as a bcrypt hash")
	}
}

func TestRegisterConflicts(t *testing.T) {
	a, _, _ := newTestAuth(t)
	ctx := context.Background()
	if r := a.Register(ctx, validRegistration()); !r.IsSuccess() {
		t.Fatalf("Register: %v", r.Err())
	}

	sameEmail := validRegistration()
	sameEmail.Username = "other"
	if kind := failureKind(t, a.Register(ctx, sameEmail)); kind != result.KindConflict {
		t.Errorf("duplicate email: got %s, want conflict", kind)
	}

	sameUsername := validRegistration()
	sameUsername.Email = "other@example.com"
	r := a.Register(ctx, sameUsername)
	if kind := failureKind(t, r); kind != result.KindConflict {
		t.Errorf("duplicate username: got %s, want conflict", kind)
	}
	if r.Failure().Message != "username already exists" {
		t.Errorf("message: got %q", r.Failure().Message)
	}
}

func TestRegisterValidation(t *testing.T) {
	a, _, _ := newTestAuth(t)
	req := validRegistration()
	req.Password = "short"

	r := a.Register(context.Background(), req)
	if kind := failureKind(t, r); kind != result.KindValidation {
		t.Fatalf("got %s, want validation", kind)
	}
	if r.Failure().Message != "password must be at least 8 characters" {
		t.Errorf("message: got %q", r.Failure().Message)
	}
}

func TestLogin(t *testing.T) {
	a, users, issuer := newTestAuth(t)
	ctx := context.Background()
	id := a.Register(ctx, validRegistration()).Value()

	r := a.Login(ctx, LoginRequest{Email: " VO.SINH@example.com ", Password: "nunchaku123"})
	if !r.IsSuccess() {
		t.Fatalf("Login: %v", r.Err())
	}
	resp := r.Value()

	claims, err := issuer.Parse(resp.AccessToken)
	if err != nil {
		t.Fatalf("Parse access token: %v", err)
	}
	if claims.UserID != id || claims.Role != models.RoleMember {
		t.Errorf("claims: got %+v", claims)
	}
	if len(resp.RefreshToken) != 64 {
		t.Errorf("refresh token length: got %d, want 64", len(resp.RefreshToken))
	}
	if users.logins[id] != resp.RefreshToken {
		t.Error("refresh token was not recorded")
	}
	if resp.User.Username != "vosinh" {
		t.Errorf("user info: got %+v", resp.User)
	}
	if !resp.ExpiresAt.After(time.Now()) {
		t.Errorf("expires_at should be in the future, got %v", resp.ExpiresAt)
	}
}

func TestLoginFailures(t *testing.T) {
	a, users, _ := newTestAuth(t)
	ctx := context.Background()
	id := a.Register(ctx, validRegistration()).Value()

	tests := []struct {
		name    string
		req     LoginRequest
		setup   func()
		kind    result.Kind
		message string
	}{
		{
			name:    "unknown email",
			req:     LoginRequest{Email: "nobody@example.com", Password: "nunchaku123"},
			kind:    result.KindUnauthorized,
			message: "invalid credentials",
		},
		{
			name:    "wrong password",
			req:     LoginRequest{Email: "vo.sinh@example.com", Password: "wrong-password"},
			kind:    result.KindUnauthorized,
			message: "invalid credentials",
		},
		{
			name:    "inactive account",
			req:     LoginRequest{Email: "vo.sinh@example.com", Password: "nunchaku123"},
			setup:   func() { users.byID[id].Status = models.UserStatusSuspended },
			kind:    result.KindUnauthorized,
			message: "account is not active",
		},
		{
			name:  "store failure",
			req:   LoginRequest{Email: "vo.sinh@example.com", Password: "nunchaku123"},
			setup: func() { users.failFind = true },
			kind:  result.KindUnexpected,
		},
		{
			name: "missing password",
			req:  LoginRequest{Email: "vo.sinh@example.com"},
			kind: result.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			r := a.Login(ctx, tt.req)
			if kind := failureKind(t, r); kind != tt.kind {
				t.Errorf("kind: got %s, want %s", kind, tt.kind)
			}
			if tt.message != "" && r.Failure().Message != tt.message {
				t.Errorf("message: got %q, want %q", r.Failure().Message, tt.message)
			}
		})
	}
}
