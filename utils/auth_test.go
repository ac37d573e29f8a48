package utils

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"doorpro-backend/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type fakeChecker struct {
	revoked map[string]bool
	err     error
}

func (f *fakeChecker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return f.revoked[jti], f.err
}

type fakeAccounts struct {
	role   string
	active bool
	err    error
}

func (f *fakeAccounts) AccountStatus(ctx context.Context, userID uuid.UUID) (string, bool, error) {
	return f.role, f.active, f.err
}

func setupAuthConfig(t *testing.T) {
	t.Helper()
	prev := config.App
	config.App = &config.Config{JWTSecret: "test-secret", JWTTTL: time.Hour}
	BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { config.App = prev })
}

func newAuthRouter(checker TokenChecker, accounts AccountChecker, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(checker, accounts)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": CurrentUserID(c).String(), "role": CurrentRole(c)})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestHashAndCheckPassword(t *testing.T) {
	BcryptCost = bcrypt.MinCost
	hash, err := HashPassword("sekret123")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if !CheckPasswordHash("sekret123", hash) {
		t.Error("CheckPasswordHash() = false for the right password")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("CheckPasswordHash() = true for a wrong password")
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	setupAuthConfig(t)
	userID := uuid.New()

	token, err := GenerateToken(userID, "menaxher")
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error: %v", err)
	}
	if claims.Subject != userID.String() {
		t.Errorf("Subject = %q, want %q", claims.Subject, userID)
	}
	if claims.Role != "menaxher" {
		t.Errorf("Role = %q, want menaxher", claims.Role)
	}
	if claims.ID == "" {
		t.Error("token has no jti")
	}
}

func TestParseToken_Rejects(t *testing.T) {
	setupAuthConfig(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredStr, _ := expired.SignedString([]byte("test-secret"))

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Role: "admin"})
	foreignStr, _ := foreign.SignedString([]byte("another-secret"))

	for name, tok := range map[string]string{
		"expired":      expiredStr,
		"wrong secret": foreignStr,
		"garbage":      "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseToken(tok); err == nil {
				t.Error("ParseToken() error = nil, want error")
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	setupAuthConfig(t)
	userID := uuid.New()
	token, _ := GenerateToken(userID, "admin")
	claims, _ := ParseToken(token)

	tests := []struct {
		name     string
		header   string
		query    string
		upgrade  bool
		checker  TokenChecker
		accounts AccountChecker
		want     int
	}{
		{name: "missing header", want: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "valid bearer", header: "Bearer " + token, want: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + token, want: http.StatusOK},
		{name: "query token on websocket upgrade", query: token, upgrade: true, want: http.StatusOK},
		{name: "query token on plain request", query: token, want: http.StatusUnauthorized},
		{name: "revoked", header: "Bearer " + token, checker: &fakeChecker{revoked: map[string]bool{claims.ID: true}}, want: http.StatusUnauthorized},
		{name: "not revoked", header: "Bearer " + token, checker: &fakeChecker{revoked: map[string]bool{}}, want: http.StatusOK},
		{name: "store down", header: "Bearer " + token, checker: &fakeChecker{err: errors.New("redis down")}, want: http.StatusServiceUnavailable},
		{name: "active account", header: "Bearer " + token, accounts: &fakeAccounts{role: "admin", active: true}, want: http.StatusOK},
		{name: "inactive account", header: "Bearer " + token, accounts: &fakeAccounts{role: "admin"}, want: http.StatusUnauthorized},
		{name: "account lookup fails", header: "Bearer " + token, accounts: &fakeAccounts{err: errors.New("db down")}, want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthRouter(tt.checker, tt.accounts)
			url := "/protected"
			if tt.query != "" {
				url += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.upgrade {
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Upgrade", "websocket")
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_StoredRoleOverridesToken(t *testing.T) {
	setupAuthConfig(t)
	token, _ := GenerateToken(uuid.New(), "admin")

	r := newAuthRouter(nil, &fakeAccounts{role: "menaxher", active: true}, "admin")
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	setupAuthConfig(t)
	adminToken, _ := GenerateToken(uuid.New(), "admin")
	managerToken, _ := GenerateToken(uuid.New(), "menaxher")

	r := newAuthRouter(nil, nil, "admin")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+managerToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("menaxher status = %d, want 403", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", w.Code)
	}
}
