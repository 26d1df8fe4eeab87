package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/carebridge/carebridge"
	"github.com/carebridge/carebridge/internal/domain"
	"github.com/carebridge/carebridge/internal/usecase"
)

type mockUserRepo struct {
	users map[string]domain.User
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	u, ok := m.users[email]
	if !ok {
		return domain.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	m.users[user.Email] = user
	return user, nil
}

type mockTokenIssuer struct {
	validateErr error
}

func (m *mockTokenIssuer) Issue(user domain.User) (string, error) {
	return "issued-token", nil
}

func (m *mockTokenIssuer) Validate(token string) error {
	return m.validateErr
}

func performRequest(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)
	return res
}

func newAuthServer(issuer *mockTokenIssuer) *echo.Echo {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	users := &mockUserRepo{users: map[string]domain.User{
		"doc@x.com": {Email: "doc@x.com", PasswordHash: string(hash)},
	}}
	h := NewAuthHandler(usecase.NewAuthUsecase(users, issuer))
	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func TestLoginReturnsToken(t *testing.T) {
	e := newAuthServer(&mockTokenIssuer{})

	res := doJSON(e, http.MethodPost, "/login", carebridge.LoginRequest{
		Email:    "doc@x.com",
		Password: "correct-horse",
	})

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", res.Code, res.Body.String())
	}
	var out carebridge.LoginResponse
	if err := json.Unmarshal(res.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if out.Token != "issued-token" {
		t.Fatalf("unexpected token %q", out.Token)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	e := newAuthServer(&mockTokenIssuer{})

	res := doJSON(e, http.MethodPost, "/login", carebridge.LoginRequest{
		Email:    "doc@x.com",
		Password: "wrong-password",
	})

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", res.Code)
	}
	if res.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", res.Body.String())
	}
}

func TestLoginValidatesInput(t *testing.T) {
	e := newAuthServer(&mockTokenIssuer{})

	res := doJSON(e, http.MethodPost, "/login", carebridge.LoginRequest{
		Email:    "doc@x.com",
		Password: "short",
	})

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", res.Code)
	}
}

func TestValidateEndpoint(t *testing.T) {
	e := newAuthServer(&mockTokenIssuer{})

	req := doJSON(e, http.MethodGet, "/validate", nil)
	if req.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: expected 401 got %d", req.Code)
	}

	r := httptest.NewRequest(http.MethodGet, "/validate", nil)
	r.Header.Set(echo.HeaderAuthorization, "Bearer good")
	if rec := performRequest(e, r); rec.Code != http.StatusOK {
		t.Fatalf("valid token: expected 200 got %d", rec.Code)
	}

	bad := newAuthServer(&mockTokenIssuer{validateErr: fmt.Errorf("expired")})
	r = httptest.NewRequest(http.MethodGet, "/validate", nil)
	r.Header.Set(echo.HeaderAuthorization, "Bearer stale")
	if rec := performRequest(bad, r); rec.Code != http.StatusUnauthorized {
		t.Fatalf("stale token: expected 401 got %d", rec.Code)
	}
}
