package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/task-api/internal/core/domain"
	"github.com/taskforge/task-api/internal/core/ports"
)

type stubAuthService struct {
	signupFn func(ctx context.Context, email, password string, role domain.Role) (*ports.AuthResult, error)
	loginFn  func(ctx context.Context, email, password string) (*ports.AuthResult, error)
}

func (s *stubAuthService) Signup(ctx context.Context, email, password string, role domain.Role) (*ports.AuthResult, error) {
	return s.signupFn(ctx, email, password, role)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return he.Code
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signupFn: func(_ context.Context, email, password string, role domain.Role) (*ports.AuthResult, error) {
			if email != "a@x.com" || password != "secret1" || role != domain.RoleUser {
				t.Fatalf("unexpected args: %s %s %s", email, password, role)
			}
			return &ports.AuthResult{
				Token:    "token123",
				Identity: domain.IdentitySummary{ID: "id-1", Email: email, Role: role, CreatedAt: time.Now()},
			}, nil
		},
	}
	c, rec := jsonContext(e, http.MethodPost, "/auth/signup", `{"email":"a@x.com","password":"secret1"}`)

	if err := NewAuthHandler(stub).Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("unexpected token: %v", resp["token"])
	}
	identity, ok := resp["identity"].(map[string]any)
	if !ok {
		t.Fatalf("expected identity in response")
	}
	if identity["email"] != "a@x.com" || identity["role"] != "user" {
		t.Fatalf("unexpected identity payload: %+v", identity)
	}
	if strings.Contains(rec.Body.String(), "password") || strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("credential material leaked: %s", rec.Body.String())
	}
}

func TestAuthHandler_Signup_Conflict(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signupFn: func(context.Context, string, string, domain.Role) (*ports.AuthResult, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	c, _ := jsonContext(e, http.MethodPost, "/auth/signup", `{"email":"a@x.com","password":"secret1"}`)

	if err := NewAuthHandler(stub).Signup(c); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAuthHandler_Signup_InvalidInput(t *testing.T) {
	cases := map[string]string{
		"not json":       "not-json",
		"bad email":      `{"email":"nope","password":"secret1"}`,
		"short password": `{"email":"a@x.com","password":"abc"}`,
		"unknown role":   `{"email":"a@x.com","password":"secret1","role":"owner"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			e := newEcho()
			stub := &stubAuthService{
				signupFn: func(context.Context, string, string, domain.Role) (*ports.AuthResult, error) {
					t.Fatalf("should not be called")
					return nil, nil
				},
			}
			c, _ := jsonContext(e, http.MethodPost, "/auth/signup", body)

			if code := httpCode(t, NewAuthHandler(stub).Signup(c)); code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", code)
			}
		})
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.AuthResult, error) {
			if email != "a@x.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.AuthResult{Token: "token123", Identity: domain.IdentitySummary{ID: "id-1", Email: email, Role: domain.RoleAdmin}}, nil
		},
	}
	c, rec := jsonContext(e, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"secret1"}`)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "token123" || resp.Identity.Role != "admin" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			return nil, domain.Unauthenticated("invalid credentials")
		},
	}
	c, _ := jsonContext(e, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"wrong"}`)

	if err := NewAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestAuthHandler_Login_MissingPassword(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := jsonContext(e, http.MethodPost, "/auth/login", `{"email":"a@x.com"}`)

	if code := httpCode(t, NewAuthHandler(stub).Login(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}
