package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dealboard/dealboard-backend/api/middleware"
	"github.com/dealboard/dealboard-backend/internal/auth"
	"github.com/dealboard/dealboard-backend/internal/users"
	pkgerrors "github.com/dealboard/dealboard-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubAuthService struct {
	result *auth.LoginResult
	me     *users.UserDTO
	err    error
}

func (s stubAuthService) Login(_ context.Context, _ auth.LoginInput) (*auth.LoginResult, error) {
	return s.result, s.err
}

func (s stubAuthService) Me(_ context.Context, _ uuid.UUID) (*users.UserDTO, error) {
	return s.me, s.err
}

func TestAuthLoginSuccess(t *testing.T) {
	userID := uuid.New()
	handler := AuthLogin(stubAuthService{result: &auth.LoginResult{
		Token: "signed-token",
		User:  &users.UserDTO{ID: userID, Email: "dana@example.com"},
	}}, nil)

	payload := []byte(`{"email":"dana@example.com","password":"secret-password"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data auth.LoginResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Token != "signed-token" {
		t.Fatalf("expected token in response, got %q", envelope.Data.Token)
	}
	if envelope.Data.User.ID != userID {
		t.Fatalf("expected user id %s got %s", userID, envelope.Data.User.ID)
	}
}

func TestAuthLoginBadCredentials(t *testing.T) {
	handler := AuthLogin(stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}, nil)

	payload := []byte(`{"email":"dana@example.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthLoginRejectsMissingFields(t *testing.T) {
	handler := AuthLogin(stubAuthService{}, nil)

	payload := []byte(`{"email":"not-an-email"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAuthMeRequiresContext(t *testing.T) {
	handler := AuthMe(stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthMeSuccess(t *testing.T) {
	userID := uuid.New()
	handler := AuthMe(stubAuthService{me: &users.UserDTO{ID: userID, FullName: "Dana Reyes"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data users.UserDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.FullName != "Dana Reyes" {
		t.Fatalf("unexpected full name %q", envelope.Data.FullName)
	}
}
