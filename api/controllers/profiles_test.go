package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dealboard/dealboard-backend/api/middleware"
	"github.com/dealboard/dealboard-backend/internal/profiles"
	"github.com/dealboard/dealboard-backend/pkg/db/models"
	pkgerrors "github.com/dealboard/dealboard-backend/pkg/errors"
	"github.com/dealboard/dealboard-backend/pkg/pagination"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type stubProfileService struct {
	dto  *profiles.ProfileDTO
	page pagination.Page[profiles.ProfileDTO]
	err  error
}

func (s stubProfileService) Create(_ context.Context, _ *uuid.UUID, _ profiles.CreateProfileInput) (*profiles.ProfileDTO, error) {
	return s.dto, s.err
}

func (s stubProfileService) Update(_ context.Context, _ *uuid.UUID, _ uuid.UUID, _ profiles.UpdateProfileInput) (*profiles.ProfileDTO, error) {
	return s.dto, s.err
}

func (s stubProfileService) GetBySlug(_ context.Context, _ string) (*profiles.ProfileDTO, error) {
	return s.dto, s.err
}

func (s stubProfileService) List(_ context.Context, _ pagination.Params) (pagination.Page[profiles.ProfileDTO], error) {
	return s.page, s.err
}

func (s stubProfileService) Delete(_ context.Context, _ *uuid.UUID, _ uuid.UUID) (*profiles.ProfileDTO, error) {
	return s.dto, s.err
}

func (s stubProfileService) ModelBySlug(_ context.Context, _ string) (*models.UploadProfile, error) {
	return nil, s.err
}

func authedRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
}

func TestProfileCreateSuccess(t *testing.T) {
	dto := &profiles.ProfileDTO{
		ID:          uuid.New(),
		Name:        "Sellers",
		Slug:        "sellers",
		AspectRatio: "4:3",
	}
	handler := ProfileCreate(stubProfileService{dto: dto}, nil)

	payload := []byte(`{"name":"Sellers","crop":true,"aspect_ratio":"4:3","max_size":2097152,"thumbnail_width":300,"cropped_width":900}`)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/upload-profiles", payload))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}

	var envelope struct {
		Data profiles.ProfileDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Slug != "sellers" {
		t.Fatalf("expected slug sellers got %q", envelope.Data.Slug)
	}
}

func TestProfileCreateValidationPassthrough(t *testing.T) {
	svcErr := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"aspect_ratio": "must look like w:h"})
	handler := ProfileCreate(stubProfileService{err: svcErr}, nil)

	payload := []byte(`{"name":"Sellers","crop":true,"aspect_ratio":"nope"}`)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/upload-profiles", payload))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}

	var envelope struct {
		Error struct {
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Details["aspect_ratio"] == "" {
		t.Fatalf("expected aspect_ratio detail, got %+v", envelope.Error.Details)
	}
}

func TestProfileCreateRequiresUserContext(t *testing.T) {
	handler := ProfileCreate(stubProfileService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload-profiles", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestProfileKindsListsUploadTargets(t *testing.T) {
	handler := ProfileKinds(nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/upload-profiles/kinds", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data []string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := map[string]bool{"users": true, "sellers": true, "promotions": true}
	if len(envelope.Data) != len(want) {
		t.Fatalf("expected %d kinds got %v", len(want), envelope.Data)
	}
	for _, kind := range envelope.Data {
		if !want[kind] {
			t.Fatalf("unexpected kind %q", kind)
		}
	}
}

func TestProfileDeleteConflictPassthrough(t *testing.T) {
	handler := ProfileDelete(stubProfileService{err: pkgerrors.New(pkgerrors.CodeNotFound, "upload profile not found")}, nil)

	req := authedRequest(http.MethodDelete, "/api/v1/upload-profiles/"+uuid.NewString(), nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("profileId", uuid.NewString())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
