package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/osfornecedores/fornecedores-backend/api/middleware"
	"github.com/osfornecedores/fornecedores-backend/internal/access"
	"github.com/osfornecedores/fornecedores-backend/pkg/enums"
)

type stubDecider struct {
	gotUserID  *uuid.UUID
	gotFeature string
	decision   access.Decision
}

func (s *stubDecider) CheckFeatureAccess(ctx context.Context, userID *uuid.UUID, featureKey string) access.Decision {
	s.gotUserID = userID
	s.gotFeature = featureKey
	return s.decision
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestFeatureAccessAnonymous(t *testing.T) {
	svc := &stubDecider{decision: access.Decision{
		Access:  enums.AccessLevelNone,
		Message: "Assine para ver o catálogo completo.",
	}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/access/suppliers", nil)
	req = withURLParam(req, "featureKey", "suppliers")

	resp := httptest.NewRecorder()
	FeatureAccess(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if svc.gotUserID != nil {
		t.Fatalf("expected anonymous lookup, got user %s", svc.gotUserID)
	}
	if svc.gotFeature != "suppliers" {
		t.Fatalf("unexpected feature key %q", svc.gotFeature)
	}

	var envelope struct {
		Data access.Decision `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Access != enums.AccessLevelNone {
		t.Fatalf("expected locked decision, got %s", envelope.Data.Access)
	}
	if envelope.Data.Message == "" {
		t.Fatal("expected locked message in payload")
	}
}

func TestFeatureAccessForwardsIdentity(t *testing.T) {
	userID := uuid.New()
	svc := &stubDecider{decision: access.Decision{Access: enums.AccessLevelFull}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/access/favorites", nil)
	req = withURLParam(req, "featureKey", "favorites")
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))

	resp := httptest.NewRecorder()
	FeatureAccess(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if svc.gotUserID == nil || *svc.gotUserID != userID {
		t.Fatalf("expected identity %s forwarded, got %v", userID, svc.gotUserID)
	}
}

func TestFeatureAccessMissingKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/access/", nil)
	req = withURLParam(req, "featureKey", "")

	resp := httptest.NewRecorder()
	FeatureAccess(&stubDecider{}, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
