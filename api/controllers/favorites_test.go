package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/osfornecedores/fornecedores-backend/api/middleware"
	"github.com/osfornecedores/fornecedores-backend/pkg/db/models"
	pkgerrors "github.com/osfornecedores/fornecedores-backend/pkg/errors"
)

type stubFavoritesService struct {
	added   *models.Favorite
	addErr  error
	removed []uuid.UUID
}

func (s *stubFavoritesService) List(ctx context.Context, userID uuid.UUID) ([]models.Supplier, error) {
	return nil, nil
}

func (s *stubFavoritesService) Add(ctx context.Context, userID, supplierID uuid.UUID) (*models.Favorite, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	s.added = &models.Favorite{UserID: userID, SupplierID: supplierID}
	return s.added, nil
}

func (s *stubFavoritesService) Remove(ctx context.Context, userID, supplierID uuid.UUID) error {
	s.removed = append(s.removed, supplierID)
	return nil
}

func authedRequest(method, target string, body []byte, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func TestFavoritesAddRequiresAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/favorites", bytes.NewReader([]byte(`{}`)))
	resp := httptest.NewRecorder()
	FavoritesAdd(&stubFavoritesService{}, nil)(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", resp.Code)
	}
}

func TestFavoritesAddCreated(t *testing.T) {
	userID := uuid.New()
	supplierID := uuid.New()
	svc := &stubFavoritesService{}

	body := []byte(`{"supplier_id":"` + supplierID.String() + `"}`)
	resp := httptest.NewRecorder()
	FavoritesAdd(svc, nil)(resp, authedRequest(http.MethodPost, "/api/v1/favorites", body, userID))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	if svc.added == nil || svc.added.SupplierID != supplierID || svc.added.UserID != userID {
		t.Fatalf("service called with wrong pair: %+v", svc.added)
	}
}

func TestFavoritesAddRejectsBadSupplierID(t *testing.T) {
	resp := httptest.NewRecorder()
	body := []byte(`{"supplier_id":"not-a-uuid"}`)
	FavoritesAdd(&stubFavoritesService{}, nil)(resp, authedRequest(http.MethodPost, "/api/v1/favorites", body, uuid.New()))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestFavoritesAddSurfacesCapMessage(t *testing.T) {
	svc := &stubFavoritesService{
		addErr: pkgerrors.New(pkgerrors.CodeForbidden, "Limite de favoritos atingido durante o período de teste."),
	}
	supplierID := uuid.New()
	body := []byte(`{"supplier_id":"` + supplierID.String() + `"}`)
	resp := httptest.NewRecorder()
	FavoritesAdd(svc, nil)(resp, authedRequest(http.MethodPost, "/api/v1/favorites", body, uuid.New()))

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
	if !bytes.Contains(resp.Body.Bytes(), []byte("Limite de favoritos")) {
		t.Fatalf("expected configured message in body, got %s", resp.Body.String())
	}
}

func TestFavoritesRemove(t *testing.T) {
	supplierID := uuid.New()
	svc := &stubFavoritesService{}

	req := authedRequest(http.MethodDelete, "/api/v1/favorites/"+supplierID.String(), nil, uuid.New())
	req = withURLParam(req, "supplierId", supplierID.String())

	resp := httptest.NewRecorder()
	FavoritesRemove(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if len(svc.removed) != 1 || svc.removed[0] != supplierID {
		t.Fatalf("expected remove call for %s, got %v", supplierID, svc.removed)
	}
}
