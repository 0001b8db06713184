package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ncastro/gymkeep-backend/internal/domain"
	"github.com/ncastro/gymkeep-backend/internal/middleware"
	"github.com/ncastro/gymkeep-backend/internal/service"
	"github.com/ncastro/gymkeep-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func setOwnerContext(c echo.Context, ownerID uuid.UUID) {
	ctx := context.WithValue(c.Request().Context(), middleware.OwnerIDKey, ownerID)
	c.SetRequest(c.Request().WithContext(ctx))
}

func newClientHandlerFixture() (*ClientHandler, *testutil.MockClientRepository, *testutil.MockPaymentRepository) {
	clientRepo := testutil.NewMockClientRepository()
	paymentRepo := testutil.NewMockPaymentRepository()
	emailLogRepo := testutil.NewMockEmailLogRepository()
	clientService := service.NewClientService(clientRepo, paymentRepo, emailLogRepo, service.NewBillingService(45))
	return NewClientHandler(clientService), clientRepo, paymentRepo
}

func TestCreateClient_Success(t *testing.T) {
	e := echo.New()
	handler, _, _ := newClientHandlerFixture()
	ownerID := uuid.New()

	reqBody := `{"name": "Ana Torres", "email": "ana@example.com", "phone": "555-0101"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setOwnerContext(c, ownerID)

	if err := handler.CreateClient(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rec.Code)
	}

	var response ClientResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Name != "Ana Torres" {
		t.Errorf("Expected name 'Ana Torres', got %s", response.Name)
	}
	if response.Email == nil || *response.Email != "ana@example.com" {
		t.Errorf("Expected email ana@example.com, got %v", response.Email)
	}
}

func TestCreateClient_MissingName(t *testing.T) {
	e := echo.New()
	handler, _, _ := newClientHandlerFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", strings.NewReader(`{"name": ""}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setOwnerContext(c, uuid.New())

	if err := handler.CreateClient(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateClient_Unauthenticated(t *testing.T) {
	e := echo.New()
	handler, _, _ := newClientHandlerFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", strings.NewReader(`{"name": "Ana"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateClient(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestListClients_ComputedRows(t *testing.T) {
	e := echo.New()
	handler, clientRepo, paymentRepo := newClientHandlerFixture()
	ownerID := uuid.New()
	client := clientRepo.AddClient(ownerID, "Ana", nil)

	now := time.Now()
	from := now.AddDate(0, 0, -5)
	to := now.AddDate(0, 0, 25)
	paymentRepo.Create(&domain.Payment{
		ClientID:   client.ID,
		OwnerID:    ownerID,
		Amount:     decimal.NewFromInt(1500),
		Debt:       decimal.NewFromInt(250),
		Plan:       domain.PlanFitness,
		PeriodFrom: &from,
		PeriodTo:   &to,
		CreatedAt:  now,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setOwnerContext(c, ownerID)

	if err := handler.ListClients(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response []ClientRowResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(response))
	}

	row := response[0]
	if row.CurrentDebt != "250.00" {
		t.Errorf("Expected debt '250.00', got %s", row.CurrentDebt)
	}
	if row.CurrentPlan == nil || *row.CurrentPlan != domain.PlanFitness {
		t.Errorf("Expected plan %q, got %v", domain.PlanFitness, row.CurrentPlan)
	}
	if row.Status != string(domain.StatusActive) {
		t.Errorf("Expected active status, got %s", row.Status)
	}
	if row.TotalPaidThisMonth != "1500.00" {
		t.Errorf("Expected '1500.00' paid this month, got %s", row.TotalPaidThisMonth)
	}
}

func TestListClients_NoPaymentsHasNullPlan(t *testing.T) {
	e := echo.New()
	handler, clientRepo, _ := newClientHandlerFixture()
	ownerID := uuid.New()
	clientRepo.AddClient(ownerID, "Ana", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setOwnerContext(c, ownerID)

	if err := handler.ListClients(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response []ClientRowResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(response))
	}
	if response[0].CurrentPlan != nil {
		t.Errorf("Expected null plan for client without payments, got %q", *response[0].CurrentPlan)
	}
	if !strings.Contains(rec.Body.String(), `"currentPlan":null`) {
		t.Error("Expected currentPlan to serialize as null")
	}
}

func TestListClients_InvalidStatusFilter(t *testing.T) {
	e := echo.New()
	handler, _, _ := newClientHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients?status=paused", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setOwnerContext(c, uuid.New())

	if err := handler.ListClients(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetClient_NotFound(t *testing.T) {
	e := echo.New()
	handler, _, _ := newClientHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/clients/:id")
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())
	setOwnerContext(c, uuid.New())

	if err := handler.GetClient(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestGetClient_OtherOwnerIsNotFound(t *testing.T) {
	e := echo.New()
	handler, clientRepo, _ := newClientHandlerFixture()
	client := clientRepo.AddClient(uuid.New(), "Ana", nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/clients/:id")
	c.SetParamNames("id")
	c.SetParamValues(client.ID.String())
	setOwnerContext(c, uuid.New())

	if err := handler.GetClient(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for another owner's client, got %d", rec.Code)
	}
}

func TestGetMarkers_Response(t *testing.T) {
	e := echo.New()
	handler, clientRepo, paymentRepo := newClientHandlerFixture()
	ownerID := uuid.New()
	client := clientRepo.AddClient(ownerID, "Ana", nil)

	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	paymentRepo.Create(&domain.Payment{
		ClientID:   client.ID,
		OwnerID:    ownerID,
		Amount:     decimal.NewFromInt(500),
		Debt:       decimal.NewFromInt(300),
		Plan:       domain.PlanBasic,
		PeriodFrom: &from,
		PeriodTo:   &to,
		CreatedAt:  from,
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/clients/:id/markers")
	c.SetParamNames("id")
	c.SetParamValues(client.ID.String())
	setOwnerContext(c, ownerID)

	if err := handler.GetMarkers(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response MarkersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.BaseDebt != "300.00" {
		t.Errorf("Expected base debt '300.00', got %s", response.BaseDebt)
	}
	if response.Markers["2025-03-02"] != "debt" {
		t.Errorf("Expected 2025-03-02 marked debt, got %q", response.Markers["2025-03-02"])
	}
	if response.PeriodFrom == nil || *response.PeriodFrom != "2025-03-01" {
		t.Errorf("Expected period start 2025-03-01, got %v", response.PeriodFrom)
	}
}

func TestDeleteClient_Success(t *testing.T) {
	e := echo.New()
	handler, clientRepo, _ := newClientHandlerFixture()
	ownerID := uuid.New()
	client := clientRepo.AddClient(ownerID, "Ana", nil)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/clients/:id")
	c.SetParamNames("id")
	c.SetParamValues(client.ID.String())
	setOwnerContext(c, ownerID)

	if err := handler.DeleteClient(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
	if _, ok := clientRepo.Clients[client.ID]; ok {
		t.Error("Expected client removed from repository")
	}
}
