package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ncastro/gymkeep-backend/internal/service"
	"github.com/ncastro/gymkeep-backend/internal/testutil"
)

func newPaymentHandlerFixture() (*PaymentHandler, *testutil.MockOwnerRepository, *testutil.MockClientRepository, *testutil.MockMailer) {
	ownerRepo := testutil.NewMockOwnerRepository()
	clientRepo := testutil.NewMockClientRepository()
	paymentRepo := testutil.NewMockPaymentRepository()
	emailLogRepo := testutil.NewMockEmailLogRepository()
	mail := testutil.NewMockMailer()
	paymentService := service.NewPaymentService(paymentRepo, clientRepo, ownerRepo, emailLogRepo, mail)
	return NewPaymentHandler(paymentService), ownerRepo, clientRepo, mail
}

func TestRegisterPayment_Success(t *testing.T) {
	e := echo.New()
	handler, ownerRepo, clientRepo, mail := newPaymentHandlerFixture()
	owner := ownerRepo.AddOwner("Gym Uno", "uno@example.com")
	email := "ana@example.com"
	client := clientRepo.AddClient(owner.ID, "Ana", &email)

	reqBody := `{"clientId": "` + client.ID.String() + `", "plan": "Fitness", "amount": "1500", "debt": "300", "periodFrom": "2025-03-01", "periodTo": "2025-04-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setOwnerContext(c, owner.ID)

	if err := handler.RegisterPayment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response PaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Amount != "1500.00" {
		t.Errorf("Expected amount '1500.00', got %s", response.Amount)
	}
	if response.Debt != "300.00" {
		t.Errorf("Expected debt '300.00', got %s", response.Debt)
	}
	if response.NextPaymentDate == nil || *response.NextPaymentDate != "2025-04-01" {
		t.Errorf("Expected next payment date 2025-04-01, got %v", response.NextPaymentDate)
	}
	if len(mail.Receipts) != 1 {
		t.Errorf("Expected 1 receipt email, got %d", len(mail.Receipts))
	}
}

func TestRegisterPayment_UnknownPlan(t *testing.T) {
	e := echo.New()
	handler, ownerRepo, clientRepo, _ := newPaymentHandlerFixture()
	owner := ownerRepo.AddOwner("Gym Uno", "uno@example.com")
	client := clientRepo.AddClient(owner.ID, "Ana", nil)

	reqBody := `{"clientId": "` + client.ID.String() + `", "plan": "Premium"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setOwnerContext(c, owner.ID)

	if err := handler.RegisterPayment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal problem details: %v", err)
	}
	if problem.Type != ErrorTypeValidation {
		t.Errorf("Expected validation problem type, got %s", problem.Type)
	}
}

func TestRegisterPayment_BadDecimal(t *testing.T) {
	e := echo.New()
	handler, ownerRepo, clientRepo, _ := newPaymentHandlerFixture()
	owner := ownerRepo.AddOwner("Gym Uno", "uno@example.com")
	client := clientRepo.AddClient(owner.ID, "Ana", nil)

	reqBody := `{"clientId": "` + client.ID.String() + `", "plan": "Basic", "amount": "not-a-number"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setOwnerContext(c, owner.ID)

	if err := handler.RegisterPayment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestRegisterPayment_MissingPeriod(t *testing.T) {
	e := echo.New()
	handler, ownerRepo, clientRepo, _ := newPaymentHandlerFixture()
	owner := ownerRepo.AddOwner("Gym Uno", "uno@example.com")
	client := clientRepo.AddClient(owner.ID, "Ana", nil)

	reqBody := `{"clientId": "` + client.ID.String() + `", "plan": "Basic", "amount": "1000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setOwnerContext(c, owner.ID)

	if err := handler.RegisterPayment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestListPayments_RequiresClientID(t *testing.T) {
	e := echo.New()
	handler, ownerRepo, _, _ := newPaymentHandlerFixture()
	owner := ownerRepo.AddOwner("Gym Uno", "uno@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setOwnerContext(c, owner.ID)

	if err := handler.ListPayments(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestListPayments_NewestFirst(t *testing.T) {
	e := echo.New()
	handler, ownerRepo, clientRepo, _ := newPaymentHandlerFixture()
	owner := ownerRepo.AddOwner("Gym Uno", "uno@example.com")
	client := clientRepo.AddClient(owner.ID, "Ana", nil)

	for _, body := range []string{
		`{"clientId": "` + client.ID.String() + `", "plan": "Basic", "amount": "100", "periodFrom": "2025-01-01", "periodTo": "2025-02-01"}`,
		`{"clientId": "` + client.ID.String() + `", "plan": "Basic", "amount": "200", "periodFrom": "2025-02-01", "periodTo": "2025-03-01"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		setOwnerContext(c, owner.ID)
		if err := handler.RegisterPayment(c); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d", rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments?clientId="+client.ID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setOwnerContext(c, owner.ID)

	if err := handler.ListPayments(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response []PaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 2 {
		t.Fatalf("Expected 2 payments, got %d", len(response))
	}
	if response[0].Amount != "200.00" {
		t.Errorf("Expected newest payment first, got amount %s", response[0].Amount)
	}
}

func TestRegisterPayment_Unauthenticated(t *testing.T) {
	e := echo.New()
	handler, _, _, _ := newPaymentHandlerFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(`{"clientId": "`+uuid.New().String()+`", "plan": "Basic"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.RegisterPayment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}
