package booking_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pawtrails/pawtrails-api/internal/domain/availability"
	"github.com/pawtrails/pawtrails-api/internal/domain/booking"
	"github.com/pawtrails/pawtrails-api/internal/pkg/response"
)

func newWebhookServer(t *testing.T) (*httptest.Server, sqlmock.Sqlmock, fixture, func()) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	db := sqlx.NewDb(mockDB, "sqlmock")

	repo := booking.NewRepository(db, availability.NewRepository(db))
	svc := booking.NewService(repo, nil, nil, nil, nil, time.Second, "http://localhost:3000")
	handler := booking.NewHandler(svc)

	r := chi.NewRouter()
	r.Mount("/webhooks", handler.WebhookRoutes())
	srv := httptest.NewServer(r)

	f := fixture{providerID: uuid.New(), productID: uuid.New(), slotID: uuid.New()}
	return srv, mock, f, func() {
		srv.Close()
		db.Close()
	}
}

func webhookPayload(f fixture, key string) map[string]interface{} {
	return map[string]interface{}{
		"idempotency_key":      key,
		"product_id":           f.productID.String(),
		"product_type":         "experience",
		"provider_id":          f.providerID.String(),
		"availability_slot_id": f.slotID.String(),
		"booking_date":         "2026-09-10",
		"adults":               1,
		"dogs":                 1,
		"amount":               4500,
		"currency":             "GBP",
		"customer_name":        "Jess Porter",
		"customer_email":       "jess@test.com",
	}
}

func postWebhook(t *testing.T, srv *httptest.Server, payload interface{}) (*http.Response, *response.Response) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	resp, err := http.Post(srv.URL+"/webhooks/payments/confirmed", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var envelope response.Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	return resp, &envelope
}

func TestPaymentConfirmedSuccess(t *testing.T) {
	srv, mock, f, done := newWebhookServer(t)
	defer done()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE idempotency_key").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("FROM availability_slots WHERE id = \\$1 FOR UPDATE").
		WillReturnRows(mockSlotRow(f, 5, 5, 0, 0))
	mock.ExpectExec("UPDATE availability_slots").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectCommit()

	resp, envelope := postWebhook(t, srv, webhookPayload(f, "evt-handler-ok"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !envelope.Success {
		t.Fatalf("expected success envelope, got error %+v", envelope.Error)
	}

	data, _ := envelope.Data.(map[string]interface{})
	if data["created"] != true {
		t.Fatalf("expected created=true, got %v", data["created"])
	}
	if data["status"] != "confirmed" {
		t.Fatalf("expected status confirmed, got %v", data["status"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPaymentConfirmedCapacityConflict(t *testing.T) {
	srv, mock, f, done := newWebhookServer(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE idempotency_key").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("FROM availability_slots WHERE id = \\$1 FOR UPDATE").
		WillReturnRows(mockSlotRow(f, 5, 1, 0, 1))
	mock.ExpectRollback()

	resp, envelope := postWebhook(t, srv, webhookPayload(f, "evt-handler-full"))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	if envelope.Error == nil || envelope.Error.Code != "CAPACITY_EXCEEDED" {
		t.Fatalf("expected CAPACITY_EXCEEDED, got %+v", envelope.Error)
	}
	if envelope.Error.Details["dimension"] != "dogs" {
		t.Fatalf("expected dogs dimension, got %q", envelope.Error.Details["dimension"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPaymentConfirmedValidation(t *testing.T) {
	srv, _, f, done := newWebhookServer(t)
	defer done()

	payload := webhookPayload(f, "evt-handler-bad")
	delete(payload, "customer_email")
	payload["product_type"] = "spa-day"

	resp, envelope := postWebhook(t, srv, payload)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if envelope.Error == nil || envelope.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %+v", envelope.Error)
	}
	if _, ok := envelope.Error.Details["customer_email"]; !ok {
		t.Fatalf("expected customer_email in details, got %+v", envelope.Error.Details)
	}
	if _, ok := envelope.Error.Details["product_type"]; !ok {
		t.Fatalf("expected product_type in details, got %+v", envelope.Error.Details)
	}
}

func TestPaymentConfirmedMissingKey(t *testing.T) {
	srv, _, f, done := newWebhookServer(t)
	defer done()

	payload := webhookPayload(f, "evt-handler-key")
	delete(payload, "idempotency_key")

	resp, envelope := postWebhook(t, srv, payload)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if _, ok := envelope.Error.Details["idempotency_key"]; !ok {
		t.Fatalf("expected idempotency_key in details, got %+v", envelope.Error.Details)
	}
}

func TestPaymentConfirmedBadJSON(t *testing.T) {
	srv, _, _, done := newWebhookServer(t)
	defer done()

	resp, err := http.Post(srv.URL+"/webhooks/payments/confirmed", "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
