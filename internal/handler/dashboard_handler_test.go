package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rexe-automation/dispatch-notifier/internal/domain"
	"github.com/rexe-automation/dispatch-notifier/internal/repository"
)

type stubLedger struct {
	records    []domain.NotificationRecord
	total      int64
	err        error
	lastParams repository.ListParams
}

func (s *stubLedger) Exists(ctx context.Context, orderNumber string) (bool, error) {
	return false, nil
}

func (s *stubLedger) Create(ctx context.Context, record *domain.NotificationRecord) error {
	return nil
}

func (s *stubLedger) List(ctx context.Context, params repository.ListParams) ([]domain.NotificationRecord, int64, error) {
	s.lastParams = params
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.records, s.total, nil
}

func newTestApp(t *testing.T, ledger repository.Ledger) *fiber.App {
	t.Helper()

	app := fiber.New()
	if err := RegisterDashboardRoutes(app, ledger); err != nil {
		t.Fatalf("RegisterDashboardRoutes() error = %v", err)
	}
	return app
}

func TestListDeliveries(t *testing.T) {
	t.Parallel()

	dispatchDate := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	ledger := &stubLedger{
		records: []domain.NotificationRecord{
			{
				OrderNumber:     "240101",
				CustomerName:    "Acme Hardware",
				DispatchDate:    &dispatchDate,
				Status:          "2",
				Spec:            "Cement 50kg",
				QuantityOrdered: 12,
				Email:           "orders@acme.example",
				PhoneNumber:     "0712345678",
				EmailSent:       true,
				SMSSent:         true,
				CreatedAt:       time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC),
			},
			{
				OrderNumber:  "240102",
				CustomerName: "Beta Traders",
				Status:       "2",
				Notes:        "no customer match for email",
				CreatedAt:    time.Date(2026, 8, 28, 9, 31, 0, 0, time.UTC),
			},
		},
		total: 2,
	}
	app := newTestApp(t, ledger)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/deliveries", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	var parsed listDeliveriesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}

	if parsed.Meta.Page != 1 || parsed.Meta.PageSize != 10 || parsed.Meta.Total != 2 {
		t.Fatalf("meta = %+v, want page 1, pageSize 10, total 2", parsed.Meta)
	}
	if len(parsed.Data) != 2 {
		t.Fatalf("data length = %d, want 2", len(parsed.Data))
	}

	first := parsed.Data[0]
	if first.OrderNumber != "240101" {
		t.Errorf("orderNumber = %q, want 240101", first.OrderNumber)
	}
	if first.DispatchDate == nil || *first.DispatchDate != "2026-08-28" {
		t.Errorf("dispatchDate = %v, want 2026-08-28", first.DispatchDate)
	}
	if !first.EmailSent || !first.SMSSent {
		t.Errorf("emailSent = %v, smsSent = %v, want both true", first.EmailSent, first.SMSSent)
	}

	second := parsed.Data[1]
	if second.DispatchDate != nil {
		t.Errorf("dispatchDate = %v, want null for a missing date", second.DispatchDate)
	}
	if second.Notes == "" {
		t.Error("notes should survive the round trip")
	}
}

func TestListDeliveriesPagination(t *testing.T) {
	t.Parallel()

	ledger := &stubLedger{}
	app := newTestApp(t, ledger)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/deliveries?page=3&pageSize=25", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ledger.lastParams.Page != 3 || ledger.lastParams.PageSize != 25 {
		t.Fatalf("params = %+v, want page 3, pageSize 25", ledger.lastParams)
	}
}

func TestListDeliveriesValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
	}{
		{name: "page below 1", target: "/v1/deliveries?page=0"},
		{name: "pageSize below 1", target: "/v1/deliveries?pageSize=0"},
		{name: "pageSize above max", target: "/v1/deliveries?pageSize=101"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := newTestApp(t, &stubLedger{})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.target, nil))
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != fiber.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestListDeliveriesLedgerError(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, &stubLedger{err: errors.New("connection reset")})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/deliveries", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
}

func TestRegisterDashboardRoutesRequiresLedger(t *testing.T) {
	t.Parallel()

	if err := RegisterDashboardRoutes(fiber.New(), nil); err == nil {
		t.Fatal("expected error for nil ledger")
	}
}
