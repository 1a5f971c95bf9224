//go:build !integration

package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"esim-myanmar-api/internal/domain/model"
)

// newTestLogger creates a silent logger for tests.
func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---- minimal mock PaymentUseCase behind the protected routes ----

type mockPaymentUC struct {
	txns []*model.Transaction
}

func (m *mockPaymentUC) Initiate(ctx context.Context, req *model.PaymentInitiation) (*model.InitiationResult, error) {
	return &model.InitiationResult{Success: true}, nil
}

func (m *mockPaymentUC) HandleCallback(ctx context.Context, cb *model.PaymentCallback) (model.CallbackOutcome, error) {
	return model.OutcomeReceived, nil
}

func (m *mockPaymentUC) List(ctx context.Context, offset, limit int) ([]*model.Transaction, error) {
	return m.txns, nil
}

func (m *mockPaymentUC) Totals(ctx context.Context) (map[string]int, int64, error) {
	return map[string]int{"confirmed": 2, "initiated": 1}, 3000, nil
}

func newTestRouter(apiKey string) (*chi.Mux, *AuthManager) {
	auth := NewAuthManager("test-admin-jwt-secret-please-change", false, time.Minute)
	srv := NewServer(&mockPaymentUC{txns: []*model.Transaction{{ID: "01T", OrderID: "o1", Amount: 1500, Currency: "MMK", Status: model.TransactionStatusConfirmed}}}, auth, apiKey, newTestLogger())
	r := chi.NewRouter()
	srv.RegisterRoutes(r)
	return r, auth
}

func TestAdminSession(t *testing.T) {
	r, _ := newTestRouter("admin-key")

	t.Run("wrong key -> 403", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/session", strings.NewReader(`{"key":"nope"}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("correct key mints a token that opens protected routes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/session", strings.NewReader(`{"key":"admin-key"}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var out struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil || out.Token == "" {
			t.Fatalf("expected a token, got %s", rec.Body.String())
		}

		req = httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		req.Header.Set("Authorization", "Bearer "+out.Token)
		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 with minted token, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"confirmed_revenue_mmk":3000`) {
			t.Errorf("unexpected stats body: %s", rec.Body.String())
		}
	})
}

func TestAuthMiddleware(t *testing.T) {
	r, auth := newTestRouter("admin-key")

	t.Run("no credentials -> 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("garbage token -> 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("valid token -> transactions list", func(t *testing.T) {
		token, err := auth.Mint(httptest.NewRecorder())
		if err != nil {
			t.Fatalf("mint: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions?limit=10", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"order_id":"o1"`) {
			t.Errorf("unexpected transactions body: %s", rec.Body.String())
		}
	})
}
