//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"esim-myanmar-api/internal/domain"
	"esim-myanmar-api/internal/domain/model"
)

// newTestLogger creates a silent logger for tests.
func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---------------- in-memory transaction repo ----------------

type MockTransactionRepo struct {
	mu      sync.Mutex
	byOrder map[string]*model.Transaction

	RecordFunc        func(ctx context.Context, tx *model.Transaction) error
	MarkConfirmedFunc func(ctx context.Context, orderID, txnID, msisdn string) error
}

func NewMockTransactionRepo() *MockTransactionRepo {
	return &MockTransactionRepo{byOrder: map[string]*model.Transaction{}}
}

func (m *MockTransactionRepo) Record(ctx context.Context, tx *model.Transaction) error {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byOrder[tx.OrderID]; ok {
		return domain.ErrDuplicateOrder
	}
	cp := *tx
	m.byOrder[tx.OrderID] = &cp
	return nil
}

func (m *MockTransactionRepo) MarkConfirmed(ctx context.Context, orderID, txnID, msisdn string) error {
	if m.MarkConfirmedFunc != nil {
		return m.MarkConfirmedFunc(ctx, orderID, txnID, msisdn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.byOrder[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	tx.Status = model.TransactionStatusConfirmed
	tx.GatewayTransactionID = txnID
	tx.PayerMsisdn = msisdn
	if tx.ConfirmedAt == nil {
		now := time.Now()
		tx.ConfirmedAt = &now
	}
	return nil
}

func (m *MockTransactionRepo) MarkStatus(ctx context.Context, orderID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.byOrder[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	tx.LastCallbackStatus = status
	return nil
}

func (m *MockTransactionRepo) FindByOrderID(ctx context.Context, orderID string) (*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.byOrder[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *tx
	return &cp, nil
}

func (m *MockTransactionRepo) List(ctx context.Context, offset, limit int) ([]*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Transaction, 0, len(m.byOrder))
	for _, tx := range m.byOrder {
		cp := *tx
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockTransactionRepo) Totals(ctx context.Context) (map[string]int, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byStatus := map[string]int{}
	var confirmed int64
	for _, tx := range m.byOrder {
		byStatus[string(tx.Status)]++
		if tx.Status == model.TransactionStatusConfirmed {
			confirmed += tx.Amount
		}
	}
	return byStatus, confirmed, nil
}

// ---------------- callback registry ----------------

type MockCallbackRegistry struct {
	mu   sync.Mutex
	seen map[string]bool

	Err error // force registry failure
}

func NewMockCallbackRegistry() *MockCallbackRegistry {
	return &MockCallbackRegistry{seen: map[string]bool{}}
}

func (m *MockCallbackRegistry) FirstDelivery(ctx context.Context, txnID, status string, ttl time.Duration) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := txnID + ":" + status
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

// ---------------- payment gateway ----------------

type MockPaymentGateway struct {
	InitiateFunc func(ctx context.Context, req *model.PaymentInitiation) (string, string, error)
	VerifyFunc   func(cb *model.PaymentCallback) bool
}

func (m *MockPaymentGateway) Name() string { return "mock" }

func (m *MockPaymentGateway) Initiate(ctx context.Context, req *model.PaymentInitiation) (string, string, error) {
	if m.InitiateFunc != nil {
		return m.InitiateFunc(ctx, req)
	}
	return "TXN123", "https://preprod.example/authenticate?transaction_id=TXN123", nil
}

func (m *MockPaymentGateway) VerifyCallback(cb *model.PaymentCallback) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(cb)
	}
	return true
}
