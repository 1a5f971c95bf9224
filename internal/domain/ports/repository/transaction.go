package repository

import (
	"context"
	"time"

	"esim-myanmar-api/internal/domain/model"
)

// TransactionRepository stores the order-to-transaction mapping the gateway
// protocol itself never persists. All mutations are idempotent so duplicate
// callback deliveries cannot double-apply.
type TransactionRepository interface {
	// Record inserts the mapping created by a successful initiation. A repeat
	// for the same order id returns domain.ErrDuplicateOrder and leaves the
	// first record untouched.
	Record(ctx context.Context, tx *model.Transaction) error
	// MarkConfirmed flips the order to confirmed. Safe to call repeatedly;
	// ConfirmedAt is set on the first call only.
	MarkConfirmed(ctx context.Context, orderID, gatewayTransactionID, payerMsisdn string) error
	// MarkStatus records a non-terminal gateway status against the order.
	MarkStatus(ctx context.Context, orderID, callbackStatus string) error
	FindByOrderID(ctx context.Context, orderID string) (*model.Transaction, error)
	List(ctx context.Context, offset, limit int) ([]*model.Transaction, error)
	// Totals returns transaction counts by status and the confirmed amount sum.
	Totals(ctx context.Context) (byStatus map[string]int, confirmedAmount int64, err error)
}

// CallbackRegistry suppresses duplicate gateway deliveries. FirstDelivery
// returns true exactly once per (transaction id, status) within the marker
// TTL; an unavailable registry should degrade to true rather than block the
// payment flow.
type CallbackRegistry interface {
	FirstDelivery(ctx context.Context, transactionID, status string, ttl time.Duration) (bool, error)
}
