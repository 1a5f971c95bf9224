package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"esim-myanmar-api/internal/domain"
	"esim-myanmar-api/internal/domain/model"
	"esim-myanmar-api/internal/domain/ports/repository"
)

var _ repository.TransactionRepository = (*transactionRepo)(nil)

// transactionRepo persists the order-to-transaction mapping in the
// transactions table (order_id unique).
type transactionRepo struct{ pool *pgxpool.Pool }

func NewTransactionRepo(pool *pgxpool.Pool) *transactionRepo {
	return &transactionRepo{pool: pool}
}

const txnColumns = `id, order_id, merchant_reference_id, gateway_transaction_id, amount, currency, status, last_callback_status, payer_msisdn, created_at, updated_at, confirmed_at`

func (r *transactionRepo) Record(ctx context.Context, t *model.Transaction) error {
	const q = `
INSERT INTO transactions (
  id, order_id, merchant_reference_id, gateway_transaction_id, amount, currency, status, last_callback_status, payer_msisdn, created_at, updated_at, confirmed_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12);`

	_, err := r.pool.Exec(ctx, q, t.ID, t.OrderID, t.MerchantReferenceID, t.GatewayTransactionID,
		t.Amount, t.Currency, t.Status, t.LastCallbackStatus, t.PayerMsisdn, t.CreatedAt, t.UpdatedAt, t.ConfirmedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateOrder
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *transactionRepo) MarkConfirmed(ctx context.Context, orderID, gatewayTransactionID, payerMsisdn string) error {
	const q = `
UPDATE transactions SET
  status=$2,
  gateway_transaction_id=COALESCE(NULLIF($3,''), gateway_transaction_id),
  payer_msisdn=COALESCE(NULLIF($4,''), payer_msisdn),
  last_callback_status=$5,
  confirmed_at=COALESCE(confirmed_at, NOW()),
  updated_at=NOW()
WHERE order_id=$1;`

	tag, err := r.pool.Exec(ctx, q, orderID, model.TransactionStatusConfirmed, gatewayTransactionID, payerMsisdn, model.CallbackStatusConfirmed)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *transactionRepo) MarkStatus(ctx context.Context, orderID, callbackStatus string) error {
	const q = `UPDATE transactions SET last_callback_status=$2, updated_at=NOW() WHERE order_id=$1;`
	tag, err := r.pool.Exec(ctx, q, orderID, callbackStatus)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *transactionRepo) FindByOrderID(ctx context.Context, orderID string) (*model.Transaction, error) {
	q := `SELECT ` + txnColumns + ` FROM transactions WHERE order_id=$1;`
	t := &model.Transaction{}
	err := r.pool.QueryRow(ctx, q, orderID).Scan(
		&t.ID, &t.OrderID, &t.MerchantReferenceID, &t.GatewayTransactionID, &t.Amount, &t.Currency,
		&t.Status, &t.LastCallbackStatus, &t.PayerMsisdn, &t.CreatedAt, &t.UpdatedAt, &t.ConfirmedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrOperationFailed
	}
	return t, nil
}

func (r *transactionRepo) List(ctx context.Context, offset, limit int) ([]*model.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	q := `SELECT ` + txnColumns + ` FROM transactions ORDER BY created_at DESC OFFSET $1 LIMIT $2;`
	rows, err := r.pool.Query(ctx, q, offset, limit)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Transaction
	for rows.Next() {
		t := &model.Transaction{}
		if err := rows.Scan(&t.ID, &t.OrderID, &t.MerchantReferenceID, &t.GatewayTransactionID, &t.Amount, &t.Currency,
			&t.Status, &t.LastCallbackStatus, &t.PayerMsisdn, &t.CreatedAt, &t.UpdatedAt, &t.ConfirmedAt); err != nil {
			return nil, domain.ErrOperationFailed
		}
		out = append(out, t)
	}
	if rows.Err() != nil {
		return nil, domain.ErrOperationFailed
	}
	return out, nil
}

func (r *transactionRepo) Totals(ctx context.Context) (map[string]int, int64, error) {
	byStatus := map[string]int{}
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM transactions GROUP BY status;`)
	if err != nil {
		return nil, 0, domain.ErrOperationFailed
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, 0, domain.ErrOperationFailed
		}
		byStatus[status] = n
	}
	if rows.Err() != nil {
		return nil, 0, domain.ErrOperationFailed
	}

	var confirmed int64
	err = r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount),0) FROM transactions WHERE status=$1;`, model.TransactionStatusConfirmed).Scan(&confirmed)
	if err != nil {
		return nil, 0, domain.ErrOperationFailed
	}
	return byStatus, confirmed, nil
}
