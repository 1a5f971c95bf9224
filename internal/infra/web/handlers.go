package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"esim-myanmar-api/internal/domain/model"
)

type transactionView struct {
	ID                   string     `json:"id"`
	OrderID              string     `json:"order_id"`
	MerchantReferenceID  string     `json:"merchant_reference_id"`
	GatewayTransactionID string     `json:"gateway_transaction_id"`
	Amount               int64      `json:"amount"`
	Currency             string     `json:"currency"`
	Status               string     `json:"status"`
	LastCallbackStatus   string     `json:"last_callback_status,omitempty"`
	PayerMsisdn          string     `json:"payer_msisdn,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	ConfirmedAt          *time.Time `json:"confirmed_at,omitempty"`
}

// handleTransactions returns a paginated transaction list, newest first.
// It accepts 'offset' and 'limit' query parameters.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50 // Default page size
	}
	if offset < 0 {
		offset = 0
	}

	txns, err := s.payUC.List(ctx, offset, limit)
	if err != nil {
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}

	views := make([]transactionView, 0, len(txns))
	for _, t := range txns {
		views = append(views, toView(t))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Transactions []transactionView `json:"transactions"`
		Offset       int               `json:"offset"`
		Limit        int               `json:"limit"`
	}{Transactions: views, Offset: offset, Limit: limit})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	byStatus, confirmedAmount, err := s.payUC.Totals(ctx)
	if err != nil {
		http.Error(w, "Failed to get totals", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		TransactionsByStatus map[string]int `json:"transactions_by_status"`
		ConfirmedRevenueMMK  int64          `json:"confirmed_revenue_mmk"`
	}{TransactionsByStatus: byStatus, ConfirmedRevenueMMK: confirmedAmount})
}

func toView(t *model.Transaction) transactionView {
	return transactionView{
		ID:                   t.ID,
		OrderID:              t.OrderID,
		MerchantReferenceID:  t.MerchantReferenceID,
		GatewayTransactionID: t.GatewayTransactionID,
		Amount:               t.Amount,
		Currency:             t.Currency,
		Status:               string(t.Status),
		LastCallbackStatus:   t.LastCallbackStatus,
		PayerMsisdn:          t.PayerMsisdn,
		CreatedAt:            t.CreatedAt,
		ConfirmedAt:          t.ConfirmedAt,
	}
}
