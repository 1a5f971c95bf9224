package model

import (
	"net/url"
	"time"

	"esim-myanmar-api/internal/domain"
)

// Gateway callback statuses. PAYMENT_CONFIRMED is the only terminal success;
// everything else is acknowledged but treated as opaque.
const CallbackStatusConfirmed = "PAYMENT_CONFIRMED"

type TransactionStatus string

const (
	TransactionStatusInitiated TransactionStatus = "initiated" // payment request accepted by the gateway
	TransactionStatusConfirmed TransactionStatus = "confirmed" // authentic PAYMENT_CONFIRMED callback seen
)

type PaymentItem struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

// PaymentInitiation is one payment attempt as submitted by the caller.
// Amounts are whole kyats; MMK carries no sub-unit on the Wave wire.
type PaymentInitiation struct {
	OrderID             string        `json:"order_id"`
	Amount              int64         `json:"amount"`
	MerchantReferenceID string        `json:"merchant_reference_id"`
	FrontendResultURL   string        `json:"frontend_result_url"`
	BackendResultURL    string        `json:"backend_result_url"`
	TimeToLiveSeconds   int           `json:"time_to_live_in_seconds"`
	PaymentDescription  string        `json:"payment_description"`
	Currency            string        `json:"currency"`
	MerchantName        string        `json:"merchant_name"`
	Items               []PaymentItem `json:"items"`
}

// ApplyDefaults fills optional fields the same way the public API documents
// them: 600s TTL, MMK, the configured merchant display name.
func (p *PaymentInitiation) ApplyDefaults(merchantName string) {
	if p.TimeToLiveSeconds == 0 {
		p.TimeToLiveSeconds = 600
	}
	if p.PaymentDescription == "" {
		p.PaymentDescription = "Purchase from eSIM Myanmar"
	}
	if p.Currency == "" {
		p.Currency = "MMK"
	}
	if p.MerchantName == "" {
		p.MerchantName = merchantName
	}
	if p.Items == nil {
		p.Items = []PaymentItem{}
	}
}

// Validate rejects input before anything is signed or sent.
func (p *PaymentInitiation) Validate() error {
	if p.OrderID == "" {
		return &domain.ValidationError{Field: "order_id", Reason: "must not be empty"}
	}
	if p.Amount <= 0 {
		return &domain.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if p.MerchantReferenceID == "" {
		return &domain.ValidationError{Field: "merchant_reference_id", Reason: "must not be empty"}
	}
	if err := requireAbsoluteURL(p.FrontendResultURL); err != nil {
		return &domain.ValidationError{Field: "frontend_result_url", Reason: "must be an absolute URL"}
	}
	if err := requireAbsoluteURL(p.BackendResultURL); err != nil {
		return &domain.ValidationError{Field: "backend_result_url", Reason: "must be an absolute URL"}
	}
	if p.TimeToLiveSeconds < 0 {
		return &domain.ValidationError{Field: "time_to_live_in_seconds", Reason: "must not be negative"}
	}
	for _, it := range p.Items {
		if it.Name == "" {
			return &domain.ValidationError{Field: "items", Reason: "item name must not be empty"}
		}
	}
	return nil
}

func requireAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if !u.IsAbs() || u.Host == "" {
		return domain.ErrInvalidArgument
	}
	return nil
}

// InitiationResult mirrors the caller-facing contract: either a transaction
// id plus the authentication redirect, or the gateway's own error payload.
type InitiationResult struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id,omitempty"`
	AuthURL       string `json:"auth_url,omitempty"`
	Error         string `json:"error,omitempty"`
}

// PaymentCallback is the raw, untrusted notification the gateway posts to
// the backend result URL. Field names are the gateway's, camelCase.
// RequestTime stays a string: it participates in the signature byte-for-byte
// as the gateway rendered it.
type PaymentCallback struct {
	Status              string `json:"status"`
	TimeToLiveSeconds   int    `json:"timeToLiveInSeconds"`
	MerchantID          string `json:"merchantId"`
	OrderID             string `json:"orderId"`
	Amount              int64  `json:"amount"`
	BackendResultURL    string `json:"backendResultUrl"`
	MerchantReferenceID string `json:"merchantReferenceId"`
	InitiatorMsisdn     string `json:"initiatorMsisdn"`
	TransactionID       string `json:"transactionId"`
	PaymentRequestID    string `json:"paymentRequestId"`
	RequestTime         string `json:"requestTime"`
	HashValue           string `json:"hashValue"`
}

// CallbackOutcome is what an authentic callback amounted to.
type CallbackOutcome string

const (
	OutcomeConfirmed CallbackOutcome = "confirmed" // PAYMENT_CONFIRMED, first delivery
	OutcomeReceived  CallbackOutcome = "received"  // any other status, acknowledged only
	OutcomeDuplicate CallbackOutcome = "duplicate" // authentic repeat of an already-processed delivery
)

// Transaction is the stored order-to-transaction record. ID is our ULID;
// GatewayTransactionID is the gateway's identifier, stored verbatim.
type Transaction struct {
	ID                   string
	OrderID              string
	MerchantReferenceID  string
	GatewayTransactionID string
	Amount               int64
	Currency             string
	Status               TransactionStatus
	LastCallbackStatus   string
	PayerMsisdn          string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	ConfirmedAt          *time.Time
}
