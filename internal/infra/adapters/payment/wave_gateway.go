// File: internal/infra/adapters/payment/wave_gateway.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"esim-myanmar-api/internal/config"
	"esim-myanmar-api/internal/domain"
	"esim-myanmar-api/internal/domain/model"
	"esim-myanmar-api/internal/domain/ports/adapter"
	"esim-myanmar-api/internal/infra/metrics"
)

var _ adapter.PaymentGateway = (*WaveGateway)(nil)

// WaveGateway implements adapter.PaymentGateway against the Wave Money
// payment API: one signed JSON POST per initiation, callback authenticity via
// the shared-secret signature. No retries; at most one delivery per call.
type WaveGateway struct {
	merchantID      string
	paymentURL      string
	authenticateURL string
	signer          *Signer
	client          *http.Client
}

func NewWaveGateway(cfg config.WaveConfig) (*WaveGateway, error) {
	if cfg.MerchantID == "" {
		return nil, errors.New("merchant id empty")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key empty")
	}
	if _, err := url.Parse(cfg.PaymentURL); err != nil {
		return nil, fmt.Errorf("invalid payment url: %w", err)
	}
	if _, err := url.Parse(cfg.AuthenticateURL); err != nil {
		return nil, fmt.Errorf("invalid authenticate url: %w", err)
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &WaveGateway{
		merchantID:      cfg.MerchantID,
		paymentURL:      cfg.PaymentURL,
		authenticateURL: cfg.AuthenticateURL,
		signer:          NewSigner(cfg.SecretKey),
		client:          &http.Client{Timeout: timeout},
	}, nil
}

func (g *WaveGateway) Name() string { return "wave" }

// initiateBody is the gateway's wire format. Items is a JSON array carried as
// a string value, not a nested array; that nesting is Wave's contract.
type initiateBody struct {
	MerchantID          string `json:"merchant_id"`
	OrderID             string `json:"order_id"`
	MerchantReferenceID string `json:"merchant_reference_id"`
	FrontendResultURL   string `json:"frontend_result_url"`
	BackendResultURL    string `json:"backend_result_url"`
	Amount              int64  `json:"amount"`
	TimeToLiveSeconds   int    `json:"time_to_live_in_seconds"`
	PaymentDescription  string `json:"payment_description"`
	Currency            string `json:"currency"`
	Hash                string `json:"hash"`
	MerchantName        string `json:"merchant_name"`
	Items               string `json:"items"`
}

func (g *WaveGateway) Initiate(ctx context.Context, req *model.PaymentInitiation) (string, string, error) {
	hash := g.signer.SignInitiation(
		req.TimeToLiveSeconds,
		g.merchantID,
		req.OrderID,
		req.Amount,
		req.BackendResultURL,
		req.MerchantReferenceID,
	)

	items, err := json.Marshal(req.Items)
	if err != nil {
		return "", "", fmt.Errorf("marshal items: %w", err)
	}
	body, err := json.Marshal(initiateBody{
		MerchantID:          g.merchantID,
		OrderID:             req.OrderID,
		MerchantReferenceID: req.MerchantReferenceID,
		FrontendResultURL:   req.FrontendResultURL,
		BackendResultURL:    req.BackendResultURL,
		Amount:              req.Amount,
		TimeToLiveSeconds:   req.TimeToLiveSeconds,
		PaymentDescription:  req.PaymentDescription,
		Currency:            req.Currency,
		Hash:                hash,
		MerchantName:        req.MerchantName,
		Items:               string(items),
	})
	if err != nil {
		return "", "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.paymentURL, bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := g.client.Do(httpReq)
	metrics.ObserveGatewayLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", "", fmt.Errorf("%w: read response: %v", domain.ErrTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", &domain.GatewayError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out struct {
		TransactionID string `json:"transaction_id"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", "", fmt.Errorf("%w: decode response: %v", domain.ErrTransport, err)
	}
	if out.TransactionID == "" {
		return "", "", fmt.Errorf("%w: response missing transaction_id", domain.ErrTransport)
	}

	authURL := g.authenticateURL + "?transaction_id=" + url.QueryEscape(out.TransactionID)
	return out.TransactionID, authURL, nil
}

func (g *WaveGateway) VerifyCallback(cb *model.PaymentCallback) bool {
	return g.signer.VerifyCallback(cb)
}
