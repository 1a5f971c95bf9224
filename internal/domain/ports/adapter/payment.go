package adapter

import (
	"context"

	"esim-myanmar-api/internal/domain/model"
)

// PaymentGateway is the outbound port to the mobile-money provider.
type PaymentGateway interface {
	Name() string
	// Initiate signs and forwards one payment request. On HTTP 200 it returns
	// the gateway transaction id and the authentication redirect URL. A
	// gateway-reported rejection surfaces as *domain.GatewayError, transport
	// problems as domain.ErrTransport.
	Initiate(ctx context.Context, req *model.PaymentInitiation) (transactionID, authURL string, err error)
	// VerifyCallback reports whether the callback's hashValue matches the
	// signature recomputed over its own fields. Constant time.
	VerifyCallback(cb *model.PaymentCallback) bool
}
