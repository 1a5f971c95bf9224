// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"esim-myanmar-api/internal/domain"
	"esim-myanmar-api/internal/domain/model"
	"esim-myanmar-api/internal/domain/ports/adapter"
	"esim-myanmar-api/internal/domain/ports/repository"
	"esim-myanmar-api/internal/infra/logging"
	"esim-myanmar-api/internal/infra/metrics"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

type PaymentUseCase interface {
	// Initiate validates, signs and forwards one payment attempt. A gateway
	// rejection comes back as an unsuccessful result, not an error; transport
	// and validation problems come back as errors.
	Initiate(ctx context.Context, req *model.PaymentInitiation) (*model.InitiationResult, error)
	// HandleCallback verifies an inbound gateway callback and applies its
	// outcome. domain.ErrSignatureMismatch means the callback is not
	// authentic and must be answered with HTTP 400.
	HandleCallback(ctx context.Context, cb *model.PaymentCallback) (model.CallbackOutcome, error)
	// List and Totals back the admin API.
	List(ctx context.Context, offset, limit int) ([]*model.Transaction, error)
	Totals(ctx context.Context) (map[string]int, int64, error)
}

type paymentUC struct {
	transactions repository.TransactionRepository
	callbacks    repository.CallbackRegistry
	gateway      adapter.PaymentGateway
	merchantName string
	dedupTTL     time.Duration
	log          *zerolog.Logger
}

func NewPaymentUseCase(
	transactions repository.TransactionRepository,
	callbacks repository.CallbackRegistry,
	gateway adapter.PaymentGateway,
	merchantName string,
	dedupTTL time.Duration,
	logger *zerolog.Logger,
) *paymentUC {
	if dedupTTL <= 0 {
		dedupTTL = time.Hour
	}
	return &paymentUC{
		transactions: transactions,
		callbacks:    callbacks,
		gateway:      gateway,
		merchantName: merchantName,
		dedupTTL:     dedupTTL,
		log:          logger,
	}
}

func (u *paymentUC) Initiate(ctx context.Context, req *model.PaymentInitiation) (*model.InitiationResult, error) {
	req.ApplyDefaults(u.merchantName)
	if err := req.Validate(); err != nil {
		metrics.IncInitiation("invalid")
		return nil, err
	}
	ctx = logging.WithOrderID(ctx, req.OrderID)
	log := logging.With(ctx, u.log)

	txnID, authURL, err := u.gateway.Initiate(ctx, req)
	if err != nil {
		var gwErr *domain.GatewayError
		if errors.As(err, &gwErr) {
			// Expected outcome: the gateway said no. Surface its payload.
			metrics.IncInitiation("rejected")
			log.Info().Int("gateway_status", gwErr.StatusCode).Msg("payment rejected by gateway")
			return &model.InitiationResult{Success: false, Error: gwErr.Body}, nil
		}
		metrics.IncInitiation("transport_error")
		log.Error().Err(err).Msg("payment initiation failed")
		return nil, err
	}

	now := time.Now()
	txn := &model.Transaction{
		ID:                   ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		OrderID:              req.OrderID,
		MerchantReferenceID:  req.MerchantReferenceID,
		GatewayTransactionID: txnID,
		Amount:               req.Amount,
		Currency:             req.Currency,
		Status:               model.TransactionStatusInitiated,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	// The gateway already holds a live payment request at this point; losing
	// the local record must not lose the auth URL for the caller.
	if err := u.transactions.Record(ctx, txn); err != nil {
		if errors.Is(err, domain.ErrDuplicateOrder) {
			log.Debug().Msg("order already recorded, reusing mapping")
		} else {
			log.Error().Err(err).Msg("failed to record transaction mapping")
		}
	}

	metrics.IncInitiation("accepted")
	log.Info().Str("txn_id", txnID).Msg("payment initiated")
	return &model.InitiationResult{Success: true, TransactionID: txnID, AuthURL: authURL}, nil
}

func (u *paymentUC) HandleCallback(ctx context.Context, cb *model.PaymentCallback) (model.CallbackOutcome, error) {
	ctx = logging.WithOrderID(ctx, cb.OrderID)
	ctx = logging.WithTxnID(ctx, cb.TransactionID)
	log := logging.With(ctx, u.log)

	if !u.gateway.VerifyCallback(cb) {
		// Never log the supplied or expected hash: this is the trust boundary.
		metrics.IncCallback("signature_mismatch")
		log.Warn().Str("status", cb.Status).Msg("callback rejected: signature mismatch")
		return "", domain.ErrSignatureMismatch
	}

	// Store mutations run before the dedup marker is claimed. They are
	// idempotent, and claiming first would burn the marker on a failed
	// mutation: the gateway's redelivery would then look like a duplicate
	// and get acknowledged without the order ever confirming.
	if cb.Status == model.CallbackStatusConfirmed {
		if err := u.transactions.MarkConfirmed(ctx, cb.OrderID, cb.TransactionID, cb.InitiatorMsisdn); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// The protocol does not require a local record; confirm anyway.
				log.Warn().Msg("confirmed callback for unknown order")
			} else {
				// Do not acknowledge: the gateway will redeliver.
				return "", fmt.Errorf("mark confirmed: %w", err)
			}
		}
	} else {
		if err := u.transactions.MarkStatus(ctx, cb.OrderID, cb.Status); err != nil && !errors.Is(err, domain.ErrNotFound) {
			log.Warn().Err(err).Str("status", cb.Status).Msg("failed to record callback status")
		}
	}

	first, err := u.callbacks.FirstDelivery(ctx, cb.TransactionID, cb.Status, u.dedupTTL)
	if err != nil {
		// Registry down: verification is idempotent, so degrade to processing.
		log.Warn().Err(err).Msg("callback registry unavailable, treating delivery as first")
		first = true
	}
	if !first {
		metrics.IncCallback("duplicate")
		log.Debug().Str("status", cb.Status).Msg("duplicate callback delivery acknowledged")
		return model.OutcomeDuplicate, nil
	}

	if cb.Status == model.CallbackStatusConfirmed {
		metrics.IncCallback("confirmed")
		metrics.AddConfirmedRevenue("MMK", cb.Amount)
		log.Info().Msg("payment confirmed")
		return model.OutcomeConfirmed, nil
	}
	metrics.IncCallback("received")
	log.Info().Str("status", cb.Status).Msg("payment status update received")
	return model.OutcomeReceived, nil
}

func (u *paymentUC) List(ctx context.Context, offset, limit int) ([]*model.Transaction, error) {
	return u.transactions.List(ctx, offset, limit)
}

func (u *paymentUC) Totals(ctx context.Context) (map[string]int, int64, error) {
	return u.transactions.Totals(ctx)
}
