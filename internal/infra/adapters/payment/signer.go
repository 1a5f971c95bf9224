// File: internal/infra/adapters/payment/signer.go
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"esim-myanmar-api/internal/domain/model"
)

// Signer produces Wave Money message signatures: HMAC-SHA256 over the
// concatenation of the message fields in the order the gateway fixes, no
// separators, lowercase hex output.
//
// Numeric rendering is part of the wire contract: amounts are whole kyats
// rendered base-10 with no decimals or grouping, TTL is a plain base-10
// integer. Both sides must produce the same bytes or signatures silently
// diverge.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// SignInitiation signs the outbound payment request.
// Field order: ttl, merchant_id, order_id, amount, backend_result_url,
// merchant_reference_id.
func (s *Signer) SignInitiation(ttl int, merchantID, orderID string, amount int64, backendResultURL, merchantReferenceID string) string {
	data := strconv.Itoa(ttl) +
		merchantID +
		orderID +
		strconv.FormatInt(amount, 10) +
		backendResultURL +
		merchantReferenceID
	return s.sign(data)
}

// SignCallback signs the inbound callback message.
// Field order: status, ttl, merchant_id, order_id, amount,
// backend_result_url, merchant_reference_id, initiator_msisdn,
// transaction_id, payment_request_id, request_time.
func (s *Signer) SignCallback(status string, ttl int, merchantID, orderID string, amount int64, backendResultURL, merchantReferenceID, initiatorMsisdn, transactionID, paymentRequestID, requestTime string) string {
	data := status +
		strconv.Itoa(ttl) +
		merchantID +
		orderID +
		strconv.FormatInt(amount, 10) +
		backendResultURL +
		merchantReferenceID +
		initiatorMsisdn +
		transactionID +
		paymentRequestID +
		requestTime
	return s.sign(data)
}

// VerifyCallback recomputes the callback signature over the callback's own
// fields and compares it to hashValue in constant time.
func (s *Signer) VerifyCallback(cb *model.PaymentCallback) bool {
	expected := s.SignCallback(
		cb.Status,
		cb.TimeToLiveSeconds,
		cb.MerchantID,
		cb.OrderID,
		cb.Amount,
		cb.BackendResultURL,
		cb.MerchantReferenceID,
		cb.InitiatorMsisdn,
		cb.TransactionID,
		cb.PaymentRequestID,
		cb.RequestTime,
	)
	return hmac.Equal([]byte(expected), []byte(cb.HashValue))
}

func (s *Signer) sign(data string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
