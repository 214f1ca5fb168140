package gateway

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"

	"github.com/Skotchmaster/marketplace/internal/models"
)

// Signature is the lowercase hex SHA-512 of
// order_id + status_code + gross_amount + server_key, concatenated as given.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func VerifySignature(orderID, statusCode, grossAmount, serverKey, signature string) bool {
	expected := Signature(orderID, statusCode, grossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// Transaction statuses reported by the gateway.
const (
	StatusCapture    = "capture"
	StatusSettlement = "settlement"
	StatusPending    = "pending"
	StatusDeny       = "deny"
	StatusCancel     = "cancel"
	StatusExpire     = "expire"
)

// PaymentStatusFor maps a gateway transaction status onto a payment status.
// ok is false for statuses that must leave the order untouched.
func PaymentStatusFor(transactionStatus string) (models.PaymentStatus, bool) {
	switch transactionStatus {
	case StatusCapture, StatusSettlement:
		return models.PaymentPaid, true
	case StatusExpire, StatusCancel, StatusDeny:
		return models.PaymentFailed, true
	case StatusPending:
		return models.PaymentPending, true
	default:
		return "", false
	}
}
