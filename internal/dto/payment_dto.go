package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreditPackResponse struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Credits     int    `json:"credits"`
	GrossAmount int64  `json:"gross_amount"`
}

type CheckoutRequest struct {
	PackCode string `json:"pack_code" validate:"required"`
}

type CheckoutResponse struct {
	OrderId         string `json:"order_id"`
	SnapToken       string `json:"snap_token"`
	SnapRedirectUrl string `json:"snap_redirect_url"`
}

type PaymentHistoryResponse struct {
	Id          uuid.UUID  `json:"id"`
	OrderId     string     `json:"order_id"`
	PackCode    string     `json:"pack_code"`
	Credits     int        `json:"credits"`
	GrossAmount int64      `json:"gross_amount"`
	Status      string     `json:"status"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type MidtransWebhookRequest struct {
	TransactionStatus string `json:"transaction_status"`
	OrderId           string `json:"order_id"`
	FraudStatus       string `json:"fraud_status"`
	// Signature validation fields
	SignatureKey string `json:"signature_key"`
	StatusCode   string `json:"status_code"`
	GrossAmount  string `json:"gross_amount"`
}
