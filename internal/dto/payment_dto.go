package dto

import "time"

type CheckoutResponse struct {
	Reference   string `json:"reference"`
	SnapToken   string `json:"snap_token"`
	RedirectURL string `json:"redirect_url"`
}

// MidtransNotification is the subset of the webhook body the backend reads.
type MidtransNotification struct {
	OrderId           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
}

type PaymentStatusResponse struct {
	IsPremium        bool       `json:"is_premium"`
	PremiumExpiry    *time.Time `json:"premium_expiry"`
	AudioMinutesUsed float64    `json:"audio_minutes_used"`
}
