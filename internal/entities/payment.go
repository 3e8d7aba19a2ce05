package entities

type PaymentConfirmRequest struct {
	Reference   string  `json:"reference"`
	Amount      float64 `json:"amount"`
	PaymentType string  `json:"payment_type"` // full | half
}

type PaymentConfirmResponse struct {
	Code       string  `json:"code"`
	Status     string  `json:"status"`
	AmountPaid float64 `json:"amount_paid"`
	Message    string  `json:"message"`
}

type CheckoutRequest struct {
	PaymentType string `json:"payment_type"` // full | half
}

type CheckoutResponse struct {
	Code      string `json:"code"`
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}
