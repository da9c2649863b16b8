package portalsdk

import "io"

// ErrorResponse is the error body returned by the payments API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Credentials is the body of the login and register endpoints.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned from POST /auth/login.
type LoginResponse struct {
	// Token is the opaque bearer token for subsequent requests
	Token string `json:"token"`
}

// StatusResponse is returned from GET /api/v1/user/status.
type StatusResponse struct {
	SubscriptionStatus string `json:"subscription_status"`
	DaysRemaining      *int   `json:"days_remaining,omitempty"`
	ExpirationDate     string `json:"expiration_date,omitempty"`
	HasPendingPayment  bool   `json:"has_pending_payment,omitempty"`
	ProductID          string `json:"product_id"`
}

// SubmitPaymentRequest describes a bank-transfer proof upload.
type SubmitPaymentRequest struct {
	ProductID string
	Amount    string

	// FileName is reported to the API as the proof_file part's filename
	FileName string

	// ContentType of the proof, defaults to application/octet-stream
	ContentType string

	File io.Reader
}
