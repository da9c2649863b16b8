package http

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Storage string `json:"storage"`
}

// DashboardResponse is the JSON rendering of the dashboard view.
type DashboardResponse struct {
	View             string          `json:"view" example:"payment_form"`
	Status           *StatusResponse `json:"status,omitempty"`
	Forced           bool            `json:"forced"`
	ProductID        string          `json:"product_id,omitempty" example:"premium_v1"`
	Amount           string          `json:"amount,omitempty" example:"150"`
	HasDraftFile     bool            `json:"has_draft_file"`
	ShowManualFields bool            `json:"show_manual_fields"`
	CanLogout        bool            `json:"can_logout"`
	RedirectInMillis int64           `json:"redirect_in_ms,omitempty"`
	Notice           string          `json:"notice,omitempty"`
}

type StatusResponse struct {
	SubscriptionStatus string `json:"subscription_status" example:"ACTIVE"`
	DaysRemaining      int    `json:"days_remaining,omitempty" example:"12"`
	ExpirationDate     string `json:"expiration_date,omitempty" example:"2026-11-01"`
	HasPendingPayment  bool   `json:"has_pending_payment"`
	ProductID          string `json:"product_id" example:"premium_v1"`
}

// ErrorResponse is the {"error": "..."} envelope.
type ErrorResponse struct {
	Error string `json:"error" example:"not authenticated"`
}
