package domain

import "time"

// ViewKind is the screen the dashboard shows. Exactly one applies at a time.
type ViewKind int

const (
	ViewLoading ViewKind = iota
	ViewRedirecting
	ViewPending
	ViewActive
	ViewPaymentForm
)

func (k ViewKind) String() string {
	switch k {
	case ViewLoading:
		return "loading"
	case ViewRedirecting:
		return "redirecting"
	case ViewPending:
		return "pending"
	case ViewActive:
		return "active"
	case ViewPaymentForm:
		return "payment_form"
	default:
		return "unknown"
	}
}

// View is the fully computed dashboard state handed to renderers.
type View struct {
	Kind   ViewKind
	Status *Status
	Forced ForcedPayment

	// Draft is pre-filled from Forced, then from Status.
	Draft UploadDraft

	// ShowManualFields is false when a deep link fixed product and amount.
	ShowManualFields bool

	// RedirectIn is how long until the pending return fires. Only set when Redirecting.
	RedirectIn time.Duration

	// Notice is a one-shot confirmation shown after a successful upload.
	Notice string
}

// CanLogout reports whether the logout action is offered.
func (v View) CanLogout() bool {
	return v.Kind != ViewRedirecting && v.Kind != ViewLoading
}
