package service

import (
	"net/url"
	"strings"

	"github.com/aussiebroadwan/payportal/internal/portal/domain"
)

// ResolveDeepLink reads pay and amount from query. Both must be non-empty for
// the payment to be forced.
func ResolveDeepLink(query url.Values) domain.ForcedPayment {
	pay := strings.TrimSpace(query.Get("pay"))
	amount := strings.TrimSpace(query.Get("amount"))
	if pay == "" || amount == "" {
		return domain.ForcedPayment{}
	}
	return domain.ForcedPayment{ProductID: pay, Amount: amount, Forced: true}
}
