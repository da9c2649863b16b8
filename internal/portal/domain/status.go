package domain

// SubscriptionActive is the only subscription_status value the portal gives meaning to.
const SubscriptionActive = "ACTIVE"

// ProductNotSet is the sentinel product_id for users that never picked a product.
const ProductNotSet = "not_set"

// Status is a snapshot of the user's subscription as reported by the API.
// A nil *Status means the API had nothing for the user or could not be reached.
type Status struct {
	SubscriptionStatus string
	DaysRemaining      int    // 0 when the API omitted it
	ExpirationDate     string // empty when the API omitted it
	HasPendingPayment  bool
	ProductID          string
}

// IsActive reports whether the subscription is ACTIVE.
func (s *Status) IsActive() bool {
	return s != nil && s.SubscriptionStatus == SubscriptionActive
}

// KnownProduct returns the product the user is subscribed to, or "" for ProductNotSet.
func (s *Status) KnownProduct() string {
	if s == nil || s.ProductID == ProductNotSet {
		return ""
	}
	return s.ProductID
}
