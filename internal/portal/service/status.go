package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/payportal/internal/portal/domain"
	"github.com/aussiebroadwan/payportal/pkg/portalsdk"
	"github.com/aussiebroadwan/payportal/pkg/slogx"
)

// StatusPoller fetches the subscription status on demand. Nothing is cached.
type StatusPoller struct {
	API      API
	Logger   *slog.Logger
	Observer Observer
}

// Fetch returns the current status. Callers treat any error as "no status";
// 401 and 404 are routine for new users and are logged at info level.
func (p *StatusPoller) Fetch(ctx context.Context, token string) (*domain.Status, error) {
	resp, err := p.API.Status(ctx, token)
	if err != nil {
		p.Observer.StatusFetched(false)
		p.Logger.Info("status unavailable", slogx.Err(err))
		return nil, err
	}
	p.Observer.StatusFetched(true)
	return statusFromResponse(resp), nil
}

func statusFromResponse(resp *portalsdk.StatusResponse) *domain.Status {
	if resp == nil {
		return nil
	}
	s := &domain.Status{
		SubscriptionStatus: resp.SubscriptionStatus,
		ExpirationDate:     resp.ExpirationDate,
		HasPendingPayment:  resp.HasPendingPayment,
		ProductID:          resp.ProductID,
	}
	if resp.DaysRemaining != nil && *resp.DaysRemaining > 0 {
		s.DaysRemaining = *resp.DaysRemaining
	}
	return s
}
