package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/payportal/internal/portal/domain"
	"github.com/aussiebroadwan/payportal/pkg/slogx"
)

// Decide picks the dashboard view. First match wins:
//
//	Redirecting  ACTIVE with a pending return
//	Pending      a payment is awaiting review
//	Active       ACTIVE and no deep-linked payment
//	PaymentForm  everything else, including ACTIVE with a deep-linked payment
func Decide(status *domain.Status, hasReturn bool, forced domain.ForcedPayment) domain.ViewKind {
	active := status.IsActive()
	switch {
	case active && hasReturn:
		return domain.ViewRedirecting
	case status != nil && status.HasPendingPayment:
		return domain.ViewPending
	case active && !forced.Forced:
		return domain.ViewActive
	default:
		return domain.ViewPaymentForm
	}
}

// Prefill returns the initial form values: the deep link wins, then the
// product the API already knows about.
func Prefill(status *domain.Status, forced domain.ForcedPayment) domain.UploadDraft {
	if forced.Forced {
		return domain.UploadDraft{ProductID: forced.ProductID, Amount: forced.Amount}
	}
	return domain.UploadDraft{ProductID: status.KnownProduct()}
}

// Dashboard is the per-visitor state machine behind the dashboard page.
//
// Each Mount and Refresh starts a new generation; results that come back for an
// older generation, or after Unmount, are dropped with ErrStale. While
// Redirecting, Refresh is a no-op and Submit and Logout are refused.
type Dashboard struct {
	env     Env
	session *SessionStore
	poller  *StatusPoller
	proofs  *ProofService
	msgs    Messages
	log     *slog.Logger
	obs     Observer
	delay   time.Duration
	hosts   []string

	mu        sync.Mutex
	gen       uint64
	mounted   bool
	forced    domain.ForcedPayment
	draft     *domain.UploadDraft // entered by the visitor, overrides Prefill
	view      domain.View
	stopTimer func() bool
	fired     bool
}

// View returns the last computed view.
func (d *Dashboard) View() domain.View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view
}

// Mount resolves the deep link, fetches the status and computes the view.
// A status failure is not an error: the view is computed without a status.
func (d *Dashboard) Mount(ctx context.Context, query url.Values) (domain.View, error) {
	token, ok := d.session.Token()
	if !ok {
		return domain.View{Kind: domain.ViewLoading}, ErrNotAuthenticated
	}

	forced := ResolveDeepLink(query)
	saved := d.loadDraft(ctx)

	d.mu.Lock()
	stop := d.stopTimer
	d.stopTimer = nil
	d.gen++
	gen := d.gen
	d.mounted = true
	d.fired = false
	d.forced = forced
	d.draft = saved
	d.view = domain.View{Kind: domain.ViewLoading, Forced: forced, ShowManualFields: !forced.Forced}
	d.mu.Unlock()

	if stop != nil {
		stop()
	}

	return d.load(ctx, gen, token, "")
}

// Refresh fetches the status again and recomputes the view. It does nothing
// while Redirecting.
func (d *Dashboard) Refresh(ctx context.Context) (domain.View, error) {
	d.mu.Lock()
	if !d.mounted {
		d.mu.Unlock()
		return domain.View{}, ErrStale
	}
	if d.view.Kind == domain.ViewRedirecting {
		v := d.view
		d.mu.Unlock()
		return v, nil
	}
	d.gen++
	gen := d.gen
	d.mu.Unlock()

	token, ok := d.session.Token()
	if !ok {
		return domain.View{Kind: domain.ViewLoading}, ErrNotAuthenticated
	}
	return d.load(ctx, gen, token, "")
}

// Submit uploads a proof. A deep-linked product and amount always replace the
// draft's own. On success the file is dropped from the draft and the status is
// fetched once more; on failure the whole draft, file included, is kept.
func (d *Dashboard) Submit(ctx context.Context, draft domain.UploadDraft) (domain.View, error) {
	d.mu.Lock()
	if !d.mounted {
		d.mu.Unlock()
		return domain.View{}, ErrStale
	}
	if d.view.Kind == domain.ViewRedirecting {
		v := d.view
		d.mu.Unlock()
		return v, ErrRedirecting
	}
	forced := d.forced
	gen := d.gen
	d.mu.Unlock()

	if forced.Forced {
		draft.ProductID = forced.ProductID
		draft.Amount = forced.Amount
	}

	token, ok := d.session.Token()
	if !ok {
		return domain.View{Kind: domain.ViewLoading}, ErrNotAuthenticated
	}

	if err := d.proofs.Submit(ctx, token, draft); err != nil {
		if !errors.Is(err, ErrValidation) {
			d.saveDraft(ctx, draft)
		}

		d.mu.Lock()
		defer d.mu.Unlock()
		if !d.mounted || gen != d.gen {
			return domain.View{}, ErrStale
		}
		d.draft = &draft
		d.view.Draft = draft
		d.view.Notice = ""
		return d.view, err
	}

	d.clearDraft(ctx)
	kept := domain.UploadDraft{ProductID: draft.ProductID, Amount: draft.Amount}

	d.mu.Lock()
	if !d.mounted || gen != d.gen {
		d.mu.Unlock()
		return domain.View{}, ErrStale
	}
	d.draft = &kept
	d.gen++
	gen = d.gen
	d.mu.Unlock()

	return d.load(ctx, gen, token, d.msgs.UploadSent)
}

// CompleteRedirect performs the pending return now instead of waiting for the
// timer. It is how the web frontend fires the redirect.
func (d *Dashboard) CompleteRedirect(ctx context.Context) error {
	d.mu.Lock()
	if !d.mounted {
		d.mu.Unlock()
		return ErrStale
	}
	if d.view.Kind != domain.ViewRedirecting {
		d.mu.Unlock()
		return ErrNoPendingReturn
	}
	if d.fired {
		d.mu.Unlock()
		return nil
	}
	d.fired = true
	stop := d.stopTimer
	d.stopTimer = nil
	d.mu.Unlock()

	if stop != nil {
		stop()
	}
	return d.completeRedirect(ctx)
}

// Logout ends the session from the dashboard. Refused while Redirecting.
func (d *Dashboard) Logout(ctx context.Context) error {
	d.mu.Lock()
	redirecting := d.mounted && d.view.Kind == domain.ViewRedirecting
	d.mu.Unlock()
	if redirecting {
		return ErrRedirecting
	}

	d.Unmount()
	d.clearDraft(ctx)
	return d.session.Logout(ctx)
}

// Unmount abandons the view: the redirect timer is stopped and in-flight
// results are dropped.
func (d *Dashboard) Unmount() {
	d.mu.Lock()
	d.mounted = false
	d.gen++
	stop := d.stopTimer
	d.stopTimer = nil
	d.mu.Unlock()

	if stop != nil {
		stop()
	}
}

func (d *Dashboard) load(ctx context.Context, gen uint64, token, notice string) (domain.View, error) {
	// Errors are already logged by the poller; the view just has no status.
	status, _ := d.poller.Fetch(ctx, token)
	hasReturn := d.hasPendingReturn(ctx)

	d.mu.Lock()
	if !d.mounted || gen != d.gen {
		d.mu.Unlock()
		return domain.View{}, ErrStale
	}

	kind := Decide(status, hasReturn, d.forced)
	draft := Prefill(status, d.forced)
	if d.draft != nil {
		draft = *d.draft
		if d.forced.Forced {
			draft.ProductID = d.forced.ProductID
			draft.Amount = d.forced.Amount
		}
	}

	d.view = domain.View{
		Kind:             kind,
		Status:           status,
		Forced:           d.forced,
		Draft:            draft,
		ShowManualFields: !d.forced.Forced,
		Notice:           notice,
	}

	schedule := kind == domain.ViewRedirecting && d.stopTimer == nil && !d.fired
	if kind == domain.ViewRedirecting {
		d.view.RedirectIn = d.delay
	}
	v := d.view
	d.mu.Unlock()

	d.obs.ViewComputed(kind)

	if schedule {
		stop := d.env.AfterFunc(d.delay, func() { d.fire(gen) })

		d.mu.Lock()
		if d.mounted && gen == d.gen && d.stopTimer == nil {
			d.stopTimer = stop
			stop = nil
		}
		d.mu.Unlock()

		if stop != nil {
			stop()
		}
	}

	return v, nil
}

func (d *Dashboard) fire(gen uint64) {
	d.mu.Lock()
	if !d.mounted || gen != d.gen || d.fired {
		d.mu.Unlock()
		return
	}
	d.fired = true
	d.stopTimer = nil
	d.mu.Unlock()

	if err := d.completeRedirect(context.Background()); err != nil {
		d.log.Warn("delayed return failed", slogx.Err(err))
	}
}

// completeRedirect consumes the pending return and navigates to it with the
// session token attached.
func (d *Dashboard) completeRedirect(ctx context.Context) error {
	tab := d.env.Tab()

	raw, ok, err := tab.Get(ctx, KeyReturnURL)
	if err != nil {
		d.log.Warn("failed to read return url", slogx.Err(err))
	}
	if !ok || raw == "" {
		d.env.Navigate(PathDashboard)
		return ErrNoPendingReturn
	}
	if err := tab.Delete(ctx, KeyReturnURL); err != nil {
		d.log.Warn("failed to delete return url", slogx.Err(err))
	}

	token, authed := d.session.Token()
	if !authed {
		d.env.Navigate(PathLogin)
		return ErrNotAuthenticated
	}

	if !ReturnHostAllowed(raw, d.hosts) {
		d.log.Warn("discarding return url outside the allowed hosts", "return_url", raw)
		d.env.Navigate(PathDashboard)
		return ErrReturnNotAllowed
	}

	target, err := AppendToken(raw, token)
	if err != nil {
		d.log.Warn("discarding invalid return url", slogx.Err(err))
		d.env.Navigate(PathDashboard)
		return err
	}

	d.obs.ReturnRedirect()
	d.env.Navigate(target)
	return nil
}

func (d *Dashboard) hasPendingReturn(ctx context.Context) bool {
	v, ok, err := d.env.Tab().Get(ctx, KeyReturnURL)
	if err != nil {
		d.log.Warn("failed to read return url", slogx.Err(err))
		return false
	}
	return ok && v != ""
}

// AppendToken sets the token query parameter on an absolute http(s) URL,
// keeping any query it already has.
func AppendToken(raw, token string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse return url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("return url %q is not an absolute http(s) url", raw)
	}

	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ReturnHostAllowed reports whether raw points at one of hosts. An entry with
// a leading dot also admits its subdomains. No hosts admits any.
func ReturnHostAllowed(raw string, hosts []string) bool {
	if len(hosts) == 0 {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		switch {
		case h == "":
		case strings.HasPrefix(h, "."):
			if host == h[1:] || strings.HasSuffix(host, h) {
				return true
			}
		case host == h:
			return true
		}
	}
	return false
}
