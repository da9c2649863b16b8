package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/payportal/internal/portal/domain"
	"github.com/aussiebroadwan/payportal/pkg/portalsdk"
)

// API is the remote payments API as the portal uses it.
type API interface {
	Login(ctx context.Context, email, password string) (token string, err error)
	Register(ctx context.Context, email, password string) error
	Status(ctx context.Context, token string) (*portalsdk.StatusResponse, error)
	SubmitProof(ctx context.Context, token string, req portalsdk.SubmitPaymentRequest) error
}

// SDKAPI adapts *portalsdk.SDKClient to API.
type SDKAPI struct {
	Client *portalsdk.SDKClient
}

func (a SDKAPI) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := a.Client.Login(ctx, email, password)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (a SDKAPI) Register(ctx context.Context, email, password string) error {
	return a.Client.Register(ctx, email, password)
}

func (a SDKAPI) Status(ctx context.Context, token string) (*portalsdk.StatusResponse, error) {
	return a.Client.NewSession(token).GetStatus(ctx)
}

func (a SDKAPI) SubmitProof(ctx context.Context, token string, req portalsdk.SubmitPaymentRequest) error {
	return a.Client.NewSession(token).SubmitPayment(ctx, req)
}

// Observer receives portal events, typically for metrics.
type Observer interface {
	AuthAttempt(kind string, ok bool)
	StatusFetched(ok bool)
	ProofSubmitted(outcome string)
	ViewComputed(kind domain.ViewKind)
	ReturnRedirect()
}

type nopObserver struct{}

func (nopObserver) AuthAttempt(string, bool)     {}
func (nopObserver) StatusFetched(bool)           {}
func (nopObserver) ProofSubmitted(string)        {}
func (nopObserver) ViewComputed(domain.ViewKind) {}
func (nopObserver) ReturnRedirect()              {}

// DefaultRedirectDelay is how long the Redirecting screen stays up.
const DefaultRedirectDelay = 3 * time.Second

// Config holds the dependencies shared by every visitor.
type Config struct {
	API           API
	Messages      Messages
	Logger        *slog.Logger
	Observer      Observer
	RedirectDelay time.Duration
	// ReturnHosts limits which hosts may receive the token on a return
	// redirect. Empty allows any absolute http(s) URL.
	ReturnHosts   []string
}

// Portal builds per-visitor session stores and dashboards around an Env.
type Portal struct {
	api    API
	msgs   Messages
	log    *slog.Logger
	obs    Observer
	delay  time.Duration
	hosts  []string
	poller *StatusPoller
	proofs *ProofService
}

// New returns a Portal with defaults filled in for zero Config fields.
func New(cfg Config) *Portal {
	if cfg.Messages == (Messages{}) {
		cfg.Messages = MessagesFor(DefaultLocale)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	if cfg.RedirectDelay <= 0 {
		cfg.RedirectDelay = DefaultRedirectDelay
	}

	return &Portal{
		api:    cfg.API,
		msgs:   cfg.Messages,
		log:    cfg.Logger,
		obs:    cfg.Observer,
		delay:  cfg.RedirectDelay,
		hosts:  cfg.ReturnHosts,
		poller: &StatusPoller{API: cfg.API, Logger: cfg.Logger, Observer: cfg.Observer},
		proofs: &ProofService{API: cfg.API, Messages: cfg.Messages, Logger: cfg.Logger, Observer: cfg.Observer},
	}
}

// Messages returns the copy the portal was configured with.
func (p *Portal) Messages() Messages { return p.msgs }

// Session returns a SessionStore for the visitor behind env. Call Restore before use.
func (p *Portal) Session(env Env) *SessionStore {
	return &SessionStore{
		api:  p.api,
		env:  env,
		msgs: p.msgs,
		log:  p.log,
		obs:  p.obs,
	}
}

// Dashboard returns a dashboard bound to a restored session.
func (p *Portal) Dashboard(env Env, session *SessionStore) *Dashboard {
	return &Dashboard{
		env:     env,
		session: session,
		poller:  p.poller,
		proofs:  p.proofs,
		msgs:    p.msgs,
		log:     p.log,
		obs:     p.obs,
		delay:   p.delay,
		hosts:   p.hosts,
	}
}
