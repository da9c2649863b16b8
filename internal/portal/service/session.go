package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/aussiebroadwan/payportal/pkg/portalsdk"
	"github.com/aussiebroadwan/payportal/pkg/slogx"
)

// AuthState is where the visitor's session stands.
type AuthState int

const (
	AuthUnknown AuthState = iota
	AuthAuthenticated
	AuthUnauthenticated
)

func (s AuthState) String() string {
	switch s {
	case AuthAuthenticated:
		return "authenticated"
	case AuthUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// GuardDecision is the outcome of guarding an authenticated route.
type GuardDecision int

const (
	GuardLoading GuardDecision = iota
	GuardAllow
	GuardRedirectLogin
)

// Paths the portal navigates to on its own.
const (
	PathLogin     = "/login"
	PathDashboard = "/dashboard"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// SessionStore holds one visitor's opaque API token. Presence of the token is
// the only thing that makes a visitor authenticated.
type SessionStore struct {
	api  API
	env  Env
	msgs Messages
	log  *slog.Logger
	obs  Observer

	mu    sync.Mutex
	state AuthState
	token string
	ready bool
}

// Restore loads the persisted token and captures return_url from query into
// tab storage. Guard reports Loading until Restore has run.
func (s *SessionStore) Restore(ctx context.Context, query url.Values) {
	token, ok, err := s.env.Durable().Get(ctx, KeyClientToken)
	if err != nil {
		s.log.Warn("failed to read session token", slogx.Err(err))
		ok = false
	}
	if ok && token != "" {
		// Rewriting slides the storage expiry along with the visitor's activity.
		if err := s.env.Durable().Set(ctx, KeyClientToken, token); err != nil {
			s.log.Warn("failed to refresh session token", slogx.Err(err))
		}
	}

	if rt := query.Get("return_url"); rt != "" {
		if err := s.env.Tab().Set(ctx, KeyReturnURL, rt); err != nil {
			s.log.Warn("failed to store return url", slogx.Err(err))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ok && token != "" {
		s.state = AuthAuthenticated
		s.token = token
	} else {
		s.state = AuthUnauthenticated
		s.token = ""
	}
	s.ready = true
}

// Reset forgets the restored state so the next Restore re-checks storage.
func (s *SessionStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = AuthUnknown
	s.token = ""
	s.ready = false
}

// Guard decides what an authenticated-only route should do.
func (s *SessionStore) Guard() GuardDecision {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case !s.ready:
		return GuardLoading
	case s.state == AuthAuthenticated:
		return GuardAllow
	default:
		return GuardRedirectLogin
	}
}

func (s *SessionStore) State() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token returns the in-memory token, if authenticated.
func (s *SessionStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.state == AuthAuthenticated
}

// Login exchanges credentials for a token, persists it and moves the visitor to
// the dashboard, where a pending return is honoured once the subscription is active.
func (s *SessionStore) Login(ctx context.Context, email, password string) (string, error) {
	if err := s.checkCredentials(email, password); err != nil {
		return "", err
	}

	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.obs.AuthAttempt("login", false)
		s.log.Info("login rejected", slogx.Err(err))
		return "", s.authError(err, s.msgs.LoginFailed)
	}

	if err := s.env.Durable().Set(ctx, KeyClientToken, token); err != nil {
		s.obs.AuthAttempt("login", false)
		s.log.Error("failed to persist session token", slogx.Err(err))
		return "", &AuthError{Message: s.msgs.LoginFailed, Err: err}
	}

	s.mu.Lock()
	s.state = AuthAuthenticated
	s.token = token
	s.ready = true
	s.mu.Unlock()

	s.obs.AuthAttempt("login", true)
	s.env.Navigate(PathDashboard)
	return token, nil
}

// Register creates the account and then logs in with the same credentials.
func (s *SessionStore) Register(ctx context.Context, email, password string) (string, error) {
	if err := s.checkCredentials(email, password); err != nil {
		return "", err
	}

	if err := s.api.Register(ctx, email, password); err != nil {
		s.obs.AuthAttempt("register", false)
		s.log.Info("registration rejected", slogx.Err(err))
		return "", s.authError(err, s.msgs.RegisterFailed)
	}
	s.obs.AuthAttempt("register", true)

	return s.Login(ctx, email, password)
}

// Logout drops the token and sends the visitor to the login page. The API is not called.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.state = AuthUnauthenticated
	s.token = ""
	s.ready = true
	s.mu.Unlock()

	err := s.env.Durable().Delete(ctx, KeyClientToken)
	if err != nil {
		s.log.Warn("failed to delete session token", slogx.Err(err))
		err = fmt.Errorf("delete session token: %w", err)
	}

	s.env.Navigate(PathLogin)
	return err
}

func (s *SessionStore) checkCredentials(email, password string) error {
	err := validate.Struct(credentials{Email: email, Password: password})
	if err == nil {
		return nil
	}
	return &ValidationError{Message: s.msgs.CredentialsInvalid, Fields: invalidFields(err)}
}

func (s *SessionStore) authError(err error, fallback string) error {
	if msg, ok := portalsdk.ServerMessage(err); ok {
		return &AuthError{Message: msg, Err: err}
	}
	return &AuthError{Message: fallback, Err: err}
}

// invalidFields lists the lower-cased struct fields a validator error names.
func invalidFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldName(fe.Field()))
	}
	return fields
}

func fieldName(f string) string {
	switch f {
	case "ProductID":
		return "product_id"
	case "Amount":
		return "amount"
	case "FileSize":
		return "proof_file"
	case "Email":
		return "email"
	case "Password":
		return "password"
	default:
		return f
	}
}
