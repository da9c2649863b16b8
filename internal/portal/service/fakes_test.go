package service

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/aussiebroadwan/payportal/internal/portal/domain"
	"github.com/aussiebroadwan/payportal/pkg/portalsdk"
	"github.com/aussiebroadwan/payportal/pkg/slogx"
)

type memStorage struct {
	mu sync.Mutex
	m  map[string]string
}

func newMemStorage() *memStorage { return &memStorage{m: map[string]string{}} }

func (s *memStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *memStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

type fakeTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

type fakeEnv struct {
	durable *memStorage
	tab     *memStorage

	mu     sync.Mutex
	navs   []string
	timers []*fakeTimer
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{durable: newMemStorage(), tab: newMemStorage()}
}

func (e *fakeEnv) Durable() Storage { return e.durable }
func (e *fakeEnv) Tab() Storage     { return e.tab }

func (e *fakeEnv) Navigate(target string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.navs = append(e.navs, target)
}

func (e *fakeEnv) AfterFunc(d time.Duration, f func()) func() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := &fakeTimer{delay: d, f: f}
	e.timers = append(e.timers, t)
	return func() bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		if t.stopped || t.fired {
			return false
		}
		t.stopped = true
		return true
	}
}

// fire runs every timer that is neither stopped nor fired.
func (e *fakeEnv) fire() {
	e.mu.Lock()
	var due []*fakeTimer
	for _, t := range e.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	e.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func (e *fakeEnv) navigations() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.navs...)
}

func (e *fakeEnv) activeTimers() []*fakeTimer {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*fakeTimer
	for _, t := range e.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

type submission struct {
	token string
	req   portalsdk.SubmitPaymentRequest
	body  []byte
}

type fakeAPI struct {
	mu sync.Mutex

	loginToken  string
	loginErr    error
	registerErr error
	status      *portalsdk.StatusResponse
	statusErr   error
	submitErr   error

	// onStatus runs inside Status before it returns.
	onStatus func()

	logins      int
	registers   int
	statusCalls int
	submissions []submission
}

func (a *fakeAPI) Login(_ context.Context, _, _ string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logins++
	if a.loginErr != nil {
		return "", a.loginErr
	}
	return a.loginToken, nil
}

func (a *fakeAPI) Register(_ context.Context, _, _ string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.registers++
	return a.registerErr
}

func (a *fakeAPI) Status(_ context.Context, _ string) (*portalsdk.StatusResponse, error) {
	a.mu.Lock()
	a.statusCalls++
	hook := a.onStatus
	status, err := a.status, a.statusErr
	a.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, &portalsdk.APIError{StatusCode: 404}
	}
	cp := *status
	return &cp, nil
}

func (a *fakeAPI) SubmitProof(_ context.Context, token string, req portalsdk.SubmitPaymentRequest) error {
	body, _ := io.ReadAll(req.File)
	a.mu.Lock()
	defer a.mu.Unlock()
	req.File = bytes.NewReader(body)
	a.submissions = append(a.submissions, submission{token: token, req: req, body: body})
	return a.submitErr
}

func (a *fakeAPI) setStatus(s *portalsdk.StatusResponse) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = s
}

func (a *fakeAPI) counts() (status, submits int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.statusCalls, len(a.submissions)
}

type recordingObserver struct {
	mu        sync.Mutex
	views     []domain.ViewKind
	redirects int
}

func (o *recordingObserver) AuthAttempt(string, bool) {}
func (o *recordingObserver) StatusFetched(bool)       {}
func (o *recordingObserver) ProofSubmitted(string)    {}

func (o *recordingObserver) ViewComputed(k domain.ViewKind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.views = append(o.views, k)
}

func (o *recordingObserver) ReturnRedirect() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.redirects++
}

func newTestPortal(api *fakeAPI) *Portal {
	return New(Config{API: api, Logger: slogx.Discard()})
}

func active() *portalsdk.StatusResponse {
	days := 12
	return &portalsdk.StatusResponse{
		SubscriptionStatus: "ACTIVE",
		DaysRemaining:      &days,
		ExpirationDate:     "2026-12-31",
		ProductID:          "premium_v1",
	}
}

func proof() *domain.ProofFile {
	return &domain.ProofFile{Name: "transfer.png", ContentType: "image/png", Data: []byte("\x89PNG fake")}
}
