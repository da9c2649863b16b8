package http

import (
	"context"
	"sync"
	"time"

	"github.com/aussiebroadwan/payportal/internal/portal/service"
	"github.com/aussiebroadwan/payportal/internal/portal/store"
	"github.com/aussiebroadwan/payportal/pkg/idx"
)

// TabParam is the query parameter carrying a browser tab's id between requests.
const TabParam = "tab"

// webEnv is the service.Env of a single request. Navigation is recorded and
// turned into a redirect once the handler is done. Timers never fire in
// process: the page renders a meta refresh for the recorded delay instead.
type webEnv struct {
	durable store.Bucket
	tab     *tabStorage

	mu     sync.Mutex
	target string
	delay  time.Duration
}

var _ service.Env = (*webEnv)(nil)

func newWebEnv(st store.Store, deviceID, tabID string, deviceTTL, tabTTL time.Duration) *webEnv {
	return &webEnv{
		durable: store.Bucket{Store: st, Namespace: store.DeviceNamespace(deviceID), TTL: deviceTTL},
		tab:     &tabStorage{st: st, deviceID: deviceID, ttl: tabTTL, id: tabID},
	}
}

func (e *webEnv) Durable() service.Storage { return e.durable }
func (e *webEnv) Tab() service.Storage     { return e.tab }

func (e *webEnv) Navigate(target string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.target = target
}

func (e *webEnv) AfterFunc(d time.Duration, _ func()) func() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.delay = d
	return func() bool { return false }
}

// navigation returns the last Navigate target, if any.
func (e *webEnv) navigation() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.target, e.target != ""
}

// tabStorage is the storage of one browser tab. Cookies are shared by every
// tab of a browser, so the tab id travels in the query instead. A tab gets
// its id on the first write; until then it has nothing stored.
type tabStorage struct {
	st       store.Store
	deviceID string
	ttl      time.Duration

	mu sync.Mutex
	id string
}

// ID returns the tab id, or "" while the tab has never stored anything.
func (t *tabStorage) ID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.id
}

func (t *tabStorage) bucket(id string) store.Bucket {
	return store.Bucket{Store: t.st, Namespace: store.TabNamespace(t.deviceID, id), TTL: t.ttl}
}

func (t *tabStorage) Get(ctx context.Context, key string) (string, bool, error) {
	id := t.ID()
	if id == "" {
		return "", false, nil
	}
	return t.bucket(id).Get(ctx, key)
}

func (t *tabStorage) Set(ctx context.Context, key, value string) error {
	t.mu.Lock()
	if t.id == "" {
		t.id = idx.New().String()
	}
	id := t.id
	t.mu.Unlock()

	return t.bucket(id).Set(ctx, key, value)
}

func (t *tabStorage) Delete(ctx context.Context, key string) error {
	id := t.ID()
	if id == "" {
		return nil
	}
	return t.bucket(id).Delete(ctx, key)
}
