// Package memory is an in-process store.Store, used by tests and by the
// terminal client for tab-scoped state.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aussiebroadwan/payportal/internal/portal/store"
)

type entry struct {
	value     string
	expiresAt time.Time // zero means never
}

type Store struct {
	mu   sync.Mutex
	data map[string]map[string]entry
	now  func() time.Time
}

// NewStore returns an empty store. now defaults to time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{data: map[string]map[string]entry{}, now: now}
}

func (s *Store) Get(_ context.Context, namespace, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[namespace][key]
	if !ok || s.expired(e) {
		return "", store.ErrNotFound
	}
	return e.value, nil
}

func (s *Store) Put(_ context.Context, namespace, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.data[namespace]
	if !ok {
		ns = map[string]entry{}
		s.data[namespace] = ns
	}

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	ns[key] = e
	return nil
}

func (s *Store) Delete(_ context.Context, namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data[namespace], key)
	if len(s.data[namespace]) == 0 {
		delete(s.data, namespace)
	}
	return nil
}

func (s *Store) DeleteExpired(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for nsName, ns := range s.data {
		for k, e := range ns {
			if s.expired(e) {
				delete(ns, k)
				n++
			}
		}
		if len(ns) == 0 {
			delete(s.data, nsName)
		}
	}
	return n, nil
}

func (s *Store) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}

func (s *Store) ApplyMigrations() error     { return nil }
func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }
