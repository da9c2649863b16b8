package store

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("store: not found")

// Store keeps per-visitor key/value pairs grouped by namespace. Every entry
// carries its own expiry; expired entries read as ErrNotFound even before
// DeleteExpired has removed them.
//
// Concrete drivers (sqlite, redis, memory) implement this.
type Store interface {
	// Get returns ErrNotFound for missing or expired entries.
	Get(ctx context.Context, namespace, key string) (string, error)

	// Put inserts or replaces an entry. A ttl <= 0 never expires.
	Put(ctx context.Context, namespace, key, value string, ttl time.Duration) error

	// Delete removes an entry. Deleting a missing entry is not an error.
	Delete(ctx context.Context, namespace, key string) error

	// DeleteExpired purges expired entries and reports how many went.
	// Drivers with native expiry return 0.
	DeleteExpired(ctx context.Context) (int64, error)

	ApplyMigrations() error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// Namespace prefixes.
const (
	DevicePrefix = "device:"
	TabPrefix    = "tab:"
)

func DeviceNamespace(id string) string { return DevicePrefix + id }

// TabNamespace is bound to the device as well, so a tab id seen in a URL is
// useless from another browser.
func TabNamespace(deviceID, tabID string) string { return TabPrefix + deviceID + ":" + tabID }
