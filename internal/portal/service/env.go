package service

import (
	"context"
	"time"
)

// Storage keys shared by every Env implementation.
const (
	KeyClientToken = "client_token" // durable
	KeyReturnURL   = "return_url"   // tab
	KeyUploadDraft = "upload_draft" // tab
)

// Storage is a string key/value bucket belonging to one visitor.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Env is everything the portal needs from the outside world: where to keep
// visitor state, how to move the visitor elsewhere and how to wait.
type Env interface {
	// Durable storage survives restarts of the visitor's client.
	Durable() Storage
	// Tab storage is scoped to one browsing context and dies with it.
	Tab() Storage

	Navigate(target string)

	// AfterFunc schedules f once after d. The returned stop reports whether it
	// prevented f from running.
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}
