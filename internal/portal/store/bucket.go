package store

import (
	"context"
	"errors"
	"time"
)

// Bucket is one namespace of a Store seen as a flat string map. Every write
// pushes the entry's expiry TTL into the future.
type Bucket struct {
	Store     Store
	Namespace string
	TTL       time.Duration
}

func (b Bucket) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := b.Store.Get(ctx, b.Namespace, key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (b Bucket) Set(ctx context.Context, key, value string) error {
	return b.Store.Put(ctx, b.Namespace, key, value, b.TTL)
}

func (b Bucket) Delete(ctx context.Context, key string) error {
	return b.Store.Delete(ctx, b.Namespace, key)
}
