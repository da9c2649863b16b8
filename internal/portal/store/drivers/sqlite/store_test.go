package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/payportal/internal/portal/store"
)

func newTestStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.WithClock(func() time.Time { return now })
	return s, &now
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))

	v, dirty, err := s.SchemaVersion()
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(1), v)
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.Get(ctx, "device:a", "client_token")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Put(ctx, "device:a", "client_token", "T1", time.Hour))
	require.NoError(t, s.Put(ctx, "device:a", "client_token", "T2", time.Hour))
	require.NoError(t, s.Put(ctx, "device:b", "client_token", "other", time.Hour))

	v, err := s.Get(ctx, "device:a", "client_token")
	require.NoError(t, err)
	require.Equal(t, "T2", v)

	require.NoError(t, s.Delete(ctx, "device:a", "client_token"))
	_, err = s.Get(ctx, "device:a", "client_token")
	require.ErrorIs(t, err, store.ErrNotFound)

	v, err = s.Get(ctx, "device:b", "client_token")
	require.NoError(t, err)
	require.Equal(t, "other", v)
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	s, now := newTestStore(t)

	require.NoError(t, s.Put(ctx, "tab:1", "return_url", "https://a.example", time.Minute))
	require.NoError(t, s.Put(ctx, "tab:1", "pinned", "x", 0))

	*now = now.Add(time.Minute)

	_, err := s.Get(ctx, "tab:1", "return_url")
	require.ErrorIs(t, err, store.ErrNotFound, "expired rows read as missing")

	n, err := s.DeleteExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	v, err := s.Get(ctx, "tab:1", "pinned")
	require.NoError(t, err)
	require.Equal(t, "x", v)
}
