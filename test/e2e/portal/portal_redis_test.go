//go:build e2e

package portal_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/payportal/internal/portal/store"
	"github.com/aussiebroadwan/payportal/internal/portal/store/drivers/redis"
)

// TestRedisStore exercises the Redis driver against a real server.
func TestRedisStore(t *testing.T) {
	addr := setupRedis(t)
	ctx := context.Background()

	st, err := redis.NewStore(ctx, redis.Options{Addr: addr, KeyPrefix: "e2e"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.Ping(ctx))
	require.NoError(t, st.ApplyMigrations())

	_, err = st.Get(ctx, "device:a", "client_token")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, st.Put(ctx, "device:a", "client_token", "tok", 0))
	v, err := st.Get(ctx, "device:a", "client_token")
	require.NoError(t, err)
	require.Equal(t, "tok", v)

	// Namespaces do not leak into each other.
	_, err = st.Get(ctx, "device:b", "client_token")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, st.Delete(ctx, "device:a", "client_token"))
	_, err = st.Get(ctx, "device:a", "client_token")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, st.Put(ctx, "tab:a", "return_url", "https://x", time.Second))
	require.Eventually(t, func() bool {
		_, err := st.Get(ctx, "tab:a", "return_url")
		return err != nil
	}, 5*time.Second, 100*time.Millisecond)

	n, err := st.DeleteExpired(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

// TestPortalFlowOnRedis walks a visitor from a deep link to the return redirect.
func TestPortalFlowOnRedis(t *testing.T) {
	redisAddr := setupRedis(t)
	api := &paymentsAPI{status: map[string]any{"subscription_status": "INACTIVE", "product_id": "not_set"}}
	base := setupPortal(t, redisAddr, api.start(t))
	browser := newBrowser(t)

	entry := "/?pay=premium&amount=150&return_url=" + url.QueryEscape("https://app.example.com/cb")

	resp := send(t, browser, http.MethodGet, base+entry, "")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Location"), "/dashboard?")

	resp = send(t, browser, http.MethodGet, base+resp.Header.Get("Location"), "")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login?amount=150&pay=premium", resp.Header.Get("Location"))

	form := url.Values{"email": {testEmail}, "password": {testPassword}}.Encode()
	resp = send(t, browser, http.MethodPost, base+"/login?amount=150&pay=premium", form)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dashboard?amount=150&pay=premium", resp.Header.Get("Location"))

	resp = send(t, browser, http.MethodGet, base+"/dashboard?amount=150&pay=premium", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Payment approved upstream.
	api.setStatus(map[string]any{"subscription_status": "ACTIVE", "product_id": "premium", "days_remaining": 30})

	resp = send(t, browser, http.MethodGet, base+"/dashboard/return", "")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "https://app.example.com/cb?token=tok-e2e", resp.Header.Get("Location"))

	resp = send(t, browser, http.MethodGet, base+"/readyz", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
