//go:build e2e

package portal_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aussiebroadwan/payportal/internal/portal/app"
)

/*
 * Helpers for the portal end-to-end tests: a Redis container for visitor
 * storage, a stand-in payments API and the portal itself running in process.
 */

const (
	redisImage = "redis:7-alpine"

	testEmail    = "ana@example.com"
	testPassword = "secret"
	testToken    = "tok-e2e"
)

// setupRedis starts Redis in a container and returns its address.
func setupRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        redisImage,
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s", host, port.Port())
}

// paymentsAPI is a minimal stand-in for the remote payments API.
type paymentsAPI struct {
	mu     sync.Mutex
	status map[string]any
}

func (p *paymentsAPI) setStatus(s map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = s
}

func (p *paymentsAPI) start(t *testing.T) string {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email != testEmail || creds.Password != testPassword {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": testToken})
	})
	mux.HandleFunc("GET /api/v1/user/status", func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		defer p.mu.Unlock()
		_ = json.NewEncoder(w).Encode(p.status)
	})
	mux.HandleFunc("POST /api/v1/payment/submit", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

// setupPortal runs the portal against Redis and the stand-in API.
func setupPortal(t *testing.T, redisAddr, apiURL string) string {
	t.Helper()

	t.Setenv("PORTAL_API_URL", apiURL)
	t.Setenv("PORTAL_STORAGE_MODE", app.StorageRedis)
	t.Setenv("PORTAL_REDIS_ADDR", redisAddr)
	t.Setenv("PORTAL_COOKIE_SECRET", "e2e-cookie-secret")
	t.Setenv("PORTAL_REDIRECT_DELAY", "1s")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := app.LoadConfig()
	require.NoError(t, err)

	application, err := app.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func send(t *testing.T, c *http.Client, method, target, form string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, target, strings.NewReader(form))
	require.NoError(t, err)
	if form != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}
