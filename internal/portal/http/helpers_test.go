package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/payportal/internal/portal/service"
	"github.com/aussiebroadwan/payportal/internal/portal/store/drivers/memory"
	"github.com/aussiebroadwan/payportal/pkg/portalsdk"
	"github.com/aussiebroadwan/payportal/pkg/slogx"
)

const (
	testEmail    = "ana@example.com"
	testPassword = "secret"
	testToken    = "tok-1"
)

// fakeAPI is the remote payments API.
type fakeAPI struct {
	mu          sync.Mutex
	status      map[string]any
	submitCode  int
	statusCalls int
	submissions []submission
}

type submission struct {
	ProductID string
	Amount    string
	FileName  string
	File      []byte
}

func (f *fakeAPI) setStatus(s map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = s
}

func (f *fakeAPI) setSubmitCode(code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitCode = code
}

func (f *fakeAPI) snapshot() (int, []submission) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusCalls, append([]submission(nil), f.submissions...)
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds portalsdk.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email != testEmail || creds.Password != testPassword {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": testToken})
	})

	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		var creds portalsdk.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email == "taken@example.com" {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "email already registered"})
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	mux.HandleFunc("GET /api/v1/user/status", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.statusCalls++
		status := f.status
		f.mu.Unlock()

		if r.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(status)
	})

	mux.HandleFunc("POST /api/v1/payment/submit", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		sub := submission{
			ProductID: r.FormValue("product_id"),
			Amount:    r.FormValue("amount"),
		}
		if file, header, err := r.FormFile("proof_file"); err == nil {
			sub.FileName = header.Filename
			sub.File, _ = io.ReadAll(file)
			_ = file.Close()
		}

		f.mu.Lock()
		code := f.submitCode
		f.submissions = append(f.submissions, sub)
		f.mu.Unlock()

		if code == 0 {
			code = http.StatusOK
		}
		w.WriteHeader(code)
		if code >= 400 {
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "storage offline"})
		}
	})

	return mux
}

type testPortal struct {
	api    *fakeAPI
	clock  *testClock
	server *httptest.Server
	client *http.Client
}

// testClock drives storage expiry. It is read from server goroutines.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var tabPattern = regexp.MustCompile(`tab=([0-9A-Z]{26})`)

// tabOf returns the tab id carried by a rendered page or a redirect target.
func tabOf(t *testing.T, s string) string {
	t.Helper()
	m := tabPattern.FindStringSubmatch(s)
	require.NotNil(t, m, "no tab id in %q", s)
	return m[1]
}

func inactiveStatus() map[string]any {
	return map[string]any{"subscription_status": "INACTIVE", "product_id": "not_set"}
}

func activeStatus() map[string]any {
	return map[string]any{
		"subscription_status": "ACTIVE",
		"days_remaining":      12,
		"expiration_date":     "2026-11-01",
		"product_id":          "premium_v1",
	}
}

func pendingStatus() map[string]any {
	return map[string]any{
		"subscription_status": "INACTIVE",
		"has_pending_payment": true,
		"product_id":          "premium_v1",
	}
}

func newTestPortal(t *testing.T) *testPortal {
	t.Helper()

	api := &fakeAPI{status: inactiveStatus()}
	apiSrv := httptest.NewServer(api.handler())
	t.Cleanup(apiSrv.Close)

	logger := slogx.Discard()
	clock := &testClock{now: time.Now()}
	st := memory.NewStore(clock.Now)

	portal := service.New(service.Config{
		API:           service.SDKAPI{Client: portalsdk.NewSDKClient(apiSrv.URL)},
		Logger:        logger,
		RedirectDelay: 2 * time.Second,
	})

	pages, err := NewPages("es", BankDetails{Bank: "Banco Uno", Holder: "Ana Pérez", Account: "4526079531"})
	require.NoError(t, err)

	router := NewRouter("test", st, logger)
	router.Visitors = &Visitors{
		Portal:    portal,
		Store:     st,
		Cookies:   NewCookies(CookieConfig{Key: []byte("0123456789abcdef0123456789abcdef")}),
		DeviceTTL: time.Hour,
		TabTTL:    time.Hour,
	}
	router.Pages = pages
	router.MaxUploadBytes = 1 << 20
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testPortal{
		api:    api,
		clock:  clock,
		server: srv,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type result struct {
	Code     int
	Location string
	Body     string
	Header   http.Header
}

func (p *testPortal) do(t *testing.T, req *http.Request) result {
	t.Helper()

	resp, err := p.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return result{
		Code:     resp.StatusCode,
		Location: resp.Header.Get("Location"),
		Body:     string(body),
		Header:   resp.Header,
	}
}

func (p *testPortal) get(t *testing.T, target string) result {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, p.server.URL+target, nil)
	require.NoError(t, err)
	return p.do(t, req)
}

func (p *testPortal) postForm(t *testing.T, target string, form url.Values) result {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, p.server.URL+target, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return p.do(t, req)
}

func (p *testPortal) postProof(t *testing.T, target string, fields map[string]string, file []byte) result {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile("proof_file", "receipt.png")
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, p.server.URL+target, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return p.do(t, req)
}

func (p *testPortal) login(t *testing.T) {
	t.Helper()
	res := p.postForm(t, "/login", url.Values{"email": {testEmail}, "password": {testPassword}})
	require.Equal(t, http.StatusSeeOther, res.Code)
	require.Equal(t, "/dashboard", res.Location)
}

// otherBrowser shares the portal but starts with an empty cookie jar.
func (p *testPortal) otherBrowser(t *testing.T) *testPortal {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	other := *p
	other.client = &http.Client{Jar: jar, CheckRedirect: p.client.CheckRedirect}
	return &other
}
