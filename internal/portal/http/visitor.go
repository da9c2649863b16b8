package http

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/payportal/internal/portal/service"
	"github.com/aussiebroadwan/payportal/internal/portal/store"
	"github.com/aussiebroadwan/payportal/pkg/httpx"
	"github.com/aussiebroadwan/payportal/pkg/idx"
	"github.com/aussiebroadwan/payportal/pkg/slogx"
)

const (
	pathLogin     = service.PathLogin
	pathRegister  = "/register"
	pathDashboard = service.PathDashboard
	pathRefresh   = "/dashboard/refresh"
	pathReturn    = "/dashboard/return"
)

// Visitors binds requests to per-visitor storage and session state.
type Visitors struct {
	Portal    *service.Portal
	Store     store.Store
	Cookies   *Cookies
	DeviceTTL time.Duration
	TabTTL    time.Duration
}

type visit struct {
	env     *webEnv
	session *service.SessionStore
	query   url.Values
}

// begin resolves the device cookie and the tab id, then restores the
// session. It captures return_url from the query on every request. The
// returned request carries a logger tagged with the visitor ids.
func (v *Visitors) begin(w http.ResponseWriter, r *http.Request) (*visit, *http.Request, bool) {
	deviceID, err := v.Cookies.Visitor(w, r)
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to issue visitor cookie", slogx.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return nil, r, false
	}

	query := r.URL.Query()
	var tabID string
	if id, err := idx.Parse(query.Get(TabParam)); err == nil {
		tabID = id.String()
	}
	r = r.WithContext(slogx.With(r.Context(), "device_id", deviceID, "tab_id", tabID))

	env := newWebEnv(v.Store, deviceID, tabID, v.DeviceTTL, v.TabTTL)
	session := v.Portal.Session(env)
	session.Restore(r.Context(), query)

	return &visit{env: env, session: session, query: query}, r, true
}

// carried is the part of the query that follows the visitor between portal
// pages: the deep-linked product and amount, and the tab id once the tab
// holds state.
func (vi *visit) carried() string {
	keep := url.Values{}
	for _, k := range []string{"pay", "amount"} {
		if val := vi.query.Get(k); val != "" {
			keep.Set(k, val)
		}
	}
	if id := vi.env.tab.ID(); id != "" {
		keep.Set(TabParam, id)
	}
	return keep.Encode()
}

// follow redirects to wherever the portal navigated, or to fallback.
func (vi *visit) follow(w http.ResponseWriter, r *http.Request, fallback string) {
	target, ok := vi.env.navigation()
	if !ok {
		target = fallback
	}
	if strings.HasPrefix(target, "/") {
		httpx.SeeOther(w, r, target, vi.carried())
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// FallbackHandler sends every unmatched path to the dashboard, keeping the
// whole query so a deep link survives the hop.
func FallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.SeeOther(w, r, pathDashboard, r.URL.RawQuery)
	}
}
