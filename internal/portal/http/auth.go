package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/payportal/internal/portal/service"
	"github.com/aussiebroadwan/payportal/pkg/slogx"
)

// AuthHandler serves the login, registration and logout screens.
type AuthHandler struct {
	Visitors *Visitors
	Pages    *Pages
}

func (h *AuthHandler) HandleLoginGet(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, "login")
}

func (h *AuthHandler) HandleRegisterGet(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, "register")
}

func (h *AuthHandler) show(w http.ResponseWriter, r *http.Request, page string) {
	vi, r, ok := h.Visitors.begin(w, r)
	if !ok {
		return
	}
	if vi.session.Guard() == service.GuardAllow {
		vi.follow(w, r, pathDashboard)
		return
	}
	h.Pages.Render(w, r, http.StatusOK, page, h.Pages.authPage("", "", vi.carried()))
}

func (h *AuthHandler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, "login", (*service.SessionStore).Login)
}

func (h *AuthHandler) HandleRegisterPost(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, "register", (*service.SessionStore).Register)
}

type credentialAction func(*service.SessionStore, context.Context, string, string) (string, error)

func (h *AuthHandler) submit(w http.ResponseWriter, r *http.Request, page string, action credentialAction) {
	vi, r, ok := h.Visitors.begin(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.Pages.Render(w, r, http.StatusBadRequest, page,
			h.Pages.authPage(h.Visitors.Portal.Messages().CredentialsInvalid, "", vi.carried()))
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")

	if _, err := action(vi.session, r.Context(), email, password); err != nil {
		code := http.StatusUnauthorized
		if errors.Is(err, service.ErrValidation) {
			code = http.StatusUnprocessableEntity
		}
		msg := service.UserMessage(err)
		if msg == "" {
			slogx.FromContext(r.Context()).Error("credential action failed", slogx.Err(err))
			msg = h.Visitors.Portal.Messages().LoginFailed
		}
		h.Pages.Render(w, r, code, page, h.Pages.authPage(msg, email, vi.carried()))
		return
	}

	vi.follow(w, r, pathDashboard)
}

// HandleLogout drops the session and the tab's upload draft. The API is not told.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	vi, r, ok := h.Visitors.begin(w, r)
	if !ok {
		return
	}

	dash := h.Visitors.Portal.Dashboard(vi.env, vi.session)
	if err := dash.Logout(r.Context()); err != nil {
		slogx.FromContext(r.Context()).Warn("logout incomplete", slogx.Err(err))
	}
	vi.follow(w, r, pathLogin)
}
