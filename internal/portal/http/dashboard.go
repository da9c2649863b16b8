package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/payportal/internal/portal/domain"
	"github.com/aussiebroadwan/payportal/internal/portal/service"
	"github.com/aussiebroadwan/payportal/pkg/httpx"
	"github.com/aussiebroadwan/payportal/pkg/slogx"
)

// DefaultMaxUploadBytes caps a proof upload request.
const DefaultMaxUploadBytes = 10 << 20

// DashboardHandler serves the guarded dashboard screens. Every request mounts a
// fresh dashboard, so the status is fetched once per request.
type DashboardHandler struct {
	Visitors       *Visitors
	Pages          *Pages
	MaxUploadBytes int64
}

// mount restores the visitor and mounts the dashboard. Unauthenticated
// visitors are sent to the login page and ok is false.
func (h *DashboardHandler) mount(w http.ResponseWriter, r *http.Request) (*visit, *service.Dashboard, domain.View, *http.Request, bool) {
	vi, r, ok := h.Visitors.begin(w, r)
	if !ok {
		return nil, nil, domain.View{}, r, false
	}
	if vi.session.Guard() != service.GuardAllow {
		httpx.SeeOther(w, r, pathLogin, vi.carried())
		return nil, nil, domain.View{}, r, false
	}

	dash := h.Visitors.Portal.Dashboard(vi.env, vi.session)
	view, err := dash.Mount(r.Context(), vi.query)
	if err != nil {
		httpx.SeeOther(w, r, pathLogin, vi.carried())
		return nil, nil, domain.View{}, r, false
	}
	return vi, dash, view, r, true
}

func (h *DashboardHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	vi, dash, view, r, ok := h.mount(w, r)
	if !ok {
		return
	}
	defer dash.Unmount()

	h.Pages.Render(w, r, http.StatusOK, "dashboard", h.Pages.dashboardPage(view, "", vi.carried()))
}

// HandleRefresh is "check again": the status is fetched by the GET it redirects to.
func (h *DashboardHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	vi, r, ok := h.Visitors.begin(w, r)
	if !ok {
		return
	}
	if vi.session.Guard() != service.GuardAllow {
		httpx.SeeOther(w, r, pathLogin, vi.carried())
		return
	}
	httpx.SeeOther(w, r, pathDashboard, vi.carried())
}

// HandleProof uploads a proof of payment. A file left out of the form falls
// back to the one kept from a failed attempt.
func (h *DashboardHandler) HandleProof(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	draft, parseErr := readDraft(r, maxBytes)

	vi, dash, view, r, ok := h.mount(w, r)
	if !ok {
		return
	}
	defer dash.Unmount()

	log := slogx.FromContext(r.Context())
	msgs := h.Visitors.Portal.Messages()

	if parseErr != nil {
		log.Info("unreadable proof upload", slogx.Err(parseErr))
		code := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(parseErr, &tooLarge) {
			code = http.StatusRequestEntityTooLarge
		}
		h.Pages.Render(w, r, code, "dashboard", h.Pages.dashboardPage(view, msgs.UploadFailed, vi.carried()))
		return
	}

	if !draft.HasFile() && view.Draft.HasFile() {
		draft.File = view.Draft.File
	}

	view, err := dash.Submit(r.Context(), draft)
	switch {
	case err == nil:
		h.Pages.Render(w, r, http.StatusOK, "dashboard", h.Pages.dashboardPage(view, "", vi.carried()))
	case errors.Is(err, service.ErrRedirecting):
		httpx.SeeOther(w, r, pathDashboard, vi.carried())
	case errors.Is(err, service.ErrValidation):
		h.Pages.Render(w, r, http.StatusUnprocessableEntity, "dashboard",
			h.Pages.dashboardPage(view, service.UserMessage(err), vi.carried()))
	default:
		msg := service.UserMessage(err)
		if msg == "" {
			msg = msgs.UploadFailed
		}
		h.Pages.Render(w, r, http.StatusBadGateway, "dashboard", h.Pages.dashboardPage(view, msg, vi.carried()))
	}
}

// HandleReturn fires the pending return redirect once the page's delay has
// passed. Anything other than a Redirecting view goes back to the dashboard.
func (h *DashboardHandler) HandleReturn(w http.ResponseWriter, r *http.Request) {
	vi, dash, view, r, ok := h.mount(w, r)
	if !ok {
		return
	}
	defer dash.Unmount()

	if view.Kind != domain.ViewRedirecting {
		httpx.SeeOther(w, r, pathDashboard, vi.carried())
		return
	}
	if err := dash.CompleteRedirect(r.Context()); err != nil {
		slogx.FromContext(r.Context()).Warn("return redirect failed", slogx.Err(err))
	}
	vi.follow(w, r, pathDashboard)
}

// HandleJSON godoc
//
//	@Summary		Dashboard view
//	@Description	Computes the dashboard view for the visitor identified by the portal cookies.
//	@Description	Accepts the same pay, amount and return_url query parameters as the HTML dashboard.
//	@Tags			Dashboard
//	@Produce		json
//	@Param			pay			query		string				false	"Deep-linked product id"
//	@Param			amount		query		string				false	"Deep-linked amount"
//	@Param			return_url	query		string				false	"Where to send the visitor once active"
//	@Success		200			{object}	DashboardResponse	"Computed view"
//	@Failure		401			{object}	ErrorResponse		"No session"
//	@Router			/v1/dashboard [get].
func (h *DashboardHandler) HandleJSON(w http.ResponseWriter, r *http.Request) {
	vi, r, ok := h.Visitors.begin(w, r)
	if !ok {
		return
	}
	if vi.session.Guard() != service.GuardAllow {
		httpx.WriteError(w, http.StatusUnauthorized, service.ErrNotAuthenticated.Error())
		return
	}

	dash := h.Visitors.Portal.Dashboard(vi.env, vi.session)
	defer dash.Unmount()

	view, err := dash.Mount(r.Context(), vi.query)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toDashboardResponse(view))
}

func toDashboardResponse(v domain.View) DashboardResponse {
	resp := DashboardResponse{
		View:             v.Kind.String(),
		Forced:           v.Forced.Forced,
		ProductID:        v.Draft.ProductID,
		Amount:           v.Draft.Amount,
		HasDraftFile:     v.Draft.HasFile(),
		ShowManualFields: v.ShowManualFields,
		CanLogout:        v.CanLogout(),
		RedirectInMillis: v.RedirectIn.Milliseconds(),
		Notice:           v.Notice,
	}
	if s := v.Status; s != nil {
		resp.Status = &StatusResponse{
			SubscriptionStatus: s.SubscriptionStatus,
			DaysRemaining:      s.DaysRemaining,
			ExpirationDate:     s.ExpirationDate,
			HasPendingPayment:  s.HasPendingPayment,
			ProductID:          s.ProductID,
		}
	}
	return resp
}

// readDraft reads the payment form. A missing file is not an error here.
func readDraft(r *http.Request, maxBytes int64) (domain.UploadDraft, error) {
	if err := r.ParseMultipartForm(maxBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return domain.UploadDraft{}, err
	}

	draft := domain.UploadDraft{
		ProductID: strings.TrimSpace(r.FormValue("product_id")),
		Amount:    strings.TrimSpace(r.FormValue("amount")),
	}

	file, header, err := r.FormFile("proof_file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return draft, nil
	}
	if err != nil {
		return draft, err
	}
	defer file.Close()

	proof, err := readProof(file, header)
	if err != nil {
		return draft, err
	}
	draft.File = proof
	return draft, nil
}

func readProof(f multipart.File, h *multipart.FileHeader) (*domain.ProofFile, error) {
	data := make([]byte, h.Size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	ct := h.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return &domain.ProofFile{Name: h.Filename, ContentType: ct, Data: data}, nil
}
