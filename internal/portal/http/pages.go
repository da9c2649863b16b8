package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/payportal/internal/portal/domain"
	"github.com/aussiebroadwan/payportal/pkg/httpx"
	"github.com/aussiebroadwan/payportal/pkg/slogx"
)

//go:embed templates/*.html
var templateFS embed.FS

// BankDetails is the transfer destination shown next to the payment form.
type BankDetails struct {
	Bank    string
	Holder  string
	Account string
}

// Labels is the static copy of the pages.
type Labels struct {
	Lang            string
	Loading         string
	LoginTitle      string
	RegisterTitle   string
	RegisterTagline string
	Email           string
	Password        string
	PasswordHint    string
	LoginButton     string
	RegisterButton  string
	NoAccount       string
	HaveAccount     string
	Logout          string
	HeadingPayment  string
	HeadingAccount  string
	Status          string
	DaysRemaining   string
	Expires         string
	Active          string
	Pending         string
	CheckAgain      string
	Redirecting     string
	ContinueNow     string
	BankTitle       string
	BankName        string
	BankHolder      string
	BankAccount     string
	AmountToPay     string
	Product         string
	Amount          string
	Proof           string
	ProofKept       string
	Send            string
}

var labelCatalog = map[string]Labels{
	"es": {
		Lang:            "es",
		Loading:         "Cargando...",
		LoginTitle:      "Iniciar sesión",
		RegisterTitle:   "Crea tu cuenta",
		RegisterTagline: "Comienza a usar nuestros servicios hoy",
		Email:           "Correo Electrónico",
		Password:        "Contraseña",
		PasswordHint:    "Mínimo 8 caracteres",
		LoginButton:     "Ingresar",
		RegisterButton:  "Registrarme",
		NoAccount:       "¿No tienes cuenta?",
		HaveAccount:     "¿Ya tienes cuenta?",
		Logout:          "Salir",
		HeadingPayment:  "Completar Pago",
		HeadingAccount:  "Mi Cuenta",
		Status:          "Estado",
		DaysRemaining:   "Días restantes",
		Expires:         "Vence",
		Active:          "Tu suscripción está activa.",
		Pending:         "Tu pago está en revisión.",
		CheckAgain:      "Verificar de nuevo",
		Redirecting:     "Suscripción activa. Redirigiendo...",
		ContinueNow:     "Continuar",
		BankTitle:       "DATOS PARA TRANSFERENCIA",
		BankName:        "Banco",
		BankHolder:      "A nombre de",
		BankAccount:     "Número de Cuenta",
		AmountToPay:     "Monto a Transferir",
		Product:         "Producto",
		Amount:          "Monto (Q)",
		Proof:           "Comprobante",
		ProofKept:       "Se reenviará el archivo anterior",
		Send:            "CONFIRMAR PAGO",
	},
	"en": {
		Lang:            "en",
		Loading:         "Loading...",
		LoginTitle:      "Sign in",
		RegisterTitle:   "Create your account",
		RegisterTagline: "Start using our services today",
		Email:           "Email",
		Password:        "Password",
		PasswordHint:    "At least 8 characters",
		LoginButton:     "Sign in",
		RegisterButton:  "Register",
		NoAccount:       "No account yet?",
		HaveAccount:     "Already have an account?",
		Logout:          "Log out",
		HeadingPayment:  "Complete payment",
		HeadingAccount:  "My account",
		Status:          "Status",
		DaysRemaining:   "Days remaining",
		Expires:         "Expires",
		Active:          "Your subscription is active.",
		Pending:         "Your payment is being reviewed.",
		CheckAgain:      "Check again",
		Redirecting:     "Subscription active. Redirecting...",
		ContinueNow:     "Continue",
		BankTitle:       "TRANSFER DETAILS",
		BankName:        "Bank",
		BankHolder:      "Account holder",
		BankAccount:     "Account number",
		AmountToPay:     "Amount to transfer",
		Product:         "Product",
		Amount:          "Amount",
		Proof:           "Proof of transfer",
		ProofKept:       "The previous file will be sent again",
		Send:            "CONFIRM PAYMENT",
	},
}

// LabelsFor returns the page copy for locale, defaulting to Spanish.
func LabelsFor(locale string) Labels {
	lang, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(locale)), "-")
	if l, ok := labelCatalog[lang]; ok {
		return l
	}
	return labelCatalog["es"]
}

// Pages renders the HTML screens.
type Pages struct {
	templates map[string]*template.Template
	labels    Labels
	bank      BankDetails
}

var pageNames = []string{"login", "register", "dashboard"}

func NewPages(locale string, bank BankDetails) (*Pages, error) {
	p := &Pages{
		templates: make(map[string]*template.Template, len(pageNames)),
		labels:    LabelsFor(locale),
		bank:      bank,
	}
	for _, name := range pageNames {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		p.templates[name] = t
	}
	return p, nil
}

// Query fields hold the carried pay/amount query, already encoded by url.Values.
type authPage struct {
	L     Labels
	Error string
	Email string
	Query template.URL
}

type dashboardPage struct {
	L       Labels
	Error   string
	Query   template.URL
	Bank    BankDetails
	View    domain.View
	Heading string

	// RefreshSeconds drives the meta refresh to ReturnURL while Redirecting.
	RefreshSeconds int
	ReturnURL      string
}

func (p *Pages) authPage(errMsg, email, query string) authPage {
	return authPage{L: p.labels, Error: errMsg, Email: email, Query: template.URL(query)}
}

func (p *Pages) dashboardPage(view domain.View, errMsg, query string) dashboardPage {
	d := dashboardPage{
		L:       p.labels,
		Error:   errMsg,
		Query:   template.URL(query),
		Bank:    p.bank,
		View:    view,
		Heading: p.labels.HeadingAccount,
	}
	if view.Forced.Forced {
		d.Heading = p.labels.HeadingPayment
	}
	if view.Kind == domain.ViewRedirecting {
		d.RefreshSeconds = int(math.Ceil(view.RedirectIn.Seconds()))
		d.ReturnURL = withQuery(pathReturn, query)
	}
	return d
}

// Render executes the named page into a buffer first so a template error
// never leaves a half-written response.
func (p *Pages) Render(w http.ResponseWriter, r *http.Request, code int, name string, data any) {
	t, ok := p.templates[name]
	if !ok {
		httpx.WriteError(w, http.StatusInternalServerError, "unknown page")
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		slogx.FromContext(r.Context()).Error("failed to render page",
			slog.String("page", name),
			slogx.Err(err),
		)
		httpx.WriteError(w, http.StatusInternalServerError, "render failed")
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

func withQuery(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}
	return path + "?" + rawQuery
}

