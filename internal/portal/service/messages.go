package service

import "strings"

// Messages is the visitor-facing copy for one locale.
type Messages struct {
	LoginFailed        string
	RegisterFailed     string
	CredentialsInvalid string
	ProofMissing       string
	UploadFailed       string
	UploadSent         string
}

var catalog = map[string]Messages{
	"es": {
		LoginFailed:        "Error al iniciar sesión",
		RegisterFailed:     "Error al registrarse",
		CredentialsInvalid: "Ingresa un correo válido y tu contraseña.",
		ProofMissing:       "Falta el comprobante o datos del pago.",
		UploadFailed:       "Error al subir el comprobante.",
		UploadSent:         "¡Comprobante enviado! Validando pago...",
	},
	"en": {
		LoginFailed:        "Could not sign in",
		RegisterFailed:     "Could not register",
		CredentialsInvalid: "Enter a valid email and your password.",
		ProofMissing:       "The proof or payment details are missing.",
		UploadFailed:       "Could not upload the proof.",
		UploadSent:         "Proof sent! Validating payment...",
	},
}

// DefaultLocale is used for unknown or empty locales.
const DefaultLocale = "es"

// MessagesFor returns the catalog entry for locale ("es", "en", "en-AU", ...).
func MessagesFor(locale string) Messages {
	lang, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(locale)), "-")
	if m, ok := catalog[lang]; ok {
		return m
	}
	return catalog[DefaultLocale]
}
