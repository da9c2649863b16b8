package httpx

import (
	"encoding/json"
	"net/http"
	"net/url"
)

// WriteJSON writes a JSON response with the given status code.
// Responses are never cached.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the {"error": msg} envelope used by the remote API as well.
func WriteError(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, map[string]string{"error": msg})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// SeeOther redirects to path, carrying the given raw query string over.
func SeeOther(w http.ResponseWriter, r *http.Request, path, rawQuery string) {
	u := url.URL{Path: path, RawQuery: rawQuery}
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}
