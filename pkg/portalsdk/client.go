package portalsdk

import (
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the payments REST API.
// It provides access to unauthenticated operations and can create authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new API client with a 10 second request timeout.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewSession wraps an existing token in a Session.
// The token is not validated; the API decides whether it is still accepted.
func (c *SDKClient) NewSession(token string) *Session {
	return &Session{
		client: c,
		token:  token,
	}
}
