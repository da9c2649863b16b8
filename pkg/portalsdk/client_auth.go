package portalsdk

import (
	"context"
	"fmt"
	"net/http"
)

// Login exchanges credentials for a bearer token.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body, headers, err := jsonBody(Credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/login", body, headers)
	if err != nil {
		return nil, err
	}

	var login LoginResponse
	if err := decodeJSON(resp, &login); err != nil {
		return nil, err
	}

	if login.Token == "" {
		return nil, fmt.Errorf("login response did not include a token")
	}

	return &login, nil
}

// Register creates a new account. It does not log the user in.
func (c *SDKClient) Register(ctx context.Context, email, password string) error {
	body, headers, err := jsonBody(Credentials{Email: email, Password: password})
	if err != nil {
		return err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/register", body, headers)
	if err != nil {
		return err
	}

	return checkStatus(resp)
}
