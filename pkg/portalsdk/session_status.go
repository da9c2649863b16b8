package portalsdk

import (
	"context"
	"net/http"
)

// GetStatus returns the user's current subscription and payment status.
// Users without a subscription record get an *APIError with status 404.
func (s *Session) GetStatus(ctx context.Context) (*StatusResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/api/v1/user/status", nil, nil)
	if err != nil {
		return nil, err
	}

	var status StatusResponse
	if err := decodeJSON(resp, &status); err != nil {
		return nil, err
	}

	return &status, nil
}
