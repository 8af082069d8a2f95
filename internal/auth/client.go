package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client handles communication with the auth verification service. The
// service owns user accounts and credentials; this system only forwards
// bearer tokens to it.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new auth client
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// VerifyResponse matches the service struct
type VerifyResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// Verify calls GET /verify with the bearer token and returns the resolved
// user. Any transport failure, non-200 status, or invalid verdict is an
// error; the caller treats all of them as an unauthorized credential.
func (c *Client) Verify(ctx context.Context, token string) (*VerifyResponse, error) {
	url := c.BaseURL + "/verify"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	r, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer r.Body.Close()

	if r.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status: %d", r.StatusCode)
	}

	var resp VerifyResponse
	if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decoding error: %w", err)
	}
	if !resp.Valid {
		return nil, fmt.Errorf("token rejected")
	}

	return &resp, nil
}
