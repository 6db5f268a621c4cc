// Package invite accepts invitation links against the onboarding endpoint.
package invite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Client posts invitation acceptances. The endpoint answers only with a
// status code; there is no response body contract.
type Client struct {
	acceptURL string
	client    *http.Client
	logger    *zap.Logger
}

// New creates a client for the given acceptance URL.
func New(acceptURL string, logger *zap.Logger) *Client {
	return &Client{
		acceptURL: acceptURL,
		client:    &http.Client{},
		logger:    logger,
	}
}

type acceptRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Accept redeems an invitation token, setting the new account's password.
func (c *Client) Accept(ctx context.Context, token, password string) error {
	body, err := json.Marshal(acceptRequest{Token: token, Password: password})
	if err != nil {
		return fmt.Errorf("encode acceptance: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.acceptURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build acceptance request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("invitation endpoint unreachable", zap.Error(err))
		return fmt.Errorf("post acceptance: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("invitation endpoint returned %d", resp.StatusCode)
	}
	return nil
}
