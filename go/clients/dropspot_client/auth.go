package dropspot_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/dropspot/dropspot/go/internal/models"
)

func (c *Client) Login(ctx context.Context, credentials models.AuthCredentials) (*models.AuthResponse, error) {
	return c.authRequest(ctx, AuthLoginEndpoint, credentials)
}

func (c *Client) Signup(ctx context.Context, credentials models.AuthCredentials) (*models.AuthResponse, error) {
	return c.authRequest(ctx, AuthSignupEndpoint, credentials)
}

func (c *Client) authRequest(ctx context.Context, endpoint string, credentials models.AuthCredentials) (*models.AuthResponse, error) {
	payload, err := json.Marshal(credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credentials: %w", err)
	}

	body, err := c.Post(ctx, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var response models.AuthResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auth response: %w", err)
	}

	return &response, nil
}
