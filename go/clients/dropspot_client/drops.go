package dropspot_client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dropspot/dropspot/go/internal/models"
)

func (c *Client) ListDrops(ctx context.Context) ([]models.Drop, error) {
	body, err := c.Get(ctx, DropsEndpoint)
	if err != nil {
		return nil, err
	}

	var drops []models.Drop
	if err := json.Unmarshal(body, &drops); err != nil {
		return nil, fmt.Errorf("failed to unmarshal drops: %w", err)
	}

	return drops, nil
}

func (c *Client) JoinWaitlist(ctx context.Context, dropID int) (*models.WaitlistJoinResponse, error) {
	endpoint := fmt.Sprintf("%s/%d/join", DropsEndpoint, dropID)
	body, err := c.Post(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var response models.WaitlistJoinResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal join response: %w", err)
	}

	return &response, nil
}

func (c *Client) LeaveWaitlist(ctx context.Context, dropID int) (*models.WaitlistLeaveResponse, error) {
	endpoint := fmt.Sprintf("%s/%d/leave", DropsEndpoint, dropID)
	body, err := c.Post(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var response models.WaitlistLeaveResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal leave response: %w", err)
	}

	return &response, nil
}

func (c *Client) ClaimDrop(ctx context.Context, dropID int) (*models.ClaimResponse, error) {
	endpoint := fmt.Sprintf("%s/%d/claim", DropsEndpoint, dropID)
	body, err := c.Post(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var response models.ClaimResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal claim response: %w", err)
	}

	return &response, nil
}
