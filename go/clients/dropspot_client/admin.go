package dropspot_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/dropspot/dropspot/go/internal/models"
)

func (c *Client) ListAdminDrops(ctx context.Context) ([]models.Drop, error) {
	body, err := c.Get(ctx, AdminDropsEndpoint)
	if err != nil {
		return nil, err
	}

	var drops []models.Drop
	if err := json.Unmarshal(body, &drops); err != nil {
		return nil, fmt.Errorf("failed to unmarshal admin drops: %w", err)
	}

	return drops, nil
}

func (c *Client) CreateAdminDrop(ctx context.Context, values models.DropFormValues) (*models.Drop, error) {
	payload, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal drop payload: %w", err)
	}

	body, err := c.Post(ctx, AdminDropsEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var drop models.Drop
	if err := json.Unmarshal(body, &drop); err != nil {
		return nil, fmt.Errorf("failed to unmarshal created drop: %w", err)
	}

	return &drop, nil
}

func (c *Client) UpdateAdminDrop(ctx context.Context, dropID int, values models.DropFormValues) (*models.Drop, error) {
	payload, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal drop payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%d", AdminDropsEndpoint, dropID)
	body, err := c.Put(ctx, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var drop models.Drop
	if err := json.Unmarshal(body, &drop); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated drop: %w", err)
	}

	return &drop, nil
}

func (c *Client) DeleteAdminDrop(ctx context.Context, dropID int) error {
	endpoint := fmt.Sprintf("%s/%d", AdminDropsEndpoint, dropID)
	if _, err := c.Delete(ctx, endpoint); err != nil {
		return err
	}
	return nil
}
