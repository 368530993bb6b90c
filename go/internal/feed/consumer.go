package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dropspot/dropspot/go/internal/models"
)

// Config holds configuration for the live drop feed connection.
type Config struct {
	URL              string
	HandshakeTimeout time.Duration
	ReconnectWait    time.Duration
	MaxMessageSize   int64
}

// DefaultConfig returns default feed configuration for the given endpoint.
func DefaultConfig(url string) Config {
	return Config{
		URL:              url,
		HandshakeTimeout: 10 * time.Second,
		ReconnectWait:    2 * time.Second,
		MaxMessageSize:   1 << 20, // drop snapshots are small; 1MB is generous
	}
}

// Cache is the slice of the drop cache the feed reconciles into.
type Cache interface {
	ReplaceAll(drops []models.Drop)
}

// snapshotMessage is the wire payload: the full authoritative drop list.
// Applying it through ReplaceAll keeps the feed override-safe; a snapshot
// always wins over any stale optimistic state.
type snapshotMessage struct {
	Drops []models.Drop `json:"drops"`
}

// Consumer subscribes to server-pushed drop snapshots and applies them to the
// cache. It reconnects with a fixed wait until the context is cancelled.
type Consumer struct {
	cache  Cache
	config Config
}

func NewConsumer(cache Cache, config Config) *Consumer {
	return &Consumer{
		cache:  cache,
		config: config,
	}
}

// Run blocks, consuming snapshots until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		if err := c.consume(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn().Err(err).
				Str("url", c.config.URL).
				Dur("reconnect_wait", c.config.ReconnectWait).
				Msg("drop feed disconnected")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.config.ReconnectWait):
		}
	}
}

func (c *Consumer) consume(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: c.config.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.config.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to dial drop feed: %w", err)
	}
	defer conn.Close()

	conn.SetReadLimit(c.config.MaxMessageSize)
	log.Info().Str("url", c.config.URL).Msg("drop feed connected")

	// Close the connection when the context ends so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read feed message: %w", err)
		}

		var snapshot snapshotMessage
		if err := json.Unmarshal(payload, &snapshot); err != nil {
			log.Warn().Err(err).Msg("skipping malformed feed message")
			continue
		}

		c.cache.ReplaceAll(snapshot.Drops)
		log.Debug().Int("drops", len(snapshot.Drops)).Msg("applied drop snapshot")
	}
}
