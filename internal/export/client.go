// Package export delivers finished payloads to the case-management API.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/opensource-finance/heron/internal/domain"
)

const defaultTimeout = 30 * time.Second

// Client posts payloads to the case API. Delivery is a single
// authenticated POST, at-most-once: no retries, no idempotency key. A
// failed delivery is logged with the user_id so the case can be replayed
// by hand.
type Client struct {
	httpClient *http.Client
	url        string
	authToken  string
	dryRun     bool
	logger     *slog.Logger
}

// NewClient creates a delivery client from configuration. With DryRun set
// the client logs the payload instead of posting it.
func NewClient(cfg domain.ExportConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        cfg.URL,
		authToken:  cfg.AuthToken,
		dryRun:     cfg.DryRun,
		logger:     logger,
	}
}

// Deliver sends one payload and returns the response body unchanged for
// display. The payload is never mutated.
func (c *Client) Deliver(ctx context.Context, payload domain.ExportPayload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}

	if c.dryRun {
		c.logger.Info("dry-run delivery",
			"user_id", payload.UserID,
			"conclusion", payload.Conclusion,
			"priority", payload.Priority,
		)
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logDeliveryFailure(payload.UserID, err)
		return "", fmt.Errorf("delivery failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("delivery rejected: status %d", resp.StatusCode)
		c.logDeliveryFailure(payload.UserID, err)
		return string(respBody), err
	}

	return string(respBody), nil
}

func (c *Client) logDeliveryFailure(userID int64, err error) {
	c.logger.Error("case delivery failed, payload needs manual replay",
		"user_id", userID,
		"error", err,
	)
}
