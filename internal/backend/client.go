package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/freight-desk/internal/config"
	"github.com/nurpe/freight-desk/internal/model"
)

// StatusError is returned for every non-2xx answer of the operations backend.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend responded with status %d: %s", e.StatusCode, e.Message)
}

// Client forwards state-changing operations to the operations backend, which
// owns orders and quotes. Every call carries the caller's bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewClient(cfg config.BackendConfig, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("component", "backend").Logger(),
	}
}

func (c *Client) CreateOrder(ctx context.Context, token string, orderType model.OrderType, shipmentType model.ShipmentType, data map[string]any) (*model.OrderRef, error) {
	body := make(map[string]any, len(data)+2)
	for k, v := range data {
		body[k] = v
	}
	body["orderType"] = orderType
	body["shipmentType"] = shipmentType

	var ref model.OrderRef
	if err := c.do(ctx, http.MethodPost, "/orders", token, body, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

func (c *Client) SubmitQuote(ctx context.Context, token string, orderNumber model.OrderNumber, data map[string]any) (*model.Quote, error) {
	var quote model.Quote
	if err := c.do(ctx, http.MethodPost, orderPath(orderNumber, "quotes"), token, data, &quote); err != nil {
		return nil, err
	}
	if quote.OrderNumber == "" {
		quote.OrderNumber = orderNumber
	}
	return &quote, nil
}

func (c *Client) MarkPending(ctx context.Context, token string, orderNumber model.OrderNumber) (*model.OrderRef, error) {
	return c.transition(ctx, token, orderNumber, "pending")
}

func (c *Client) CancelOrder(ctx context.Context, token string, orderNumber model.OrderNumber) (*model.OrderRef, error) {
	return c.transition(ctx, token, orderNumber, "cancel")
}

func (c *Client) SelectQuote(ctx context.Context, token string, orderNumber model.OrderNumber, quoteID uuid.UUID) (*model.OrderRef, error) {
	return c.transition(ctx, token, orderNumber, "quotes", quoteID.String(), "select")
}

func (c *Client) transition(ctx context.Context, token string, orderNumber model.OrderNumber, segments ...string) (*model.OrderRef, error) {
	var ref model.OrderRef
	if err := c.do(ctx, http.MethodPost, orderPath(orderNumber, segments...), token, nil, &ref); err != nil {
		return nil, err
	}
	if ref.OrderNumber == "" {
		ref.OrderNumber = orderNumber
	}
	return &ref, nil
}

func orderPath(orderNumber model.OrderNumber, segments ...string) string {
	parts := []string{"/orders", url.PathEscape(orderNumber.String())}
	for _, s := range segments {
		parts = append(parts, url.PathEscape(s))
	}
	return strings.Join(parts, "/")
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("path", path).Msg("backend call failed")
		return fmt.Errorf("call backend: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(started)).
		Msg("backend call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage pulls a human readable message out of an error body. The
// backend answers with either {"error": "..."} or {"message": "..."}.
func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
