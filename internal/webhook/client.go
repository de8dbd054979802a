package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"docbase/internal/domain"
	"docbase/internal/domain/repositories"
)

// Client delivers payloads to the external processing workflow over HTTP.
// Each endpoint sits behind its own circuit breaker; transient failures are
// retried with backoff before the breaker counts them.
type Client struct {
	httpClient  *http.Client
	documentURL string
	pagesURL    string
	maxAttempts int
	backoff     time.Duration
	breakers    map[string]*gobreaker.CircuitBreaker[any]
	onFailure   func(endpoint string)
	logger      *slog.Logger
}

// NewClient creates a workflow webhook client. Empty URLs disable the
// corresponding notification.
func NewClient(documentURL, pagesURL string, logger *slog.Logger) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		documentURL: documentURL,
		pagesURL:    pagesURL,
		maxAttempts: 3,
		backoff:     500 * time.Millisecond,
		breakers:    make(map[string]*gobreaker.CircuitBreaker[any]),
		logger:      logger,
	}
	c.breakers["document"] = c.newBreaker("document")
	c.breakers["pages"] = c.newBreaker("pages")
	return c
}

func (c *Client) newBreaker(name string) *gobreaker.CircuitBreaker[any] {
	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 3 && counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("webhook circuit breaker state change",
				"endpoint", name, "from", from.String(), "to", to.String())
		},
	})
}

// OnFailure registers a hook invoked once per failed delivery, after retries
// and the breaker have given up. Used to feed the webhook failure counter.
func (c *Client) OnFailure(fn func(endpoint string)) {
	c.onFailure = fn
}

// NotifyDocument announces a freshly uploaded document version.
func (c *Client) NotifyDocument(ctx context.Context, event repositories.DocumentEvent) error {
	if c.documentURL == "" {
		return nil
	}
	return c.deliver(ctx, "document", c.documentURL, event)
}

// SendPages delivers a batch of approved pages for vectorization.
func (c *Client) SendPages(ctx context.Context, pages []repositories.PagePayload) error {
	if c.pagesURL == "" {
		return fmt.Errorf("pages webhook not configured")
	}
	return c.deliver(ctx, "pages", c.pagesURL, map[string]any{"pages": pages})
}

func (c *Client) deliver(ctx context.Context, endpoint, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	breaker := c.breakers[endpoint]
	_, err = breaker.Execute(func() (any, error) {
		return nil, c.postWithRetry(ctx, endpoint, url, body)
	})
	if err != nil {
		if c.onFailure != nil {
			c.onFailure(endpoint)
		}
		return &domain.BackendError{Op: "deliver " + endpoint + " webhook", Cause: err}
	}
	return nil
}

func (c *Client) postWithRetry(ctx context.Context, endpoint, url string, body []byte) error {
	var lastErr error
	backoff := c.backoff

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = c.post(ctx, url, body)
		if lastErr == nil {
			return nil
		}

		if attempt == c.maxAttempts {
			break
		}

		c.logger.Warn("webhook delivery retry",
			"endpoint", endpoint,
			"attempt", attempt,
			"max_attempts", c.maxAttempts,
			"error", lastErr,
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}
		backoff *= 2
	}

	return lastErr
}

func (c *Client) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body for the error message
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, snippet)
	}

	return nil
}

var _ repositories.WorkflowNotifier = (*Client)(nil)
