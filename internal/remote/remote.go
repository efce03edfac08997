// Package remote delivers submitted responses to an external collector. The
// collector is advisory: delivery is best effort and its outcome is only logged.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/ashureev/odorcolor/internal/domain"
)

// Client POSTs responses as JSON to a fixed endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient returns a client for endpoint. A nil httpClient uses a client
// without a timeout.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{endpoint: endpoint, http: httpClient}
}

// Deliver sends one response. The response body is discarded; a non-2xx
// status is reported as an error.
func (c *Client) Deliver(ctx context.Context, resp domain.Response) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post response: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("post response: HTTP %d", res.StatusCode)
	}
	return nil
}

// Dispatcher runs deliveries as detached background tasks.
type Dispatcher struct {
	client *Client
	wg     sync.WaitGroup
}

// NewDispatcher returns a dispatcher for endpoint. An empty endpoint disables
// delivery.
func NewDispatcher(endpoint string, httpClient *http.Client) *Dispatcher {
	if endpoint == "" {
		return &Dispatcher{}
	}
	return &Dispatcher{client: NewClient(endpoint, httpClient)}
}

// Enabled reports whether an endpoint is configured.
func (d *Dispatcher) Enabled() bool {
	return d != nil && d.client != nil
}

// Dispatch starts delivery of resp and returns immediately. The caller's
// request lifetime does not bound the delivery.
func (d *Dispatcher) Dispatch(resp domain.Response) {
	if !d.Enabled() {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.client.Deliver(context.Background(), resp); err != nil {
			slog.Warn("Remote delivery failed, response kept locally", "error", err, "timestamp", resp.TimestampString())
			return
		}
		slog.Info("Remote delivery completed", "timestamp", resp.TimestampString())
	}()
}

// Wait blocks until in-flight deliveries finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
