// Package altpay talks to the alternative processor's order/capture API.
package altpay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// CaptureResult is the processor's response to a capture request.
type CaptureResult struct {
	Status              string `json:"status"`
	CaptureID           string `json:"captureId"`
	AmountCapturedCents int64  `json:"amountCapturedCents"`
}

// StatusCompleted is the only capture status treated as a finalized payment.
const StatusCompleted = "COMPLETED"

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Capture asks the processor to capture the payment for its order id.
// Captures are idempotent on the processor side, so retrying a timed-out
// capture is safe.
func (c *Client) Capture(ctx context.Context, processorOrderID string) (*CaptureResult, error) {
	u := fmt.Sprintf("%s/v2/checkout/orders/%s/capture", c.baseURL, url.PathEscape(processorOrderID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("altpay processor: capture: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("altpay processor: order %s not found", processorOrderID)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("altpay processor: unexpected status %d", resp.StatusCode)
	}

	var result CaptureResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("altpay processor: decode capture: %w", err)
	}
	return &result, nil
}
