// Package card talks to the hosted-checkout card processor. Session creation
// happens outside this system; only session verification lives here.
package card

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"communityshop/internal/domain"
)

// Session is the processor's view of a hosted checkout session. CaptureID is
// the processor's unique payment-capture identifier, used downstream as the
// order's idempotency key. Addresses and shipping/tax amounts were collected
// by the hosted checkout page and ride along as session metadata.
type Session struct {
	ID              string         `json:"id"`
	OwnerID         string         `json:"ownerId"`
	PaymentState    string         `json:"paymentState"`
	CaptureID       string         `json:"captureId"`
	LineItems       []SessionLine  `json:"lineItems"`
	ShippingCents   int64          `json:"shippingCents"`
	TaxCents        int64          `json:"taxCents"`
	ShippingAddress domain.Address `json:"shippingAddress"`
	BillingAddress  domain.Address `json:"billingAddress"`
}

// SessionLine is the order metadata the processor carried through checkout.
// Prices are deliberately absent: lines are re-priced from the catalog.
type SessionLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// PaymentStatePaid is the only state treated as a finalized payment.
const PaymentStatePaid = "paid"

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

// GetSession fetches the session by reference. A non-2xx response is an
// error; the caller decides whether retrying the whole verification is safe.
func (c *Client) GetSession(ctx context.Context, ref string) (*Session, error) {
	u := fmt.Sprintf("%s/v1/checkout/sessions/%s", c.baseURL, url.PathEscape(ref))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("card processor: fetch session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("card processor: session %s not found", ref)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("card processor: unexpected status %d", resp.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("card processor: decode session: %w", err)
	}
	return &session, nil
}
