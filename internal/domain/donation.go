package domain

import "time"

// Campaign tracks a fundraising goal. RaisedCents is a derived aggregate: it
// always equals the sum of amounts of donations currently referencing the
// campaign and is maintained by per-donation deltas, never by rescanning.
type Campaign struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	GoalCents   int64     `json:"goalCents"`
	RaisedCents int64     `json:"raisedCents"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Donation struct {
	ID          string    `json:"id"`
	CampaignID  string    `json:"campaignId"`
	UserID      *string   `json:"userId,omitempty"`
	AmountCents int64     `json:"amountCents"`
	Currency    string    `json:"currency"`
	Anonymous   bool      `json:"anonymous"`
	Message     string    `json:"message,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
