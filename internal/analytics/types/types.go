package types

import (
	"bytes"
	"encoding/json"
	"time"

	cbigquery "cloud.google.com/go/bigquery"

	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
)

// Envelope is the canonical analytics view of a consumed Pub/Sub message.
type Envelope struct {
	EventID       string                    `json:"event_id"`
	EventType     enums.OutboxEventType     `json:"event_type"`
	AggregateType enums.OutboxAggregateType `json:"aggregate_type"`
	AggregateID   string                    `json:"aggregate_id"`
	OccurredAt    time.Time                 `json:"occurred_at"`
	Payload       json.RawMessage           `json:"payload"`
}

// PayloadMap converts the raw payload to a map for keyed access.
func (e Envelope) PayloadMap() (map[string]any, error) {
	if len(bytes.TrimSpace(e.Payload)) == 0 {
		return map[string]any{}, nil
	}
	var out map[string]any
	if err := json.Unmarshal(e.Payload, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// MarketplaceEventRow mirrors the marketplace_events BigQuery schema. Order
// lifecycle and plan changes land here.
type MarketplaceEventRow struct {
	EventID             string             `bigquery:"event_id"`
	EventType           string             `bigquery:"event_type"`
	OccurredAt          time.Time          `bigquery:"occurred_at"`
	OrderID             *string            `bigquery:"order_id"`
	ListingID           *string            `bigquery:"listing_id"`
	BuyerID             *string            `bigquery:"buyer_id"`
	SellerID            *string            `bigquery:"seller_id"`
	UserID              *string            `bigquery:"user_id"`
	OrderStatus         *string            `bigquery:"order_status"`
	Plan                *string            `bigquery:"plan"`
	SubtotalCents       *int64             `bigquery:"subtotal_cents"`
	PlatformFeeCents    *int64             `bigquery:"platform_fee_cents"`
	SellerEarningsCents *int64             `bigquery:"seller_earnings_cents"`
	RushRequested       *bool              `bigquery:"rush_requested"`
	Payload             cbigquery.NullJSON `bigquery:"payload"`
}

// CampaignEventRow mirrors the campaign_events BigQuery schema.
type CampaignEventRow struct {
	EventID      string             `bigquery:"event_id"`
	EventType    string             `bigquery:"event_type"`
	OccurredAt   time.Time          `bigquery:"occurred_at"`
	CampaignID   string             `bigquery:"campaign_id"`
	BackerID     *string            `bigquery:"backer_id"`
	AmountCents  *int64             `bigquery:"amount_cents"`
	PledgedCents *int64             `bigquery:"pledged_cents"`
	GoalCents    *int64             `bigquery:"goal_cents"`
	BackerCount  *int64             `bigquery:"backer_count"`
	Payload      cbigquery.NullJSON `bigquery:"payload"`
}
