package payloads

import (
	"time"

	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
	"github.com/google/uuid"
)

// OrderCreatedEvent signals a freshly placed order with its priced snapshot.
type OrderCreatedEvent struct {
	OrderID             uuid.UUID `json:"order_id"`
	ListingID           uuid.UUID `json:"listing_id"`
	BuyerID             uuid.UUID `json:"buyer_id"`
	SellerID            uuid.UUID `json:"seller_id"`
	SubtotalCents       int       `json:"subtotal_cents"`
	PlatformFeeCents    int       `json:"platform_fee_cents"`
	SellerEarningsCents int       `json:"seller_earnings_cents"`
	RushRequested       bool      `json:"rush_requested"`
	DeliveryDays        int       `json:"delivery_days"`
	DueAt               time.Time `json:"due_at"`
}

// OrderStatusChangedEvent is emitted on every accepted transition.
type OrderStatusChangedEvent struct {
	OrderID   uuid.UUID         `json:"order_id"`
	BuyerID   uuid.UUID         `json:"buyer_id"`
	SellerID  uuid.UUID         `json:"seller_id"`
	From      enums.OrderStatus `json:"from"`
	To        enums.OrderStatus `json:"to"`
	ActorID   uuid.UUID         `json:"actor_id"`
	ActorRole enums.UserRole    `json:"actor_role"`
	Reason    string            `json:"reason,omitempty"`
}

// OrderDeliveredEvent surfaces the delivered files for downstream notifications.
type OrderDeliveredEvent struct {
	OrderID     uuid.UUID `json:"order_id"`
	BuyerID     uuid.UUID `json:"buyer_id"`
	SellerID    uuid.UUID `json:"seller_id"`
	FileCount   int       `json:"file_count"`
	DeliveredAt time.Time `json:"delivered_at"`
}

// OrderRevisionRequestedEvent reports a buyer revision that consumed budget.
type OrderRevisionRequestedEvent struct {
	OrderID       uuid.UUID `json:"order_id"`
	BuyerID       uuid.UUID `json:"buyer_id"`
	SellerID      uuid.UUID `json:"seller_id"`
	RevisionsUsed int       `json:"revisions_used"`
	MaxRevisions  int       `json:"max_revisions"`
	Note          string    `json:"note,omitempty"`
}

// CampaignPledgedEvent is emitted for every accepted pledge.
type CampaignPledgedEvent struct {
	CampaignID   uuid.UUID `json:"campaign_id"`
	PledgeID     uuid.UUID `json:"pledge_id"`
	BackerID     uuid.UUID `json:"backer_id"`
	AmountCents  int       `json:"amount_cents"`
	PledgedCents int       `json:"pledged_cents"`
	BackerCount  int       `json:"backer_count"`
	RewardTier   *string   `json:"reward_tier,omitempty"`
}

// CampaignFundedEvent fires once when a campaign crosses its goal.
type CampaignFundedEvent struct {
	CampaignID   uuid.UUID `json:"campaign_id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	GoalCents    int       `json:"goal_cents"`
	PledgedCents int       `json:"pledged_cents"`
	BackerCount  int       `json:"backer_count"`
	FundedAt     time.Time `json:"funded_at"`
}

// PlanChangedEvent mirrors the payload emitted when a user's plan changes.
type PlanChangedEvent struct {
	UserID   uuid.UUID              `json:"user_id"`
	From     enums.SubscriptionPlan `json:"from"`
	To       enums.SubscriptionPlan `json:"to"`
	SquareID string                 `json:"square_subscription_id,omitempty"`
}
