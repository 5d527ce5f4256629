package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
)

// Order is a purchase of a service listing. Pricing fields are snapshotted at
// creation so later listing or plan edits never change a placed order.
type Order struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ListingID uuid.UUID `gorm:"column:listing_id;type:uuid;not null;index"`
	BuyerID   uuid.UUID `gorm:"column:buyer_id;type:uuid;not null;index"`
	SellerID  uuid.UUID `gorm:"column:seller_id;type:uuid;not null;index"`

	Status       enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending'"`
	Requirements string            `gorm:"column:requirements;not null"`

	ServicePriceCents   int             `gorm:"column:service_price_cents;not null"`
	ExtrasPriceCents    int             `gorm:"column:extras_price_cents;not null;default:0"`
	RushPriceCents      int             `gorm:"column:rush_price_cents;not null;default:0"`
	SubtotalCents       int             `gorm:"column:subtotal_cents;not null"`
	CommissionRate      decimal.Decimal `gorm:"column:commission_rate;type:numeric(5,4);not null"`
	PlatformFeeCents    int             `gorm:"column:platform_fee_cents;not null"`
	SellerEarningsCents int             `gorm:"column:seller_earnings_cents;not null"`

	RushRequested bool       `gorm:"column:rush_requested;not null;default:false"`
	DeliveryDays  int        `gorm:"column:delivery_days;not null"`
	DueAt         *time.Time `gorm:"column:due_at"`

	RevisionsUsed int `gorm:"column:revisions_used;not null;default:0"`
	MaxRevisions  int `gorm:"column:max_revisions;not null"`

	DeliveredFileURLs pq.StringArray `gorm:"column:delivered_file_urls;type:text[];default:ARRAY[]::text[]"`
	DeliveryNote      *string        `gorm:"column:delivery_note"`

	Extras    []OrderExtra    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Revisions []OrderRevision `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	LastActivityAt time.Time `gorm:"column:last_activity_at;not null;autoCreateTime"`

	AcceptedAt  *time.Time `gorm:"column:accepted_at"`
	DeliveredAt *time.Time `gorm:"column:delivered_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	CancelledAt *time.Time `gorm:"column:cancelled_at"`
	DisputedAt  *time.Time `gorm:"column:disputed_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
