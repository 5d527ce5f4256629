package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/bpmconnect/bpmconnect-backend/pkg/db/models"
	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
)

// OrderFilters describe the inputs supported by the order lists.
type OrderFilters struct {
	Status   *enums.OrderStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

// OrderSummary exposes the aggregated fields returned in list responses.
type OrderSummary struct {
	ID                  uuid.UUID         `json:"id"`
	ListingID           uuid.UUID         `json:"listing_id"`
	ListingTitle        string            `json:"listing_title"`
	BuyerID             uuid.UUID         `json:"buyer_id"`
	SellerID            uuid.UUID         `json:"seller_id"`
	Status              enums.OrderStatus `json:"status"`
	SubtotalCents       int               `json:"subtotal_cents"`
	PlatformFeeCents    int               `json:"platform_fee_cents"`
	SellerEarningsCents int               `json:"seller_earnings_cents"`
	RushRequested       bool              `json:"rush_requested"`
	DeliveryDays        int               `json:"delivery_days"`
	DueAt               *time.Time        `json:"due_at,omitempty"`
	RevisionsUsed       int               `json:"revisions_used"`
	MaxRevisions        int               `json:"max_revisions"`
	CreatedAt           time.Time         `json:"created_at"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// CreateInput captures everything needed to place an order.
type CreateInput struct {
	BuyerID      uuid.UUID
	ListingID    uuid.UUID
	ExtraIDs     []uuid.UUID
	Rush         bool
	Requirements string
	ActorRole    string
}

// TransitionInput moves an order between statuses on behalf of one party.
type TransitionInput struct {
	OrderID   uuid.UUID
	ActorID   uuid.UUID
	Target    enums.OrderStatus
	Reason    string
	ActorRole string
}

// RevisionInput carries a buyer's revision request.
type RevisionInput struct {
	OrderID   uuid.UUID
	ActorID   uuid.UUID
	Note      string
	ActorRole string
}

// DeliverInput carries the seller's delivery payload.
type DeliverInput struct {
	OrderID   uuid.UUID
	ActorID   uuid.UUID
	FileURLs  []string
	Note      *string
	ActorRole string
}

// ListInput scopes an order list to one side of the marketplace.
type ListInput struct {
	UserID  uuid.UUID
	Party   Party
	Limit   int
	Cursor  string
	Filters OrderFilters
}

// OrderExtraDTO is a purchased add-on as snapshotted on the order.
type OrderExtraDTO struct {
	ExtraID    uuid.UUID `json:"extra_id"`
	Title      string    `json:"title"`
	PriceCents int       `json:"price_cents"`
	AddedDays  int       `json:"added_days"`
}

// RevisionDTO is one revision round on an order.
type RevisionDTO struct {
	ID                uuid.UUID  `json:"id"`
	RequestedBy       uuid.UUID  `json:"requested_by"`
	Note              string     `json:"note"`
	DeliveredFileURLs []string   `json:"delivered_file_urls"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// OrderDTO is the full order detail returned to either party.
type OrderDTO struct {
	ID        uuid.UUID `json:"id"`
	ListingID uuid.UUID `json:"listing_id"`
	BuyerID   uuid.UUID `json:"buyer_id"`
	SellerID  uuid.UUID `json:"seller_id"`

	Status       enums.OrderStatus `json:"status"`
	Requirements string            `json:"requirements"`

	ServicePriceCents   int    `json:"service_price_cents"`
	ExtrasPriceCents    int    `json:"extras_price_cents"`
	RushPriceCents      int    `json:"rush_price_cents"`
	SubtotalCents       int    `json:"subtotal_cents"`
	CommissionRate      string `json:"commission_rate"`
	PlatformFeeCents    int    `json:"platform_fee_cents"`
	SellerEarningsCents int    `json:"seller_earnings_cents"`

	RushRequested bool       `json:"rush_requested"`
	DeliveryDays  int        `json:"delivery_days"`
	DueAt         *time.Time `json:"due_at,omitempty"`

	RevisionsUsed int `json:"revisions_used"`
	MaxRevisions  int `json:"max_revisions"`

	DeliveredFileURLs []string `json:"delivered_file_urls"`
	DeliveryNote      *string  `json:"delivery_note,omitempty"`

	Extras    []OrderExtraDTO `json:"extras"`
	Revisions []RevisionDTO   `json:"revisions"`

	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	DisputedAt  *time.Time `json:"disputed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewOrderDTO maps an order row, including loaded extras and revisions.
func NewOrderDTO(order *models.Order) *OrderDTO {
	extras := make([]OrderExtraDTO, 0, len(order.Extras))
	for _, extra := range order.Extras {
		extras = append(extras, OrderExtraDTO{
			ExtraID:    extra.ExtraID,
			Title:      extra.Title,
			PriceCents: extra.PriceCents,
			AddedDays:  extra.AddedDays,
		})
	}

	revisions := make([]RevisionDTO, 0, len(order.Revisions))
	for _, revision := range order.Revisions {
		revisions = append(revisions, RevisionDTO{
			ID:                revision.ID,
			RequestedBy:       revision.RequestedBy,
			Note:              revision.Note,
			DeliveredFileURLs: append([]string(nil), revision.DeliveredFileURLs...),
			CompletedAt:       revision.CompletedAt,
			CreatedAt:         revision.CreatedAt,
		})
	}

	return &OrderDTO{
		ID:                  order.ID,
		ListingID:           order.ListingID,
		BuyerID:             order.BuyerID,
		SellerID:            order.SellerID,
		Status:              order.Status,
		Requirements:        order.Requirements,
		ServicePriceCents:   order.ServicePriceCents,
		ExtrasPriceCents:    order.ExtrasPriceCents,
		RushPriceCents:      order.RushPriceCents,
		SubtotalCents:       order.SubtotalCents,
		CommissionRate:      order.CommissionRate.String(),
		PlatformFeeCents:    order.PlatformFeeCents,
		SellerEarningsCents: order.SellerEarningsCents,
		RushRequested:       order.RushRequested,
		DeliveryDays:        order.DeliveryDays,
		DueAt:               order.DueAt,
		RevisionsUsed:       order.RevisionsUsed,
		MaxRevisions:        order.MaxRevisions,
		DeliveredFileURLs:   append([]string(nil), order.DeliveredFileURLs...),
		DeliveryNote:        order.DeliveryNote,
		Extras:              extras,
		Revisions:           revisions,
		AcceptedAt:          order.AcceptedAt,
		DeliveredAt:         order.DeliveredAt,
		CompletedAt:         order.CompletedAt,
		CancelledAt:         order.CancelledAt,
		DisputedAt:          order.DisputedAt,
		CreatedAt:           order.CreatedAt,
		UpdatedAt:           order.UpdatedAt,
	}
}
