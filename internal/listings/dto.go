package listings

import (
	"time"

	"github.com/google/uuid"

	"github.com/bpmconnect/bpmconnect-backend/pkg/db/models"
)

// ExtraInput is a priced add-on supplied when creating a listing or added
// to one later.
type ExtraInput struct {
	Title      string
	PriceCents int
	AddedDays  int
}

// CreateInput holds the validated payload to create a listing.
type CreateInput struct {
	SellerID         uuid.UUID
	Title            string
	Description      string
	Category         string
	Genres           []string
	PriceCents       int
	DeliveryDays     int
	RushAvailable    bool
	RushPriceCents   int
	RushDeliveryDays int
	MaxRevisions     int
	Extras           []ExtraInput
}

// UpdateInput holds optional mutation values for a listing.
type UpdateInput struct {
	Title            *string
	Description      *string
	Category         *string
	Genres           *[]string
	PriceCents       *int
	DeliveryDays     *int
	RushAvailable    *bool
	RushPriceCents   *int
	RushDeliveryDays *int
	MaxRevisions     *int
	IsActive         *bool
}

// ListFilters narrows a browse query.
type ListFilters struct {
	Category *string
	Genre    *string
	Query    *string
	SellerID *uuid.UUID
}

// ListInput carries pagination plus filters for a browse request.
type ListInput struct {
	Limit   int
	Cursor  string
	Filters ListFilters
}

// ExtraDTO is the API shape of a listing add-on.
type ExtraDTO struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	PriceCents int       `json:"price_cents"`
	AddedDays  int       `json:"added_days"`
	IsActive   bool      `json:"is_active"`
}

// ListingDTO is the API shape of a listing with its extras.
type ListingDTO struct {
	ID               uuid.UUID  `json:"id"`
	SellerID         uuid.UUID  `json:"seller_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Category         string     `json:"category"`
	Genres           []string   `json:"genres"`
	PriceCents       int        `json:"price_cents"`
	DeliveryDays     int        `json:"delivery_days"`
	RushAvailable    bool       `json:"rush_available"`
	RushPriceCents   int        `json:"rush_price_cents"`
	RushDeliveryDays int        `json:"rush_delivery_days"`
	MaxRevisions     int        `json:"max_revisions"`
	IsActive         bool       `json:"is_active"`
	Extras           []ExtraDTO `json:"extras"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ListingList is a cursor page of listings.
type ListingList struct {
	Listings   []ListingDTO `json:"listings"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// NewListingDTO maps a listing row and its extras into the API shape.
func NewListingDTO(listing *models.ServiceListing) *ListingDTO {
	extras := make([]ExtraDTO, 0, len(listing.Extras))
	for _, extra := range listing.Extras {
		extras = append(extras, ExtraDTO{
			ID:         extra.ID,
			Title:      extra.Title,
			PriceCents: extra.PriceCents,
			AddedDays:  extra.AddedDays,
			IsActive:   extra.IsActive,
		})
	}
	return &ListingDTO{
		ID:               listing.ID,
		SellerID:         listing.SellerID,
		Title:            listing.Title,
		Description:      listing.Description,
		Category:         listing.Category,
		Genres:           append([]string(nil), listing.Genres...),
		PriceCents:       listing.PriceCents,
		DeliveryDays:     listing.DeliveryDays,
		RushAvailable:    listing.RushAvailable,
		RushPriceCents:   listing.RushPriceCents,
		RushDeliveryDays: listing.RushDeliveryDays,
		MaxRevisions:     listing.MaxRevisions,
		IsActive:         listing.IsActive,
		Extras:           extras,
		CreatedAt:        listing.CreatedAt,
	}
}
