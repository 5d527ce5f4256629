package pricing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bpmconnect/bpmconnect-backend/pkg/db/models"
	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
	pkgerrors "github.com/bpmconnect/bpmconnect-backend/pkg/errors"
	"github.com/bpmconnect/bpmconnect-backend/pkg/plans"
)

// ExtraLine snapshots a priced add-on inside a quote.
type ExtraLine struct {
	ExtraID    uuid.UUID
	Title      string
	PriceCents int
	AddedDays  int
}

// Breakdown is the full derived pricing for an order. All amounts are cents.
type Breakdown struct {
	ServicePriceCents   int
	ExtrasPriceCents    int
	RushPriceCents      int
	SubtotalCents       int
	CommissionRate      decimal.Decimal
	PlatformFeeCents    int
	SellerEarningsCents int

	// DeliveryDays is the promised turnaround. Rush swaps in the shorter rush
	// window and extras stop extending it; their price still counts.
	DeliveryDays int

	// RushApplied reports whether rush actually priced in. A rush request
	// against a listing without rush delivery is ignored, not rejected.
	RushApplied bool

	Extras []ExtraLine
}

// Quote derives the pricing breakdown for a listing purchase. It is a pure
// function of its inputs so the same request always prices identically.
func Quote(listing *models.ServiceListing, extraIDs []uuid.UUID, rush bool, plan enums.SubscriptionPlan) (Breakdown, error) {
	if listing == nil {
		return Breakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "listing is required")
	}
	if !listing.IsActive {
		return Breakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "listing is not active")
	}
	rushApplied := rush && listing.RushAvailable

	available := make(map[uuid.UUID]models.ServiceExtra, len(listing.Extras))
	for _, extra := range listing.Extras {
		available[extra.ID] = extra
	}

	seen := make(map[uuid.UUID]bool, len(extraIDs))
	lines := make([]ExtraLine, 0, len(extraIDs))
	extrasCents := 0
	extrasDays := 0
	for _, id := range extraIDs {
		if seen[id] {
			return Breakdown{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("extra %s selected more than once", id)).
				WithDetails(map[string]any{"extra_id": id.String()})
		}
		seen[id] = true

		extra, ok := available[id]
		if !ok || !extra.IsActive {
			return Breakdown{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("extra %s is not available on this listing", id)).
				WithDetails(map[string]any{"extra_id": id.String()})
		}

		lines = append(lines, ExtraLine{
			ExtraID:    extra.ID,
			Title:      extra.Title,
			PriceCents: extra.PriceCents,
			AddedDays:  extra.AddedDays,
		})
		extrasCents += extra.PriceCents
		extrasDays += extra.AddedDays
	}

	rushCents := 0
	if rushApplied {
		rushCents = listing.RushPriceCents
	}

	subtotal := listing.PriceCents + extrasCents + rushCents

	rate := plans.CommissionRate(plan)
	fee := decimal.NewFromInt(int64(subtotal)).Mul(rate).Round(0)
	feeCents := int(fee.IntPart())
	earningsCents := subtotal - feeCents

	deliveryDays := listing.DeliveryDays + extrasDays
	if rushApplied {
		deliveryDays = listing.RushDeliveryDays
	}

	return Breakdown{
		ServicePriceCents:   listing.PriceCents,
		ExtrasPriceCents:    extrasCents,
		RushPriceCents:      rushCents,
		SubtotalCents:       subtotal,
		CommissionRate:      rate,
		PlatformFeeCents:    feeCents,
		SellerEarningsCents: earningsCents,
		DeliveryDays:        deliveryDays,
		RushApplied:         rushApplied,
		Extras:              lines,
	}, nil
}
