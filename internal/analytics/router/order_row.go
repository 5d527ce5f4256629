package router

import (
	"fmt"
	"time"

	"github.com/bpmconnect/bpmconnect-backend/internal/analytics/types"
	analyticswriter "github.com/bpmconnect/bpmconnect-backend/internal/analytics/writer"
)

// buildOrderLifecycleRow maps an order lifecycle event onto the shared
// marketplace schema. Status is optional; occurred falls back to the
// envelope timestamp when zero.
func buildOrderLifecycleRow(envelope types.Envelope, orderID, buyerID, sellerID, status string, occurred time.Time, payload any) (types.MarketplaceEventRow, error) {
	if occurred.IsZero() {
		occurred = envelope.OccurredAt
	}

	payloadJSON, err := analyticswriter.EncodeJSON(payload)
	if err != nil {
		return types.MarketplaceEventRow{}, fmt.Errorf("encode payload json: %w", err)
	}

	return types.MarketplaceEventRow{
		EventID:     envelope.EventID,
		EventType:   string(envelope.EventType),
		OccurredAt:  occurred.UTC(),
		OrderID:     stringPtr(orderID),
		BuyerID:     stringPtr(buyerID),
		SellerID:    stringPtr(sellerID),
		OrderStatus: stringPtr(status),
		Payload:     payloadJSON,
	}, nil
}
