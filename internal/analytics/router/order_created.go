package router

import (
	"context"
	"fmt"

	"github.com/bpmconnect/bpmconnect-backend/internal/analytics/types"
	analyticswriter "github.com/bpmconnect/bpmconnect-backend/internal/analytics/writer"
	"github.com/bpmconnect/bpmconnect-backend/pkg/logger"
	"github.com/bpmconnect/bpmconnect-backend/pkg/outbox/payloads"
)

type orderCreatedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newOrderCreatedHandler(writer Writer, logg *logger.Logger) Handler {
	return &orderCreatedHandler{writer: writer, logg: logg}
}

func (h *orderCreatedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.OrderCreatedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for order_created")
	}

	fields := map[string]any{
		"event_type": envelope.EventType,
		"order_id":   event.OrderID,
		"listing_id": event.ListingID,
		"buyer_id":   event.BuyerID,
		"seller_id":  event.SellerID,
	}
	logCtx := h.logg.WithFields(ctx, fields)

	row, err := buildOrderCreatedRow(envelope, event)
	if err != nil {
		h.logg.Error(logCtx, "failed to build marketplace row", err)
		return err
	}

	if err := h.writer.InsertMarketplace(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert marketplace row", err)
		return err
	}

	h.logg.Info(logCtx, "order_created handler inserted marketplace row")
	return nil
}

func buildOrderCreatedRow(envelope types.Envelope, event *payloads.OrderCreatedEvent) (types.MarketplaceEventRow, error) {
	payloadJSON, err := analyticswriter.EncodeJSON(event)
	if err != nil {
		return types.MarketplaceEventRow{}, fmt.Errorf("encode payload json: %w", err)
	}

	return types.MarketplaceEventRow{
		EventID:             envelope.EventID,
		EventType:           string(envelope.EventType),
		OccurredAt:          envelope.OccurredAt,
		OrderID:             stringPtr(event.OrderID.String()),
		ListingID:           stringPtr(event.ListingID.String()),
		BuyerID:             stringPtr(event.BuyerID.String()),
		SellerID:            stringPtr(event.SellerID.String()),
		SubtotalCents:       int64Ptr(int64(event.SubtotalCents)),
		PlatformFeeCents:    int64Ptr(int64(event.PlatformFeeCents)),
		SellerEarningsCents: int64Ptr(int64(event.SellerEarningsCents)),
		RushRequested:       boolPtr(event.RushRequested),
		Payload:             payloadJSON,
	}, nil
}
