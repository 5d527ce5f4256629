package router

import (
	"context"
	"fmt"
	"time"

	"github.com/bpmconnect/bpmconnect-backend/internal/analytics/types"
	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
	"github.com/bpmconnect/bpmconnect-backend/pkg/logger"
	"github.com/bpmconnect/bpmconnect-backend/pkg/outbox/payloads"
)

type orderRevisionHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newOrderRevisionHandler(writer Writer, logg *logger.Logger) Handler {
	return &orderRevisionHandler{writer: writer, logg: logg}
}

func (h *orderRevisionHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.OrderRevisionRequestedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for order_revision_requested")
	}

	fields := map[string]any{
		"event_type":     envelope.EventType,
		"order_id":       event.OrderID,
		"revisions_used": event.RevisionsUsed,
	}
	logCtx := h.logg.WithFields(ctx, fields)

	row, err := buildOrderLifecycleRow(
		envelope,
		event.OrderID.String(),
		event.BuyerID.String(),
		event.SellerID.String(),
		string(enums.OrderStatusInRevision),
		time.Time{},
		event,
	)
	if err != nil {
		h.logg.Error(logCtx, "failed to build marketplace row", err)
		return err
	}

	if err := h.writer.InsertMarketplace(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert marketplace row", err)
		return err
	}

	h.logg.Info(logCtx, "order_revision_requested handler inserted marketplace row")
	return nil
}
