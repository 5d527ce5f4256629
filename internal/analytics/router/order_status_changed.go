package router

import (
	"context"
	"fmt"
	"time"

	"github.com/bpmconnect/bpmconnect-backend/internal/analytics/types"
	"github.com/bpmconnect/bpmconnect-backend/pkg/logger"
	"github.com/bpmconnect/bpmconnect-backend/pkg/outbox/payloads"
)

type orderStatusChangedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newOrderStatusChangedHandler(writer Writer, logg *logger.Logger) Handler {
	return &orderStatusChangedHandler{writer: writer, logg: logg}
}

func (h *orderStatusChangedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.OrderStatusChangedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for order_status_changed")
	}

	fields := map[string]any{
		"event_type": envelope.EventType,
		"order_id":   event.OrderID,
		"from":       event.From,
		"to":         event.To,
	}
	logCtx := h.logg.WithFields(ctx, fields)

	row, err := buildOrderLifecycleRow(
		envelope,
		event.OrderID.String(),
		event.BuyerID.String(),
		event.SellerID.String(),
		string(event.To),
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

	h.logg.Info(logCtx, "order_status_changed handler inserted marketplace row")
	return nil
}
