package router

import (
	"context"
	"fmt"

	"github.com/bpmconnect/bpmconnect-backend/internal/analytics/types"
	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
	"github.com/bpmconnect/bpmconnect-backend/pkg/logger"
	"github.com/bpmconnect/bpmconnect-backend/pkg/outbox/payloads"
)

type orderDeliveredHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newOrderDeliveredHandler(writer Writer, logg *logger.Logger) Handler {
	return &orderDeliveredHandler{writer: writer, logg: logg}
}

func (h *orderDeliveredHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.OrderDeliveredEvent)
	if !ok {
		return fmt.Errorf("invalid payload for order_delivered")
	}

	fields := map[string]any{
		"event_type": envelope.EventType,
		"order_id":   event.OrderID,
		"file_count": event.FileCount,
	}
	logCtx := h.logg.WithFields(ctx, fields)

	row, err := buildOrderLifecycleRow(
		envelope,
		event.OrderID.String(),
		event.BuyerID.String(),
		event.SellerID.String(),
		string(enums.OrderStatusDelivered),
		event.DeliveredAt,
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

	h.logg.Info(logCtx, "order_delivered handler inserted marketplace row")
	return nil
}
