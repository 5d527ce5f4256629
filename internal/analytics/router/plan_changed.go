package router

import (
	"context"
	"fmt"

	"github.com/bpmconnect/bpmconnect-backend/internal/analytics/types"
	analyticswriter "github.com/bpmconnect/bpmconnect-backend/internal/analytics/writer"
	"github.com/bpmconnect/bpmconnect-backend/pkg/logger"
	"github.com/bpmconnect/bpmconnect-backend/pkg/outbox/payloads"
)

type planChangedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newPlanChangedHandler(writer Writer, logg *logger.Logger) Handler {
	return &planChangedHandler{writer: writer, logg: logg}
}

func (h *planChangedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.PlanChangedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for plan_changed")
	}

	fields := map[string]any{
		"event_type": envelope.EventType,
		"user_id":    event.UserID,
		"from":       event.From,
		"to":         event.To,
	}
	logCtx := h.logg.WithFields(ctx, fields)

	payloadJSON, err := analyticswriter.EncodeJSON(event)
	if err != nil {
		h.logg.Error(logCtx, "failed to encode plan payload", err)
		return fmt.Errorf("encode payload json: %w", err)
	}

	row := types.MarketplaceEventRow{
		EventID:    envelope.EventID,
		EventType:  string(envelope.EventType),
		OccurredAt: envelope.OccurredAt,
		UserID:     stringPtr(event.UserID.String()),
		Plan:       stringPtr(string(event.To)),
		Payload:    payloadJSON,
	}

	if err := h.writer.InsertMarketplace(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert marketplace row", err)
		return err
	}

	h.logg.Info(logCtx, "plan_changed handler inserted marketplace row")
	return nil
}
