package router

import (
	"context"
	"fmt"

	"github.com/bpmconnect/bpmconnect-backend/internal/analytics/types"
	analyticswriter "github.com/bpmconnect/bpmconnect-backend/internal/analytics/writer"
	"github.com/bpmconnect/bpmconnect-backend/pkg/logger"
	"github.com/bpmconnect/bpmconnect-backend/pkg/outbox/payloads"
)

type campaignFundedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newCampaignFundedHandler(writer Writer, logg *logger.Logger) Handler {
	return &campaignFundedHandler{writer: writer, logg: logg}
}

func (h *campaignFundedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.CampaignFundedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for campaign_funded")
	}

	fields := map[string]any{
		"event_type":    envelope.EventType,
		"campaign_id":   event.CampaignID,
		"pledged_cents": event.PledgedCents,
		"goal_cents":    event.GoalCents,
	}
	logCtx := h.logg.WithFields(ctx, fields)

	payloadJSON, err := analyticswriter.EncodeJSON(event)
	if err != nil {
		h.logg.Error(logCtx, "failed to encode campaign payload", err)
		return fmt.Errorf("encode payload json: %w", err)
	}

	occurred := event.FundedAt
	if occurred.IsZero() {
		occurred = envelope.OccurredAt
	}

	row := types.CampaignEventRow{
		EventID:      envelope.EventID,
		EventType:    string(envelope.EventType),
		OccurredAt:   occurred.UTC(),
		CampaignID:   event.CampaignID.String(),
		PledgedCents: int64Ptr(int64(event.PledgedCents)),
		GoalCents:    int64Ptr(int64(event.GoalCents)),
		BackerCount:  int64Ptr(int64(event.BackerCount)),
		Payload:      payloadJSON,
	}

	if err := h.writer.InsertCampaign(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert campaign row", err)
		return err
	}

	h.logg.Info(logCtx, "campaign_funded handler inserted campaign row")
	return nil
}
