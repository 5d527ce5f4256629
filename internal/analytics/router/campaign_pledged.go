package router

import (
	"context"
	"fmt"

	"github.com/bpmconnect/bpmconnect-backend/internal/analytics/types"
	analyticswriter "github.com/bpmconnect/bpmconnect-backend/internal/analytics/writer"
	"github.com/bpmconnect/bpmconnect-backend/pkg/logger"
	"github.com/bpmconnect/bpmconnect-backend/pkg/outbox/payloads"
)

type campaignPledgedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newCampaignPledgedHandler(writer Writer, logg *logger.Logger) Handler {
	return &campaignPledgedHandler{writer: writer, logg: logg}
}

func (h *campaignPledgedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.CampaignPledgedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for campaign_pledged")
	}

	fields := map[string]any{
		"event_type":   envelope.EventType,
		"campaign_id":  event.CampaignID,
		"backer_id":    event.BackerID,
		"amount_cents": event.AmountCents,
	}
	logCtx := h.logg.WithFields(ctx, fields)

	payloadJSON, err := analyticswriter.EncodeJSON(event)
	if err != nil {
		h.logg.Error(logCtx, "failed to encode campaign payload", err)
		return fmt.Errorf("encode payload json: %w", err)
	}

	row := types.CampaignEventRow{
		EventID:      envelope.EventID,
		EventType:    string(envelope.EventType),
		OccurredAt:   envelope.OccurredAt,
		CampaignID:   event.CampaignID.String(),
		BackerID:     stringPtr(event.BackerID.String()),
		AmountCents:  int64Ptr(int64(event.AmountCents)),
		PledgedCents: int64Ptr(int64(event.PledgedCents)),
		BackerCount:  int64Ptr(int64(event.BackerCount)),
		Payload:      payloadJSON,
	}

	if err := h.writer.InsertCampaign(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert campaign row", err)
		return err
	}

	h.logg.Info(logCtx, "campaign_pledged handler inserted campaign row")
	return nil
}
