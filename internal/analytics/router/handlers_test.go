package router

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/bpmconnect/bpmconnect-backend/internal/analytics/types"
	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
	"github.com/bpmconnect/bpmconnect-backend/pkg/outbox/payloads"
)

func TestOrderCreatedHandlerInsertsMarketplaceRow(t *testing.T) {
	writer := &fakeWriter{}
	handler := newOrderCreatedHandler(writer, testLogger())
	now := time.Now().UTC()
	event := &payloads.OrderCreatedEvent{
		OrderID:             uuidFromString(t, "00000000-0000-0000-0000-000000000001"),
		ListingID:           uuidFromString(t, "00000000-0000-0000-0000-000000000002"),
		BuyerID:             uuidFromString(t, "00000000-0000-0000-0000-000000000003"),
		SellerID:            uuidFromString(t, "00000000-0000-0000-0000-000000000004"),
		SubtotalCents:       5000,
		PlatformFeeCents:    750,
		SellerEarningsCents: 4250,
		RushRequested:       true,
		DeliveryDays:        3,
		DueAt:               now.Add(72 * time.Hour),
	}

	envelope := types.Envelope{
		EventID:    "event-id",
		EventType:  enums.EventOrderCreated,
		OccurredAt: now,
		Payload:    []byte("{}"),
	}

	if err := handler.Handle(context.Background(), envelope, event); err != nil {
		t.Fatalf("handle order_created: %v", err)
	}

	if len(writer.marketplace) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(writer.marketplace))
	}

	row := writer.marketplace[0]
	if row.EventID != envelope.EventID {
		t.Fatalf("unexpected event id: %s", row.EventID)
	}
	if row.OrderID == nil || *row.OrderID != event.OrderID.String() {
		t.Fatalf("order id mismatch: got %v", row.OrderID)
	}
	if row.SubtotalCents == nil || *row.SubtotalCents != 5000 {
		t.Fatalf("subtotal mismatch: %v", row.SubtotalCents)
	}
	if row.PlatformFeeCents == nil || *row.PlatformFeeCents != 750 {
		t.Fatalf("platform fee mismatch: %v", row.PlatformFeeCents)
	}
	if row.SellerEarningsCents == nil || *row.SellerEarningsCents != 4250 {
		t.Fatalf("seller earnings mismatch: %v", row.SellerEarningsCents)
	}
	if row.RushRequested == nil || !*row.RushRequested {
		t.Fatalf("rush flag mismatch: %v", row.RushRequested)
	}

	if !row.Payload.Valid {
		t.Fatal("payload json not valid")
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(row.Payload.JSONVal), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload["order_id"] != event.OrderID.String() {
		t.Fatalf("payload order id mismatch: %v", payload["order_id"])
	}
}

func TestOrderStatusChangedHandlerRecordsTargetStatus(t *testing.T) {
	writer := &fakeWriter{}
	handler := newOrderStatusChangedHandler(writer, testLogger())
	envelope := types.Envelope{
		EventID:    "event-id",
		EventType:  enums.EventOrderStatusChanged,
		OccurredAt: time.Now().UTC(),
		Payload:    []byte("{}"),
	}
	event := &payloads.OrderStatusChangedEvent{
		OrderID:  uuidFromString(t, "00000000-0000-0000-0000-000000000001"),
		BuyerID:  uuidFromString(t, "00000000-0000-0000-0000-000000000003"),
		SellerID: uuidFromString(t, "00000000-0000-0000-0000-000000000004"),
		From:     enums.OrderStatusPending,
		To:       enums.OrderStatusAccepted,
	}

	if err := handler.Handle(context.Background(), envelope, event); err != nil {
		t.Fatalf("handle order_status_changed: %v", err)
	}
	if len(writer.marketplace) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(writer.marketplace))
	}
	row := writer.marketplace[0]
	if row.OrderStatus == nil || *row.OrderStatus != string(enums.OrderStatusAccepted) {
		t.Fatalf("status mismatch: %v", row.OrderStatus)
	}
	if !row.OccurredAt.Equal(envelope.OccurredAt) {
		t.Fatalf("expected envelope timestamp, got %v", row.OccurredAt)
	}
}

func TestCampaignPledgedHandlerInsertsCampaignRow(t *testing.T) {
	writer := &fakeWriter{}
	handler := newCampaignPledgedHandler(writer, testLogger())
	envelope := types.Envelope{
		EventID:    "event-id",
		EventType:  enums.EventCampaignPledged,
		OccurredAt: time.Now().UTC(),
		Payload:    []byte("{}"),
	}
	event := &payloads.CampaignPledgedEvent{
		CampaignID:   uuidFromString(t, "00000000-0000-0000-0000-000000000011"),
		PledgeID:     uuidFromString(t, "00000000-0000-0000-0000-000000000012"),
		BackerID:     uuidFromString(t, "00000000-0000-0000-0000-000000000013"),
		AmountCents:  2500,
		PledgedCents: 40000,
		BackerCount:  17,
	}

	if err := handler.Handle(context.Background(), envelope, event); err != nil {
		t.Fatalf("handle campaign_pledged: %v", err)
	}
	if len(writer.campaigns) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(writer.campaigns))
	}
	row := writer.campaigns[0]
	if row.CampaignID != event.CampaignID.String() {
		t.Fatalf("campaign id mismatch: %s", row.CampaignID)
	}
	if row.BackerID == nil || *row.BackerID != event.BackerID.String() {
		t.Fatalf("backer id mismatch: %v", row.BackerID)
	}
	if row.AmountCents == nil || *row.AmountCents != 2500 {
		t.Fatalf("amount mismatch: %v", row.AmountCents)
	}
	if row.PledgedCents == nil || *row.PledgedCents != 40000 {
		t.Fatalf("pledged mismatch: %v", row.PledgedCents)
	}
	if row.BackerCount == nil || *row.BackerCount != 17 {
		t.Fatalf("backer count mismatch: %v", row.BackerCount)
	}
}

func TestPlanChangedHandlerRecordsNewPlan(t *testing.T) {
	writer := &fakeWriter{}
	handler := newPlanChangedHandler(writer, testLogger())
	envelope := types.Envelope{
		EventID:    "event-id",
		EventType:  enums.EventPlanChanged,
		OccurredAt: time.Now().UTC(),
		Payload:    []byte("{}"),
	}
	event := &payloads.PlanChangedEvent{
		UserID: uuidFromString(t, "00000000-0000-0000-0000-000000000021"),
		From:   enums.SubscriptionPlanFree,
		To:     enums.SubscriptionPlanPro,
	}

	if err := handler.Handle(context.Background(), envelope, event); err != nil {
		t.Fatalf("handle plan_changed: %v", err)
	}
	if len(writer.marketplace) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(writer.marketplace))
	}
	row := writer.marketplace[0]
	if row.UserID == nil || *row.UserID != event.UserID.String() {
		t.Fatalf("user id mismatch: %v", row.UserID)
	}
	if row.Plan == nil || *row.Plan != string(enums.SubscriptionPlanPro) {
		t.Fatalf("plan mismatch: %v", row.Plan)
	}
}

func TestHandlersRejectWrongPayloadType(t *testing.T) {
	writer := &fakeWriter{}
	envelope := types.Envelope{EventID: "event-id", Payload: []byte("{}")}
	handlers := []Handler{
		newOrderCreatedHandler(writer, testLogger()),
		newOrderStatusChangedHandler(writer, testLogger()),
		newOrderDeliveredHandler(writer, testLogger()),
		newOrderRevisionHandler(writer, testLogger()),
		newCampaignPledgedHandler(writer, testLogger()),
		newCampaignFundedHandler(writer, testLogger()),
		newPlanChangedHandler(writer, testLogger()),
	}
	for i, handler := range handlers {
		if err := handler.Handle(context.Background(), envelope, struct{}{}); err == nil {
			t.Fatalf("handler %d accepted wrong payload type", i)
		}
	}
	if len(writer.marketplace) != 0 || len(writer.campaigns) != 0 {
		t.Fatalf("unexpected inserts: %d marketplace, %d campaigns", len(writer.marketplace), len(writer.campaigns))
	}
}
