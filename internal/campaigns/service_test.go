package campaigns

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bpmconnect/bpmconnect-backend/pkg/db/models"
	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
	pkgerrors "github.com/bpmconnect/bpmconnect-backend/pkg/errors"
	"github.com/bpmconnect/bpmconnect-backend/pkg/outbox"
	"github.com/bpmconnect/bpmconnect-backend/pkg/outbox/payloads"
	"github.com/bpmconnect/bpmconnect-backend/pkg/pagination"
)

type stubCampaignsRepo struct {
	campaign      *models.Campaign
	created       *models.Campaign
	saved         *models.Campaign
	createdPledge *models.CampaignPledge
	acceptPledges bool
}

func (s *stubCampaignsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCampaignsRepo) CreateCampaign(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error) {
	if campaign.ID == uuid.Nil {
		campaign.ID = uuid.New()
	}
	s.created = campaign
	return campaign, nil
}

func (s *stubCampaignsRepo) SaveCampaign(ctx context.Context, campaign *models.Campaign) error {
	s.saved = campaign
	return nil
}

func (s *stubCampaignsRepo) FindByID(ctx context.Context, campaignID uuid.UUID) (*models.Campaign, error) {
	if s.campaign == nil || s.campaign.ID != campaignID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *s.campaign
	return &clone, nil
}

func (s *stubCampaignsRepo) ListCampaigns(ctx context.Context, params pagination.Params, filters ListFilters) (*CampaignList, error) {
	return &CampaignList{}, nil
}

func (s *stubCampaignsRepo) AccumulatePledge(ctx context.Context, campaignID uuid.UUID, amountCents int) (bool, error) {
	if !s.acceptPledges {
		return false, nil
	}
	s.campaign.PledgedCents += amountCents
	s.campaign.BackerCount++
	if s.campaign.PledgedCents >= s.campaign.GoalCents {
		s.campaign.Status = enums.CampaignStatusFunded
	}
	return true, nil
}

func (s *stubCampaignsRepo) CreatePledge(ctx context.Context, pledge *models.CampaignPledge) (*models.CampaignPledge, error) {
	if pledge.ID == uuid.Nil {
		pledge.ID = uuid.New()
	}
	s.createdPledge = pledge
	return pledge, nil
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func activeCampaign(creatorID uuid.UUID) *models.Campaign {
	return &models.Campaign{
		ID:           uuid.New(),
		CreatorID:    creatorID,
		Title:        "Debut album",
		Description:  "12 tracks, mixed and mastered.",
		GoalCents:    500000,
		PledgedCents: 480000,
		BackerCount:  16,
		Status:       enums.CampaignStatusActive,
		Deadline:     time.Now().UTC().Add(30 * 24 * time.Hour),
	}
}

func TestCreateCampaignStartsAsDraft(t *testing.T) {
	repo := &stubCampaignsRepo{}
	svc, err := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	dto, err := svc.Create(context.Background(), CreateInput{
		CreatorID: uuid.New(),
		Title:     "  Tour fund  ",
		GoalCents: 200000,
		Deadline:  time.Now().UTC().Add(14 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.Status != enums.CampaignStatusDraft {
		t.Fatalf("new campaigns should be drafts, got %s", dto.Status)
	}
	if dto.Title != "Tour fund" {
		t.Fatalf("title not trimmed: %q", dto.Title)
	}
}

func TestCreateCampaignValidation(t *testing.T) {
	svc, _ := NewService(&stubCampaignsRepo{}, stubTxRunner{}, &stubOutboxPublisher{})

	cases := []CreateInput{
		{CreatorID: uuid.New(), Title: " ", GoalCents: 1000, Deadline: time.Now().Add(time.Hour)},
		{CreatorID: uuid.New(), Title: "ok", GoalCents: 0, Deadline: time.Now().Add(time.Hour)},
		{CreatorID: uuid.New(), Title: "ok", GoalCents: 1000, Deadline: time.Now().Add(-time.Hour)},
	}
	for i, input := range cases {
		_, err := svc.Create(context.Background(), input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("case %d: expected validation error got %v", i, err)
		}
	}
}

func TestPublishDraftOnly(t *testing.T) {
	creatorID := uuid.New()
	campaign := activeCampaign(creatorID)
	campaign.Status = enums.CampaignStatusDraft
	repo := &stubCampaignsRepo{campaign: campaign}
	svc, _ := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{})

	dto, err := svc.Publish(context.Background(), creatorID, campaign.ID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.Status != enums.CampaignStatusActive {
		t.Fatalf("expected active got %s", dto.Status)
	}

	// already active now
	repo.campaign.Status = enums.CampaignStatusActive
	_, err = svc.Publish(context.Background(), creatorID, campaign.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func TestPledgeAccumulatesAndEmits(t *testing.T) {
	creatorID := uuid.New()
	campaign := activeCampaign(creatorID)
	repo := &stubCampaignsRepo{campaign: campaign, acceptPledges: true}
	ob := &stubOutboxPublisher{}
	svc, _ := NewService(repo, stubTxRunner{}, ob)

	tier := "signed vinyl"
	dto, err := svc.Pledge(context.Background(), PledgeInput{
		CampaignID:  campaign.ID,
		BackerID:    uuid.New(),
		AmountCents: 10000,
		RewardTier:  &tier,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.PledgedCents != 490000 || dto.BackerCount != 17 {
		t.Fatalf("unexpected totals %d/%d", dto.PledgedCents, dto.BackerCount)
	}
	if repo.createdPledge == nil || repo.createdPledge.AmountCents != 10000 {
		t.Fatalf("pledge row missing")
	}
	if len(ob.events) != 1 || ob.events[0].EventType != enums.EventCampaignPledged {
		t.Fatalf("expected one pledged event, got %+v", ob.events)
	}
	event, ok := ob.events[0].Data.(payloads.CampaignPledgedEvent)
	if !ok {
		t.Fatalf("unexpected event payload %T", ob.events[0].Data)
	}
	if event.RewardTier == nil || *event.RewardTier != tier {
		t.Fatalf("expected reward tier %q on event, got %v", tier, event.RewardTier)
	}
}

func TestPledgeCrossingGoalEmitsFunded(t *testing.T) {
	creatorID := uuid.New()
	campaign := activeCampaign(creatorID)
	repo := &stubCampaignsRepo{campaign: campaign, acceptPledges: true}
	ob := &stubOutboxPublisher{}
	svc, _ := NewService(repo, stubTxRunner{}, ob)

	dto, err := svc.Pledge(context.Background(), PledgeInput{
		CampaignID:  campaign.ID,
		BackerID:    uuid.New(),
		AmountCents: 25000,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.Status != enums.CampaignStatusFunded {
		t.Fatalf("campaign should be funded, got %s", dto.Status)
	}
	if len(ob.events) != 2 {
		t.Fatalf("expected pledged + funded events, got %d", len(ob.events))
	}
	if ob.events[1].EventType != enums.EventCampaignFunded {
		t.Fatalf("expected funded event, got %s", ob.events[1].EventType)
	}
}

func TestPledgeGuards(t *testing.T) {
	creatorID := uuid.New()
	campaign := activeCampaign(creatorID)
	repo := &stubCampaignsRepo{campaign: campaign, acceptPledges: true}
	svc, _ := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{})

	// own campaign
	_, err := svc.Pledge(context.Background(), PledgeInput{
		CampaignID:  campaign.ID,
		BackerID:    creatorID,
		AmountCents: 1000,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}

	// deadline passed
	repo.campaign.Deadline = time.Now().UTC().Add(-time.Hour)
	_, err = svc.Pledge(context.Background(), PledgeInput{
		CampaignID:  campaign.ID,
		BackerID:    uuid.New(),
		AmountCents: 1000,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}

	// not accepting pledges
	repo.campaign.Deadline = time.Now().UTC().Add(time.Hour)
	repo.acceptPledges = false
	_, err = svc.Pledge(context.Background(), PledgeInput{
		CampaignID:  campaign.ID,
		BackerID:    uuid.New(),
		AmountCents: 1000,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func TestCloseCampaign(t *testing.T) {
	creatorID := uuid.New()
	campaign := activeCampaign(creatorID)
	repo := &stubCampaignsRepo{campaign: campaign}
	svc, _ := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{})

	dto, err := svc.Close(context.Background(), creatorID, campaign.ID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.Status != enums.CampaignStatusCancelled {
		t.Fatalf("expected cancelled got %s", dto.Status)
	}

	repo.campaign.Status = enums.CampaignStatusFunded
	_, err = svc.Close(context.Background(), creatorID, campaign.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}
