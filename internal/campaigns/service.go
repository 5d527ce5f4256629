package campaigns

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes crowdfunding campaign operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*CampaignDTO, error)
	Publish(ctx context.Context, creatorID, campaignID uuid.UUID) (*CampaignDTO, error)
	Pledge(ctx context.Context, input PledgeInput) (*CampaignDTO, error)
	Close(ctx context.Context, creatorID, campaignID uuid.UUID) (*CampaignDTO, error)
	Get(ctx context.Context, campaignID uuid.UUID) (*CampaignDTO, error)
	List(ctx context.Context, input ListInput) (*CampaignList, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// NewService constructs a campaigns service instance.
func NewService(repo Repository, tx txRunner, outbox outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("campaigns repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: outbox}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*CampaignDTO, error) {
	if input.CreatorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.GoalCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "goal_cents must be positive")
	}
	if !input.Deadline.After(time.Now().UTC()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deadline must be in the future")
	}

	campaign := &models.Campaign{
		CreatorID:   input.CreatorID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		GoalCents:   input.GoalCents,
		Status:      enums.CampaignStatusDraft,
		Deadline:    input.Deadline,
	}
	if _, err := s.repo.CreateCampaign(ctx, campaign); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create campaign")
	}
	return NewCampaignDTO(campaign), nil
}

func (s *service) Publish(ctx context.Context, creatorID, campaignID uuid.UUID) (*CampaignDTO, error) {
	campaign, err := s.loadOwned(ctx, creatorID, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status != enums.CampaignStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only draft campaigns can be published")
	}
	campaign.Status = enums.CampaignStatusActive
	if err := s.repo.SaveCampaign(ctx, campaign); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish campaign")
	}
	return NewCampaignDTO(campaign), nil
}

func (s *service) Pledge(ctx context.Context, input PledgeInput) (*CampaignDTO, error) {
	if input.BackerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.CampaignID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign id required")
	}
	if input.AmountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount_cents must be positive")
	}

	var result *models.Campaign
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		campaign, err := repo.FindByID(ctx, input.CampaignID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load campaign")
		}
		if campaign.CreatorID == input.BackerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "creators cannot back their own campaign")
		}
		if time.Now().UTC().After(campaign.Deadline) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "campaign deadline has passed")
		}

		accepted, err := repo.AccumulatePledge(ctx, campaign.ID, input.AmountCents)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accumulate pledge")
		}
		if !accepted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "campaign is not accepting pledges")
		}

		pledge := &models.CampaignPledge{
			CampaignID:  campaign.ID,
			BackerID:    input.BackerID,
			AmountCents: input.AmountCents,
			RewardTier:  input.RewardTier,
		}
		if _, err := repo.CreatePledge(ctx, pledge); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create pledge")
		}

		updated, err := repo.FindByID(ctx, campaign.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload campaign")
		}

		pledgedEvent := outbox.DomainEvent{
			EventType:     enums.EventCampaignPledged,
			AggregateType: enums.AggregateCampaign,
			AggregateID:   updated.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.BackerID},
			Data: payloads.CampaignPledgedEvent{
				CampaignID:   updated.ID,
				PledgeID:     pledge.ID,
				BackerID:     input.BackerID,
				AmountCents:  input.AmountCents,
				PledgedCents: updated.PledgedCents,
				BackerCount:  updated.BackerCount,
				RewardTier:   input.RewardTier,
			},
		}
		if err := s.outbox.Emit(ctx, tx, pledgedEvent); err != nil {
			return err
		}

		// This pledge crossed the goal when the campaign was still short
		// of it beforehand.
		if updated.Status == enums.CampaignStatusFunded && campaign.PledgedCents < campaign.GoalCents {
			fundedEvent := outbox.DomainEvent{
				EventType:     enums.EventCampaignFunded,
				AggregateType: enums.AggregateCampaign,
				AggregateID:   updated.ID,
				Version:       1,
				Actor:         &outbox.ActorRef{UserID: input.BackerID},
				Data: payloads.CampaignFundedEvent{
					CampaignID:   updated.ID,
					OwnerID:      updated.CreatorID,
					GoalCents:    updated.GoalCents,
					PledgedCents: updated.PledgedCents,
					BackerCount:  updated.BackerCount,
					FundedAt:     time.Now().UTC(),
				},
			}
			if err := s.outbox.Emit(ctx, tx, fundedEvent); err != nil {
				return err
			}
		}

		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewCampaignDTO(result), nil
}

func (s *service) Close(ctx context.Context, creatorID, campaignID uuid.UUID) (*CampaignDTO, error) {
	campaign, err := s.loadOwned(ctx, creatorID, campaignID)
	if err != nil {
		return nil, err
	}
	switch campaign.Status {
	case enums.CampaignStatusActive, enums.CampaignStatusDraft:
		campaign.Status = enums.CampaignStatusCancelled
	case enums.CampaignStatusFunded:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "funded campaigns cannot be closed")
	default:
		return NewCampaignDTO(campaign), nil
	}
	if err := s.repo.SaveCampaign(ctx, campaign); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close campaign")
	}
	return NewCampaignDTO(campaign), nil
}

func (s *service) Get(ctx context.Context, campaignID uuid.UUID) (*CampaignDTO, error) {
	if campaignID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign id required")
	}
	campaign, err := s.repo.FindByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load campaign")
	}
	return NewCampaignDTO(campaign), nil
}

func (s *service) List(ctx context.Context, input ListInput) (*CampaignList, error) {
	list, err := s.repo.ListCampaigns(ctx, pagination.Params{
		Limit:  input.Limit,
		Cursor: input.Cursor,
	}, input.Filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list campaigns")
	}
	return list, nil
}

func (s *service) loadOwned(ctx context.Context, creatorID, campaignID uuid.UUID) (*models.Campaign, error) {
	if creatorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if campaignID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign id required")
	}
	campaign, err := s.repo.FindByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load campaign")
	}
	if campaign.CreatorID != creatorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "campaign does not belong to user")
	}
	return campaign, nil
}
