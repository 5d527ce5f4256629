package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/bpmconnect/bpmconnect-backend/pkg/db/models"
	pkgerrors "github.com/bpmconnect/bpmconnect-backend/pkg/errors"
	"github.com/bpmconnect/bpmconnect-backend/pkg/pagination"
	"github.com/bpmconnect/bpmconnect-backend/pkg/plans"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes seller listing management plus the public browse surface.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*ListingDTO, error)
	Update(ctx context.Context, sellerID, listingID uuid.UUID, input UpdateInput) (*ListingDTO, error)
	Deactivate(ctx context.Context, sellerID, listingID uuid.UUID) error
	AddExtra(ctx context.Context, sellerID, listingID uuid.UUID, input ExtraInput) (*ListingDTO, error)
	Get(ctx context.Context, listingID uuid.UUID) (*ListingDTO, error)
	List(ctx context.Context, input ListInput) (*ListingList, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService constructs a listings service instance.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("listings repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*ListingDTO, error) {
	if input.SellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.PriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_cents must be positive")
	}
	if input.DeliveryDays < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery_days must be at least 1")
	}
	if input.MaxRevisions < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max_revisions must be non-negative")
	}
	if err := validateRushWindow(input.RushAvailable, input.RushPriceCents, input.RushDeliveryDays, input.DeliveryDays); err != nil {
		return nil, err
	}
	for _, extra := range input.Extras {
		if err := validateExtra(extra); err != nil {
			return nil, err
		}
	}

	var createdID uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		seller, err := repo.FindUser(ctx, input.SellerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "seller not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller")
		}

		active, err := repo.CountActiveBySeller(ctx, seller.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active listings")
		}
		plan := plans.ForTier(seller.Plan)
		if !plan.AllowsNewService(int(active)) {
			return pkgerrors.New(pkgerrors.CodePlanLimit,
				fmt.Sprintf("plan allows at most %d active services", plan.MaxServices)).
				WithDetails(map[string]any{"max_services": plan.MaxServices})
		}

		listing := &models.ServiceListing{
			SellerID:         seller.ID,
			Title:            strings.TrimSpace(input.Title),
			Description:      input.Description,
			Category:         input.Category,
			Genres:           pq.StringArray(input.Genres),
			PriceCents:       input.PriceCents,
			DeliveryDays:     input.DeliveryDays,
			RushAvailable:    input.RushAvailable,
			RushPriceCents:   input.RushPriceCents,
			RushDeliveryDays: input.RushDeliveryDays,
			MaxRevisions:     input.MaxRevisions,
			IsActive:         true,
		}
		if _, err := repo.CreateListing(ctx, listing); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create listing")
		}
		createdID = listing.ID

		extras := make([]models.ServiceExtra, 0, len(input.Extras))
		for _, extra := range input.Extras {
			extras = append(extras, models.ServiceExtra{
				ListingID:  listing.ID,
				Title:      strings.TrimSpace(extra.Title),
				PriceCents: extra.PriceCents,
				AddedDays:  extra.AddedDays,
				IsActive:   true,
			})
		}
		if err := repo.CreateExtras(ctx, extras); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create listing extras")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, createdID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	return NewListingDTO(created), nil
}

func (s *service) Update(ctx context.Context, sellerID, listingID uuid.UUID, input UpdateInput) (*ListingDTO, error) {
	listing, err := s.loadOwned(ctx, sellerID, listingID)
	if err != nil {
		return nil, err
	}

	applyUpdateToListing(listing, input)

	if listing.PriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_cents must be positive")
	}
	if listing.DeliveryDays < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery_days must be at least 1")
	}
	if err := validateRushWindow(listing.RushAvailable, listing.RushPriceCents, listing.RushDeliveryDays, listing.DeliveryDays); err != nil {
		return nil, err
	}

	if err := s.repo.SaveListing(ctx, listing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update listing")
	}
	return NewListingDTO(listing), nil
}

func (s *service) Deactivate(ctx context.Context, sellerID, listingID uuid.UUID) error {
	listing, err := s.loadOwned(ctx, sellerID, listingID)
	if err != nil {
		return err
	}
	if !listing.IsActive {
		return nil
	}
	listing.IsActive = false
	if err := s.repo.SaveListing(ctx, listing); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate listing")
	}
	return nil
}

func (s *service) AddExtra(ctx context.Context, sellerID, listingID uuid.UUID, input ExtraInput) (*ListingDTO, error) {
	if err := validateExtra(input); err != nil {
		return nil, err
	}
	listing, err := s.loadOwned(ctx, sellerID, listingID)
	if err != nil {
		return nil, err
	}

	extra := models.ServiceExtra{
		ListingID:  listing.ID,
		Title:      strings.TrimSpace(input.Title),
		PriceCents: input.PriceCents,
		AddedDays:  input.AddedDays,
		IsActive:   true,
	}
	if err := s.repo.CreateExtras(ctx, []models.ServiceExtra{extra}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create extra")
	}

	reloaded, err := s.repo.FindByID(ctx, listing.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	return NewListingDTO(reloaded), nil
}

func (s *service) Get(ctx context.Context, listingID uuid.UUID) (*ListingDTO, error) {
	if listingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing id required")
	}
	listing, err := s.repo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	return NewListingDTO(listing), nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListingList, error) {
	list, err := s.repo.ListListings(ctx, pagination.Params{
		Limit:  input.Limit,
		Cursor: input.Cursor,
	}, input.Filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list listings")
	}
	return list, nil
}

func (s *service) loadOwned(ctx context.Context, sellerID, listingID uuid.UUID) (*models.ServiceListing, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if listingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing id required")
	}
	listing, err := s.repo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	if listing.SellerID != sellerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "listing does not belong to seller")
	}
	return listing, nil
}

// validateRushWindow enforces that a rush option, when offered, is priced and
// strictly faster than the standard turnaround.
func validateRushWindow(rushAvailable bool, rushPriceCents, rushDeliveryDays, deliveryDays int) error {
	if !rushAvailable {
		return nil
	}
	if rushPriceCents <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "rush_price_cents must be positive when rush is offered")
	}
	if rushDeliveryDays < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "rush_delivery_days must be at least 1")
	}
	if rushDeliveryDays >= deliveryDays {
		return pkgerrors.New(pkgerrors.CodeValidation, "rush_delivery_days must be shorter than delivery_days")
	}
	return nil
}

func validateExtra(input ExtraInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "extra title is required")
	}
	if input.PriceCents <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "extra price_cents must be positive")
	}
	if input.AddedDays < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "extra added_days must be non-negative")
	}
	return nil
}

func applyUpdateToListing(listing *models.ServiceListing, input UpdateInput) {
	if input.Title != nil {
		listing.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		listing.Description = *input.Description
	}
	if input.Category != nil {
		listing.Category = *input.Category
	}
	if input.Genres != nil {
		listing.Genres = pq.StringArray(append([]string(nil), *input.Genres...))
	}
	if input.PriceCents != nil {
		listing.PriceCents = *input.PriceCents
	}
	if input.DeliveryDays != nil {
		listing.DeliveryDays = *input.DeliveryDays
	}
	if input.RushAvailable != nil {
		listing.RushAvailable = *input.RushAvailable
	}
	if input.RushPriceCents != nil {
		listing.RushPriceCents = *input.RushPriceCents
	}
	if input.RushDeliveryDays != nil {
		listing.RushDeliveryDays = *input.RushDeliveryDays
	}
	if input.MaxRevisions != nil {
		listing.MaxRevisions = *input.MaxRevisions
	}
	if input.IsActive != nil {
		listing.IsActive = *input.IsActive
	}
}
