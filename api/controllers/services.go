package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/bpmconnect/bpmconnect-backend/api/responses"
	"github.com/bpmconnect/bpmconnect-backend/api/validators"
	"github.com/bpmconnect/bpmconnect-backend/internal/listings"
	pkgerrors "github.com/bpmconnect/bpmconnect-backend/pkg/errors"
	"github.com/bpmconnect/bpmconnect-backend/pkg/logger"
	"github.com/bpmconnect/bpmconnect-backend/pkg/pagination"
)

type serviceExtraRequest struct {
	Title      string `json:"title" validate:"required,max=120"`
	PriceCents int    `json:"price_cents" validate:"required,min=1"`
	AddedDays  int    `json:"added_days" validate:"min=0"`
}

type createServiceRequest struct {
	Title            string                `json:"title" validate:"required,max=140"`
	Description      string                `json:"description" validate:"required"`
	Category         string                `json:"category" validate:"required"`
	Genres           []string              `json:"genres,omitempty"`
	PriceCents       int                   `json:"price_cents" validate:"required,min=1"`
	DeliveryDays     int                   `json:"delivery_days" validate:"required,min=1"`
	RushAvailable    bool                  `json:"rush_available"`
	RushPriceCents   int                   `json:"rush_price_cents" validate:"min=0"`
	RushDeliveryDays int                   `json:"rush_delivery_days" validate:"min=0"`
	MaxRevisions     int                   `json:"max_revisions" validate:"min=0"`
	Extras           []serviceExtraRequest `json:"extras,omitempty"`
}

type updateServiceRequest struct {
	Title            *string   `json:"title,omitempty" validate:"omitempty,max=140"`
	Description      *string   `json:"description,omitempty"`
	Category         *string   `json:"category,omitempty"`
	Genres           *[]string `json:"genres,omitempty"`
	PriceCents       *int      `json:"price_cents,omitempty" validate:"omitempty,min=1"`
	DeliveryDays     *int      `json:"delivery_days,omitempty" validate:"omitempty,min=1"`
	RushAvailable    *bool     `json:"rush_available,omitempty"`
	RushPriceCents   *int      `json:"rush_price_cents,omitempty" validate:"omitempty,min=0"`
	RushDeliveryDays *int      `json:"rush_delivery_days,omitempty" validate:"omitempty,min=0"`
	MaxRevisions     *int      `json:"max_revisions,omitempty" validate:"omitempty,min=0"`
	IsActive         *bool     `json:"is_active,omitempty"`
}

// CreateService publishes a new listing for the calling seller.
func CreateService(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createServiceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		extras := make([]listings.ExtraInput, 0, len(body.Extras))
		for _, extra := range body.Extras {
			extras = append(extras, listings.ExtraInput{
				Title:      validators.SanitizeString(extra.Title, 120),
				PriceCents: extra.PriceCents,
				AddedDays:  extra.AddedDays,
			})
		}

		listing, err := svc.Create(r.Context(), listings.CreateInput{
			SellerID:         actorID,
			Title:            validators.SanitizeString(body.Title, 140),
			Description:      strings.TrimSpace(body.Description),
			Category:         validators.SanitizeString(body.Category, 60),
			Genres:           body.Genres,
			PriceCents:       body.PriceCents,
			DeliveryDays:     body.DeliveryDays,
			RushAvailable:    body.RushAvailable,
			RushPriceCents:   body.RushPriceCents,
			RushDeliveryDays: body.RushDeliveryDays,
			MaxRevisions:     body.MaxRevisions,
			Extras:           extras,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, listing)
	}
}

// ListServices browses active listings with optional filters.
func ListServices(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := listings.ListFilters{
			Category: optionalQuery(r, "category"),
			Genre:    optionalQuery(r, "genre"),
			Query:    optionalQuery(r, "q"),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("seller_id")); raw != "" {
			sellerID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid seller id"))
				return
			}
			filters.SellerID = &sellerID
		}

		list, err := svc.List(r.Context(), listings.ListInput{
			Limit:   limit,
			Cursor:  strings.TrimSpace(r.URL.Query().Get("cursor")),
			Filters: filters,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// ServiceDetail returns a single listing by id.
func ServiceDetail(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings service unavailable"))
			return
		}

		listingID, err := parsePathID(r, "serviceId", "service id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.Get(r.Context(), listingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listing)
	}
}

// UpdateService applies a partial update to the caller's own listing.
func UpdateService(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listingID, err := parsePathID(r, "serviceId", "service id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateServiceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.Update(r.Context(), actorID, listingID, listings.UpdateInput{
			Title:            body.Title,
			Description:      body.Description,
			Category:         body.Category,
			Genres:           body.Genres,
			PriceCents:       body.PriceCents,
			DeliveryDays:     body.DeliveryDays,
			RushAvailable:    body.RushAvailable,
			RushPriceCents:   body.RushPriceCents,
			RushDeliveryDays: body.RushDeliveryDays,
			MaxRevisions:     body.MaxRevisions,
			IsActive:         body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listing)
	}
}

// DeactivateService soft-deletes the caller's listing.
func DeactivateService(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listingID, err := parsePathID(r, "serviceId", "service id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), actorID, listingID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

// AddServiceExtra appends a priced add-on to the caller's listing.
func AddServiceExtra(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listingID, err := parsePathID(r, "serviceId", "service id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body serviceExtraRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.AddExtra(r.Context(), actorID, listingID, listings.ExtraInput{
			Title:      validators.SanitizeString(body.Title, 120),
			PriceCents: body.PriceCents,
			AddedDays:  body.AddedDays,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, listing)
	}
}

func optionalQuery(r *http.Request, key string) *string {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return nil
	}
	return &value
}
