package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/bpmconnect/bpmconnect-backend/pkg/db/models"
	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
)

// ProfileDTO is the authenticated user's own view of their account.
type ProfileDTO struct {
	ID          uuid.UUID              `json:"id"`
	Email       string                 `json:"email"`
	DisplayName string                 `json:"display_name"`
	Role        enums.UserRole         `json:"role"`
	Plan        enums.SubscriptionPlan `json:"plan"`
	Bio         *string                `json:"bio,omitempty"`
	Location    *string                `json:"location,omitempty"`
	AvatarURL   *string                `json:"avatar_url,omitempty"`
	Genres      []string               `json:"genres"`
	CreatedAt   time.Time              `json:"created_at"`
}

// CreatorDTO is the public directory card for a creator. It never exposes
// the email address.
type CreatorDTO struct {
	ID          uuid.UUID              `json:"id"`
	DisplayName string                 `json:"display_name"`
	Role        enums.UserRole         `json:"role"`
	Plan        enums.SubscriptionPlan `json:"plan"`
	Bio         *string                `json:"bio,omitempty"`
	Location    *string                `json:"location,omitempty"`
	AvatarURL   *string                `json:"avatar_url,omitempty"`
	Genres      []string               `json:"genres"`
	CreatedAt   time.Time              `json:"created_at"`
}

// CreatorList is a cursor page of the public directory.
type CreatorList struct {
	Creators   []CreatorDTO `json:"creators"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// UpdateProfileInput holds optional mutation values for the caller's profile.
type UpdateProfileInput struct {
	DisplayName *string
	Bio         *string
	Location    *string
	AvatarURL   *string
	Genres      *[]string
}

// DirectoryFilters narrows a creator directory query.
type DirectoryFilters struct {
	Role  *enums.UserRole
	Genre *string
	Query *string
}

// DirectoryInput carries pagination plus filters for a directory request.
type DirectoryInput struct {
	Limit   int
	Cursor  string
	Filters DirectoryFilters
}

// NewProfileDTO maps a user row into the owner-facing shape.
func NewProfileDTO(user *models.User) *ProfileDTO {
	return &ProfileDTO{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		Plan:        user.Plan,
		Bio:         user.Bio,
		Location:    user.Location,
		AvatarURL:   user.AvatarURL,
		Genres:      append([]string(nil), user.Genres...),
		CreatedAt:   user.CreatedAt,
	}
}

// NewCreatorDTO maps a user row into the public directory shape.
func NewCreatorDTO(user *models.User) CreatorDTO {
	return CreatorDTO{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		Plan:        user.Plan,
		Bio:         user.Bio,
		Location:    user.Location,
		AvatarURL:   user.AvatarURL,
		Genres:      append([]string(nil), user.Genres...),
		CreatedAt:   user.CreatedAt,
	}
}
