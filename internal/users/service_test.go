package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bpmconnect/bpmconnect-backend/pkg/db/models"
	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
	pkgerrors "github.com/bpmconnect/bpmconnect-backend/pkg/errors"
	"github.com/bpmconnect/bpmconnect-backend/pkg/pagination"
)

type stubUsersRepo struct {
	user  *models.User
	saved *models.User
}

func (s *stubUsersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubUsersRepo) FindByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return user, nil
}

func (s *stubUsersRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return nil
}

func (s *stubUsersRepo) SaveProfile(ctx context.Context, user *models.User) error {
	s.saved = user
	return nil
}

func (s *stubUsersRepo) ListCreators(ctx context.Context, params pagination.Params, filters DirectoryFilters) (*CreatorList, error) {
	return &CreatorList{}, nil
}

func TestGetProfile(t *testing.T) {
	userID := uuid.New()
	bio := "Mix engineer in Atlanta"
	repo := &stubUsersRepo{
		user: &models.User{
			ID:          userID,
			Email:       "mix@example.com",
			DisplayName: "ATL Mixes",
			Role:        enums.UserRoleProducer,
			Plan:        enums.SubscriptionPlanPro,
			Bio:         &bio,
			Genres:      []string{"trap"},
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	profile, err := svc.GetProfile(context.Background(), userID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if profile.Email != "mix@example.com" || profile.Plan != enums.SubscriptionPlanPro {
		t.Fatalf("unexpected profile %+v", profile)
	}

	_, err = svc.GetProfile(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	userID := uuid.New()
	repo := &stubUsersRepo{
		user: &models.User{
			ID:          userID,
			Email:       "mix@example.com",
			DisplayName: "Old Name",
		},
	}
	svc, _ := NewService(repo)

	name := "  New Name  "
	genres := []string{"drill", "afrobeats"}
	profile, err := svc.UpdateProfile(context.Background(), userID, UpdateProfileInput{
		DisplayName: &name,
		Genres:      &genres,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if profile.DisplayName != "New Name" {
		t.Fatalf("display name not trimmed: %q", profile.DisplayName)
	}
	if len(profile.Genres) != 2 || profile.Genres[0] != "drill" {
		t.Fatalf("unexpected genres %v", profile.Genres)
	}
	if repo.saved == nil {
		t.Fatalf("profile not persisted")
	}
}

func TestUpdateProfileRejectsEmptyDisplayName(t *testing.T) {
	userID := uuid.New()
	repo := &stubUsersRepo{
		user: &models.User{ID: userID, DisplayName: "Keep"},
	}
	svc, _ := NewService(repo)

	blank := "   "
	_, err := svc.UpdateProfile(context.Background(), userID, UpdateProfileInput{DisplayName: &blank})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
	if repo.saved != nil {
		t.Fatalf("profile should not be saved")
	}
}

func TestCreatorDTOOmitsEmail(t *testing.T) {
	user := &models.User{
		ID:          uuid.New(),
		Email:       "secret@example.com",
		DisplayName: "Public Name",
		Genres:      []string{"house"},
	}
	dto := NewCreatorDTO(user)
	if dto.DisplayName != "Public Name" || len(dto.Genres) != 1 {
		t.Fatalf("unexpected dto %+v", dto)
	}
}
