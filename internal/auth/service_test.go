package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/bpmconnect/bpmconnect-backend/pkg/auth"
	"github.com/bpmconnect/bpmconnect-backend/pkg/auth/session"
	"github.com/bpmconnect/bpmconnect-backend/pkg/config"
	"github.com/bpmconnect/bpmconnect-backend/pkg/db/models"
	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
	pkgerrors "github.com/bpmconnect/bpmconnect-backend/pkg/errors"
	"github.com/bpmconnect/bpmconnect-backend/pkg/security"
)

type stubUserRepo struct {
	byEmail map[string]*models.User
	created *models.User
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.created = user
	return user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

type stubSessionManager struct {
	rotateErr error
	revoked   string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return "refresh-" + accessID, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return "new-access-id", "new-refresh-token", nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = accessID
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "bpmconnect-test",
		ExpirationMinutes: 15,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T, repo *stubUserRepo, sessions *stubSessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func TestRegisterIssuesTokens(t *testing.T) {
	repo := &stubUserRepo{byEmail: map[string]*models.User{}}
	svc := newTestService(t, repo, &stubSessionManager{})

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:       " Artist@Example.COM ",
		Password:    "correct-horse",
		DisplayName: "New Artist",
		Role:        "artist",
		Genres:      []string{"soul"},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("tokens missing from response")
	}
	if repo.created == nil || repo.created.Email != "artist@example.com" {
		t.Fatalf("email not normalized: %+v", repo.created)
	}
	if repo.created.Plan != enums.SubscriptionPlanFree {
		t.Fatalf("new accounts should start on free, got %s", repo.created.Plan)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("minted token does not parse: %v", err)
	}
	if claims.UserID != repo.created.ID || claims.Role != enums.UserRoleArtist {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := &stubUserRepo{byEmail: map[string]*models.User{
		"taken@example.com": {ID: uuid.New(), Email: "taken@example.com"},
	}}
	svc := newTestService(t, repo, &stubSessionManager{})

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "taken@example.com",
		Password:    "correct-horse",
		DisplayName: "Dup",
		Role:        "producer",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict got %v", err)
	}
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc := newTestService(t, &stubUserRepo{byEmail: map[string]*models.User{}}, &stubSessionManager{})

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "sneaky@example.com",
		Password:    "correct-horse",
		DisplayName: "Sneaky",
		Role:        "admin",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestLogin(t *testing.T) {
	hash, err := security.HashPassword("correct-horse", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        "artist@example.com",
		PasswordHash: hash,
		DisplayName:  "Artist",
		Role:         enums.UserRoleArtist,
		Plan:         enums.SubscriptionPlanPro,
		IsActive:     true,
	}
	repo := &stubUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc := newTestService(t, repo, &stubSessionManager{})

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Artist@Example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("minted token does not parse: %v", err)
	}
	if claims.Plan != enums.SubscriptionPlanPro {
		t.Fatalf("plan claim missing, got %s", claims.Plan)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "artist@example.com",
		Password: "wrong-password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized got %v", err)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	hash, _ := security.HashPassword("correct-horse", testPasswordConfig())
	user := &models.User{
		ID:           uuid.New(),
		Email:        "gone@example.com",
		PasswordHash: hash,
		Role:         enums.UserRoleArtist,
		Plan:         enums.SubscriptionPlanFree,
		IsActive:     false,
	}
	repo := &stubUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc := newTestService(t, repo, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "correct-horse"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	svc := newTestService(t, &stubUserRepo{byEmail: map[string]*models.User{}}, &stubSessionManager{})

	accessToken, err := pkgauth.MintAccessToken(testJWTConfig(), time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleEngineer,
		Plan:   enums.SubscriptionPlanBoss,
		JTI:    "old-access-id",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  accessToken,
		RefreshToken: "old-refresh-token",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if resp.RefreshToken != "new-refresh-token" {
		t.Fatalf("unexpected refresh token %q", resp.RefreshToken)
	}
	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("rotated token does not parse: %v", err)
	}
	if claims.ID != "new-access-id" || claims.Plan != enums.SubscriptionPlanBoss {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestRefreshInvalidToken(t *testing.T) {
	sessions := &stubSessionManager{rotateErr: session.ErrInvalidRefreshToken}
	svc := newTestService(t, &stubUserRepo{byEmail: map[string]*models.User{}}, sessions)

	accessToken, _ := pkgauth.MintAccessToken(testJWTConfig(), time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleArtist,
		Plan:   enums.SubscriptionPlanFree,
		JTI:    "old-access-id",
	})

	_, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  accessToken,
		RefreshToken: "stolen",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized got %v", err)
	}
}

func TestLogout(t *testing.T) {
	sessions := &stubSessionManager{}
	svc := newTestService(t, &stubUserRepo{byEmail: map[string]*models.User{}}, sessions)

	if err := svc.Logout(context.Background(), "access-id"); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if sessions.revoked != "access-id" {
		t.Fatalf("session not revoked")
	}

	err := svc.Logout(context.Background(), "  ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized got %v", err)
	}
}
