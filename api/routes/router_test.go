package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/bpmconnect/bpmconnect-backend/internal/auth"
	"github.com/bpmconnect/bpmconnect-backend/internal/campaigns"
	"github.com/bpmconnect/bpmconnect-backend/internal/listings"
	"github.com/bpmconnect/bpmconnect-backend/internal/messages"
	ordersvc "github.com/bpmconnect/bpmconnect-backend/internal/orders"
	"github.com/bpmconnect/bpmconnect-backend/internal/subscriptions"
	usersvc "github.com/bpmconnect/bpmconnect-backend/internal/users"
	pkgauth "github.com/bpmconnect/bpmconnect-backend/pkg/auth"
	"github.com/bpmconnect/bpmconnect-backend/pkg/config"
	"github.com/bpmconnect/bpmconnect-backend/pkg/db/models"
	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
	"github.com/bpmconnect/bpmconnect-backend/pkg/logger"
)

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, req authsvc.RegisterRequest) (*authsvc.AuthResponse, error) {
	return &authsvc.AuthResponse{}, nil
}

func (stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.AuthResponse, error) {
	return &authsvc.AuthResponse{}, nil
}

func (stubAuthService) Refresh(ctx context.Context, req authsvc.RefreshRequest) (*authsvc.RefreshResponse, error) {
	return &authsvc.RefreshResponse{}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubUsersService struct{}

func (stubUsersService) GetProfile(ctx context.Context, userID uuid.UUID) (*usersvc.ProfileDTO, error) {
	return &usersvc.ProfileDTO{}, nil
}

func (stubUsersService) UpdateProfile(ctx context.Context, userID uuid.UUID, input usersvc.UpdateProfileInput) (*usersvc.ProfileDTO, error) {
	return &usersvc.ProfileDTO{}, nil
}

func (stubUsersService) ListCreators(ctx context.Context, input usersvc.DirectoryInput) (*usersvc.CreatorList, error) {
	return &usersvc.CreatorList{}, nil
}

type stubListingsService struct{}

func (stubListingsService) Create(ctx context.Context, input listings.CreateInput) (*listings.ListingDTO, error) {
	return &listings.ListingDTO{}, nil
}

func (stubListingsService) Update(ctx context.Context, sellerID, listingID uuid.UUID, input listings.UpdateInput) (*listings.ListingDTO, error) {
	return &listings.ListingDTO{}, nil
}

func (stubListingsService) Deactivate(ctx context.Context, sellerID, listingID uuid.UUID) error {
	return nil
}

func (stubListingsService) AddExtra(ctx context.Context, sellerID, listingID uuid.UUID, input listings.ExtraInput) (*listings.ListingDTO, error) {
	return &listings.ListingDTO{}, nil
}

func (stubListingsService) Get(ctx context.Context, listingID uuid.UUID) (*listings.ListingDTO, error) {
	return &listings.ListingDTO{}, nil
}

func (stubListingsService) List(ctx context.Context, input listings.ListInput) (*listings.ListingList, error) {
	return &listings.ListingList{}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) Create(ctx context.Context, input ordersvc.CreateInput) (*models.Order, error) {
	return &models.Order{}, nil
}

func (stubOrdersService) Get(ctx context.Context, orderID, actorID uuid.UUID) (*models.Order, error) {
	return &models.Order{}, nil
}

func (stubOrdersService) List(ctx context.Context, input ordersvc.ListInput) (*ordersvc.OrderList, error) {
	return &ordersvc.OrderList{}, nil
}

func (stubOrdersService) Transition(ctx context.Context, input ordersvc.TransitionInput) (*models.Order, error) {
	return &models.Order{}, nil
}

func (stubOrdersService) RequestRevision(ctx context.Context, input ordersvc.RevisionInput) (*models.Order, error) {
	return &models.Order{}, nil
}

func (stubOrdersService) Deliver(ctx context.Context, input ordersvc.DeliverInput) (*models.Order, error) {
	return &models.Order{}, nil
}

type stubMessagesService struct{}

func (stubMessagesService) Open(ctx context.Context, input messages.OpenInput) (*messages.ConversationDTO, error) {
	return &messages.ConversationDTO{}, nil
}

func (stubMessagesService) ListConversations(ctx context.Context, userID uuid.UUID, limit int, cursor string) (*messages.ConversationList, error) {
	return &messages.ConversationList{}, nil
}

func (stubMessagesService) Send(ctx context.Context, input messages.SendInput) (*messages.MessageDTO, error) {
	return &messages.MessageDTO{}, nil
}

func (stubMessagesService) ListMessages(ctx context.Context, input messages.ListMessagesInput) (*messages.MessageList, error) {
	return &messages.MessageList{}, nil
}

func (stubMessagesService) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	return 0, nil
}

type stubCampaignsService struct{}

func (stubCampaignsService) Create(ctx context.Context, input campaigns.CreateInput) (*campaigns.CampaignDTO, error) {
	return &campaigns.CampaignDTO{}, nil
}

func (stubCampaignsService) Publish(ctx context.Context, creatorID, campaignID uuid.UUID) (*campaigns.CampaignDTO, error) {
	return &campaigns.CampaignDTO{}, nil
}

func (stubCampaignsService) Pledge(ctx context.Context, input campaigns.PledgeInput) (*campaigns.CampaignDTO, error) {
	return &campaigns.CampaignDTO{}, nil
}

func (stubCampaignsService) Close(ctx context.Context, creatorID, campaignID uuid.UUID) (*campaigns.CampaignDTO, error) {
	return &campaigns.CampaignDTO{}, nil
}

func (stubCampaignsService) Get(ctx context.Context, campaignID uuid.UUID) (*campaigns.CampaignDTO, error) {
	return &campaigns.CampaignDTO{}, nil
}

func (stubCampaignsService) List(ctx context.Context, input campaigns.ListInput) (*campaigns.CampaignList, error) {
	return &campaigns.CampaignList{}, nil
}

type stubSubscriptionsService struct{}

func (stubSubscriptionsService) Plans(ctx context.Context) []subscriptions.PlanDTO {
	return []subscriptions.PlanDTO{}
}

func (stubSubscriptionsService) Current(ctx context.Context, userID uuid.UUID) (*subscriptions.SubscriptionDTO, error) {
	return &subscriptions.SubscriptionDTO{}, nil
}

func (stubSubscriptionsService) Change(ctx context.Context, input subscriptions.ChangeInput) (*subscriptions.SubscriptionDTO, error) {
	return &subscriptions.SubscriptionDTO{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:        cfg,
		Logger:        logg,
		Sessions:      stubSessionChecker{},
		Auth:          stubAuthService{},
		Users:         stubUsersService{},
		Listings:      stubListingsService{},
		Orders:        stubOrdersService{},
		Messages:      stubMessagesService{},
		Campaigns:     stubCampaignsService{},
		Subscriptions: stubSubscriptionsService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		Plan:   enums.SubscriptionPlanFree,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestBrowseSurfacesArePublic(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, target := range []string{
		"/api/v1/services",
		"/api/v1/creators",
		"/api/v1/campaigns",
		"/api/v1/plans",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", target, resp.Code)
		}
	}
}

func TestAuthedGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAuthedGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleArtist))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestMutationRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, target := range []string{
		"/api/v1/services",
		"/api/v1/orders",
		"/api/v1/campaigns",
	} {
		req := httptest.NewRequest(http.MethodPost, target, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for POST %s got %d", target, resp.Code)
		}
	}
}
