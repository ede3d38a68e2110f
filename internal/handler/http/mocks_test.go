package http

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	"github.com/mrquarshie/huddle/internal/auth"
	"github.com/mrquarshie/huddle/internal/domain"
	"github.com/mrquarshie/huddle/internal/service"
	"github.com/mrquarshie/huddle/pkg/middleware"
	"github.com/mrquarshie/huddle/pkg/pagination"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type mockItemRepo struct {
	mock.Mock
}

func (m *mockItemRepo) Create(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockItemRepo) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *mockItemRepo) List(ctx context.Context, filter domain.ItemFilter, p pagination.Params) ([]*domain.Item, int, error) {
	args := m.Called(ctx, filter, p)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Item), args.Int(1), args.Error(2)
}

func (m *mockItemRepo) ListBySeller(ctx context.Context, sellerID string, availableOnly bool, p pagination.Params) ([]*domain.Item, int, error) {
	args := m.Called(ctx, sellerID, availableOnly, p)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Item), args.Int(1), args.Error(2)
}

func (m *mockItemRepo) Update(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockItemRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepo) ListByReviewedUser(ctx context.Context, reviewedUserID string, p pagination.Params) ([]*domain.Review, int, error) {
	args := m.Called(ctx, reviewedUserID, p)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepo) ListAllByReviewedUser(ctx context.Context, reviewedUserID string) ([]*domain.Review, error) {
	args := m.Called(ctx, reviewedUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Review), args.Error(1)
}

func (m *mockReviewRepo) Summary(ctx context.Context, reviewedUserID string) (float64, int, error) {
	args := m.Called(ctx, reviewedUserID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

func (m *mockReviewRepo) Exists(ctx context.Context, reviewerID, reviewedUserID string) (bool, error) {
	args := m.Called(ctx, reviewerID, reviewedUserID)
	return args.Bool(0), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockPublisher) PublishUserUpdated(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockPublisher) PublishItemCreated(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockPublisher) PublishItemUpdated(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockPublisher) PublishItemDeleted(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

// ============================================================================
// Test Helpers
// ============================================================================

const (
	testViewerID = "550e8400-e29b-41d4-a716-446655440001"
	testSellerID = "550e8400-e29b-41d4-a716-446655440002"
	testItemID   = "550e8400-e29b-41d4-a716-446655440003"
)

func handlerTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testEnv struct {
	userRepo   *mockUserRepo
	itemRepo   *mockItemRepo
	reviewRepo *mockReviewRepo
	producer   *mockPublisher

	users   *service.UserService
	items   *service.ItemService
	reviews *service.ReviewService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := handlerTestLogger()
	env := &testEnv{
		userRepo:   new(mockUserRepo),
		itemRepo:   new(mockItemRepo),
		reviewRepo: new(mockReviewRepo),
		producer:   new(mockPublisher),
	}
	jwtManager := auth.NewJWTManager("test-secret-key-for-testing", time.Hour)
	env.users = service.NewUserService(env.userRepo, env.itemRepo, env.reviewRepo, jwtManager, env.producer, logger)
	env.items = service.NewItemService(env.itemRepo, env.userRepo, nil, env.producer, logger)
	env.reviews = service.NewReviewService(env.reviewRepo, env.userRepo, logger)
	return env
}

// fakeTokenValidator returns a validator that always succeeds and injects
// the given userID into the request context.
func fakeTokenValidator(userID string) middleware.TokenValidator {
	return func(token string) (*middleware.Claims, error) {
		return &middleware.Claims{UserID: userID, Email: "test@st.ug.edu.gh", Role: "buyer"}, nil
	}
}

// setupRouter mirrors the production user and item routes with a fake token
// validator standing in for real JWT validation.
func setupRouter(env *testEnv, authedUserID string) *chi.Mux {
	logger := handlerTestLogger()
	userHandler := NewUserHandler(env.users, env.items, env.reviews, logger)
	itemHandler := NewItemHandler(env.items, logger)
	universityHandler := NewUniversityHandler()

	r := chi.NewRouter()
	r.Route("/api/users", func(r chi.Router) {
		r.With(middleware.OptionalAuth(fakeTokenValidator(authedUserID))).
			Get("/{id}", userHandler.GetProfile)
		r.Get("/{id}/items", userHandler.ListUserItems)
		r.Get("/{id}/reviews", userHandler.ListReviews)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(fakeTokenValidator(authedUserID)))
			r.Put("/profile", userHandler.UpdateProfile)
			r.Post("/{id}/reviews", userHandler.CreateReview)
		})
	})
	r.Route("/api/items", func(r chi.Router) {
		r.Get("/", itemHandler.List)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(fakeTokenValidator(authedUserID)))
			r.Get("/my-items", itemHandler.MyItems)
			r.Post("/", itemHandler.Create)
			r.Put("/{id}", itemHandler.Update)
			r.Delete("/{id}", itemHandler.Delete)
		})
		r.Get("/{id}", itemHandler.Get)
	})
	r.Route("/api/universities", func(r chi.Router) {
		r.Get("/", universityHandler.List)
		r.Get("/{name}/campuses", universityHandler.Campuses)
	})
	return r
}

func sampleSeller() *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		ID:         testSellerID,
		Name:       "Kofi Mensah",
		Email:      "kofi.mensah@st.ug.edu.gh",
		Phone:      "0244123456",
		University: "University of Ghana",
		Campus:     "Legon",
		Role:       domain.RoleSeller,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func sampleReview() *domain.Review {
	return &domain.Review{
		ID:             "550e8400-e29b-41d4-a716-446655440010",
		ReviewerID:     testViewerID,
		ReviewedUserID: testSellerID,
		Rating:         5,
		Comment:        "Sharp seller, met at Legon main gate.",
		ReviewerName:   "Ama Owusu",
		CreatedAt:      time.Now().UTC(),
	}
}

func sampleItem() *domain.Item {
	now := time.Now().UTC()
	return &domain.Item{
		ID:          testItemID,
		SellerID:    testSellerID,
		Title:       "Engineering drawing board",
		Description: "A1 board with parallel motion, good condition.",
		Price:       250,
		Category:    domain.CategoryOther,
		Condition:   domain.ConditionGood,
		Type:        domain.ListingSell,
		University:  "University of Ghana",
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
