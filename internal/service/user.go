package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrquarshie/huddle/internal/auth"
	"github.com/mrquarshie/huddle/internal/domain"
	"github.com/mrquarshie/huddle/internal/event"
	"github.com/mrquarshie/huddle/internal/repository"
	"github.com/mrquarshie/huddle/pkg/apperrors"
	"github.com/mrquarshie/huddle/pkg/pagination"
	"github.com/mrquarshie/huddle/pkg/validator"
)

const bcryptCost = 12

// profileItemLimit caps the number of listings embedded in a public profile.
const profileItemLimit = 20

// UserService implements account registration, authentication and profile
// management.
type UserService struct {
	userRepo   repository.UserRepository
	itemRepo   repository.ItemRepository
	reviewRepo repository.ReviewRepository
	jwtManager *auth.JWTManager
	producer   event.Publisher
	logger     *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repository.UserRepository,
	itemRepo repository.ItemRepository,
	reviewRepo repository.ReviewRepository,
	jwtManager *auth.JWTManager,
	producer event.Publisher,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		itemRepo:   itemRepo,
		reviewRepo: reviewRepo,
		jwtManager: jwtManager,
		producer:   producer,
		logger:     logger,
	}
}

// RegisterInput holds the parameters for account registration.
type RegisterInput struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6,max=72"`
	Phone      string `json:"phone" validate:"omitempty,min=9,max=20"`
	University string `json:"university" validate:"required"`
	Campus     string `json:"campus" validate:"omitempty,max=100"`
	Role       string `json:"role" validate:"required,oneof=buyer seller"`
}

// AuthResult is a signed token together with the account it authenticates.
type AuthResult struct {
	Token string
	User  *domain.User
}

// Register creates a new account and returns it with a signed token.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}
	if !domain.ValidUniversity(input.University) {
		valErr := apperrors.NewValidationError()
		valErr.Add("university", "University is not recognized")
		return nil, valErr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(input.Phone),
		University:   input.University,
		Campus:       input.Campus,
		Role:         input.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.jwtManager.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	// Event publishing must not fail the registration.
	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.WarnContext(ctx, "failed to publish user registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("university", user.University),
		slog.String("role", user.Role),
	)

	return &AuthResult{Token: token, User: user}, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates an account by email and password. Lookup misses and
// password mismatches return the same error so the response does not reveal
// which part failed.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid credentials")
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}

	token, err := s.jwtManager.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &AuthResult{Token: token, User: user}, nil
}

// GetByID returns the account with the given id.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("User")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateProfileInput holds the mutable profile fields. Nil pointers leave
// the stored value unchanged.
type UpdateProfileInput struct {
	Name         *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone        *string `json:"phone" validate:"omitempty,min=9,max=20"`
	ProfileImage *string `json:"profileImage" validate:"omitempty,max=500"`
}

// UpdateProfile applies a partial update to the caller's profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.ProfileImage != nil {
		user.ProfileImage = *input.ProfileImage
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.producer.PublishUserUpdated(ctx, user); err != nil {
		s.logger.WarnContext(ctx, "failed to publish user updated event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	return user, nil
}

// Profile assembles the public profile bundle for a user: the account, their
// available listings, every review they have received with aggregates, and
// whether the viewer may add one. viewerID is empty for anonymous viewers.
func (s *UserService) Profile(ctx context.Context, profileUserID, viewerID string) (*domain.PublicProfile, error) {
	user, err := s.GetByID(ctx, profileUserID)
	if err != nil {
		return nil, err
	}

	items, _, err := s.itemRepo.ListBySeller(ctx, profileUserID, true, pagination.Params{Page: 1, Limit: profileItemLimit})
	if err != nil {
		return nil, fmt.Errorf("list profile items: %w", err)
	}

	reviews, err := s.reviewRepo.ListAllByReviewedUser(ctx, profileUserID)
	if err != nil {
		return nil, fmt.Errorf("list profile reviews: %w", err)
	}

	avg, count, err := s.reviewRepo.Summary(ctx, profileUserID)
	if err != nil {
		return nil, fmt.Errorf("summarize profile reviews: %w", err)
	}
	summary := domain.NewRatingSummary(avg, count)

	canReview := false
	if viewerID != "" && viewerID != profileUserID {
		reviewed, err := s.reviewRepo.Exists(ctx, viewerID, profileUserID)
		if err != nil {
			return nil, fmt.Errorf("check existing review: %w", err)
		}
		canReview = domain.CanReview(viewerID, profileUserID, reviewed)
	}

	return &domain.PublicProfile{
		User:          user,
		Items:         items,
		Reviews:       reviews,
		AverageRating: summary.AverageRating,
		RatingCount:   summary.TotalReviews,
		CanReview:     canReview,
	}, nil
}
