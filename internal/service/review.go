package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mrquarshie/huddle/internal/domain"
	"github.com/mrquarshie/huddle/internal/repository"
	"github.com/mrquarshie/huddle/pkg/apperrors"
	"github.com/mrquarshie/huddle/pkg/pagination"
)

// ReviewService implements the business logic for peer reviews.
type ReviewService struct {
	reviewRepo repository.ReviewRepository
	userRepo   repository.UserRepository
	logger     *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// CreateReviewInput holds the parameters for creating a review. Rating is a
// pointer so a missing or fractional value surfaces as a field violation
// rather than a decode error.
type CreateReviewInput struct {
	ReviewerID     string
	ReviewedUserID string
	Rating         *float64
	Comment        string
}

// Create validates and persists a review, returning it with the reviewer's
// identity attached. Checks run in a fixed order: field validation,
// self-review, target existence, duplicate. The duplicate pre-check is
// advisory; the storage uniqueness constraint is authoritative, so a lost
// race still comes back as a duplicate-review error.
func (s *ReviewService) Create(ctx context.Context, input CreateReviewInput) (*domain.Review, error) {
	review, err := domain.NewReview(input.ReviewerID, input.ReviewedUserID, input.Rating, input.Comment)
	if err != nil {
		return nil, err
	}

	if input.ReviewerID == input.ReviewedUserID {
		return nil, domain.ErrSelfReview()
	}

	if _, err := s.userRepo.GetByID(ctx, input.ReviewedUserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("User")
		}
		return nil, fmt.Errorf("get reviewed user: %w", err)
	}

	exists, err := s.reviewRepo.Exists(ctx, input.ReviewerID, input.ReviewedUserID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateReview()
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	// Attach the reviewer's identity for the response, the way the listing
	// reads join it.
	reviewer, err := s.userRepo.GetByID(ctx, input.ReviewerID)
	if err != nil {
		s.logger.WarnContext(ctx, "review created but reviewer lookup failed",
			slog.String("review_id", review.ID),
			slog.String("reviewer_id", input.ReviewerID),
			slog.String("error", err.Error()),
		)
	} else {
		review.ReviewerName = reviewer.Name
		review.ReviewerImage = reviewer.ProfileImage
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("reviewer_id", review.ReviewerID),
		slog.String("reviewed_user_id", review.ReviewedUserID),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}

// ReviewPage is one page of a user's received reviews plus the aggregates
// computed over the full set.
type ReviewPage struct {
	Reviews     []*domain.Review
	Summary     domain.RatingSummary
	Total       int
	TotalPages  int
	CurrentPage int
}

// List returns a page of reviews received by the user, newest first,
// together with the average rating and total count over all of them.
func (s *ReviewService) List(ctx context.Context, reviewedUserID string, p pagination.Params) (*ReviewPage, error) {
	reviews, total, err := s.reviewRepo.ListByReviewedUser(ctx, reviewedUserID, p)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	avg, count, err := s.reviewRepo.Summary(ctx, reviewedUserID)
	if err != nil {
		return nil, fmt.Errorf("summarize reviews: %w", err)
	}

	// The listing derives its count from a window function, which yields no
	// rows when the requested page is past the end. The aggregate count covers
	// the same set, so fall back to it to keep paging totals stable.
	if total == 0 {
		total = count
	}

	return &ReviewPage{
		Reviews:     reviews,
		Summary:     domain.NewRatingSummary(avg, count),
		Total:       total,
		TotalPages:  pagination.TotalPages(total, p.Limit),
		CurrentPage: p.Page,
	}, nil
}

// CanReview reports whether the viewer may review the profile user. An
// anonymous viewer (empty viewerID) is never eligible.
func (s *ReviewService) CanReview(ctx context.Context, viewerID, profileUserID string) (bool, error) {
	if viewerID == "" || viewerID == profileUserID {
		return false, nil
	}

	reviewed, err := s.reviewRepo.Exists(ctx, viewerID, profileUserID)
	if err != nil {
		return false, fmt.Errorf("check existing review: %w", err)
	}

	return domain.CanReview(viewerID, profileUserID, reviewed), nil
}
