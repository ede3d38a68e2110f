package domain

import (
	"math"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mrquarshie/huddle/pkg/apperrors"
)

// Rating bounds and comment limit for reviews.
const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 500
)

// Review is one user's rating of another. Reviews are immutable once
// created, and a reviewer may review a given user at most once.
type Review struct {
	ID             string    `json:"id"`
	ReviewerID     string    `json:"reviewerId"`
	ReviewedUserID string    `json:"reviewedUserId"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment"`
	CreatedAt      time.Time `json:"createdAt"`

	// Reviewer identity, joined on reads.
	ReviewerName  string `json:"reviewerName,omitempty"`
	ReviewerImage string `json:"reviewerImage,omitempty"`
}

// NewReview validates the inputs and builds a Review ready for persistence.
// Every violated constraint is reported, not just the first. The rating
// arrives as a *float64 so that a missing value and a non-integer value can
// both be rejected with the same field error instead of a decode failure.
func NewReview(reviewerID, reviewedUserID string, rating *float64, comment string) (*Review, error) {
	valErr := apperrors.NewValidationError()

	switch {
	case rating == nil:
		valErr.Add("rating", "Rating must be between 1 and 5")
	case *rating != math.Trunc(*rating):
		valErr.Add("rating", "Rating must be between 1 and 5")
	case *rating < MinRating || *rating > MaxRating:
		valErr.Add("rating", "Rating must be between 1 and 5")
	}

	comment = strings.TrimSpace(comment)
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		valErr.Add("comment", "Comment must be less than 500 characters")
	}

	if valErr.HasViolations() {
		return nil, valErr
	}

	return &Review{
		ID:             uuid.New().String(),
		ReviewerID:     reviewerID,
		ReviewedUserID: reviewedUserID,
		Rating:         int(*rating),
		Comment:        comment,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// RatingSummary aggregates a user's received reviews.
type RatingSummary struct {
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
}

// NewRatingSummary rounds the average to one decimal place. An empty review
// set yields an average of 0, not NaN.
func NewRatingSummary(average float64, total int) RatingSummary {
	if total == 0 {
		return RatingSummary{}
	}
	return RatingSummary{
		AverageRating: math.Round(average*10) / 10,
		TotalReviews:  total,
	}
}

// CanReview reports whether the viewer may leave a review on the given
// profile: they must be signed in, not be looking at themselves, and not
// have reviewed this user before.
func CanReview(viewerID, profileUserID string, alreadyReviewed bool) bool {
	if viewerID == "" || viewerID == profileUserID {
		return false
	}
	return !alreadyReviewed
}

// ErrSelfReview is returned when a user attempts to review themselves.
func ErrSelfReview() *apperrors.AppError {
	return &apperrors.AppError{
		Code:    "SELF_REVIEW",
		Message: "You cannot review yourself",
		Status:  http.StatusBadRequest,
		Err:     apperrors.ErrInvalidInput,
	}
}

// ErrDuplicateReview is returned when the reviewer has already reviewed the
// target user, whether caught by the advisory pre-check or the storage
// uniqueness constraint.
func ErrDuplicateReview() *apperrors.AppError {
	return apperrors.AlreadyExists("You have already reviewed this user")
}
