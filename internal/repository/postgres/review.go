package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrquarshie/huddle/internal/domain"
	"github.com/mrquarshie/huddle/pkg/database"
	"github.com/mrquarshie/huddle/pkg/pagination"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	db database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(db database.DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a new review. The UNIQUE (reviewer_id, reviewed_user_id)
// constraint makes this the authoritative duplicate check: of two concurrent
// inserts for the same pair, exactly one succeeds.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, reviewer_id, reviewed_user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	ctx, end := database.TraceQuery(ctx, "CreateReview", query)
	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.ReviewerID,
		review.ReviewedUserID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateReview()
		}
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

const reviewColumns = `
	r.id, r.reviewer_id, r.reviewed_user_id, r.rating, r.comment, r.created_at,
	u.name, COALESCE(u.profile_image, '')`

// ListByReviewedUser returns one page of reviews received by the user,
// newest first with id as the tie-break, plus the total count via a window
// function so one round trip serves both.
func (r *ReviewRepository) ListByReviewedUser(ctx context.Context, reviewedUserID string, p pagination.Params) ([]*domain.Review, int, error) {
	query := `
		SELECT` + reviewColumns + `,
			count(*) OVER() AS total
		FROM reviews r
		JOIN users u ON u.id = r.reviewer_id
		WHERE r.reviewed_user_id = $1
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $2 OFFSET $3`

	ctx, end := database.TraceQuery(ctx, "ListReviews", query)
	rows, err := r.db.Query(ctx, query, reviewedUserID, p.Limit, p.Offset)
	end(err)
	if err != nil {
		return nil, 0, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*domain.Review, 0, p.Limit)
	var total int
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.ReviewerID,
			&rv.ReviewedUserID,
			&rv.Rating,
			&rv.Comment,
			&rv.CreatedAt,
			&rv.ReviewerName,
			&rv.ReviewerImage,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, &rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate reviews: %w", err)
	}

	return reviews, total, nil
}

// ListAllByReviewedUser returns every review received by the user, newest
// first, with reviewer identity joined.
func (r *ReviewRepository) ListAllByReviewedUser(ctx context.Context, reviewedUserID string) ([]*domain.Review, error) {
	query := `
		SELECT` + reviewColumns + `
		FROM reviews r
		JOIN users u ON u.id = r.reviewer_id
		WHERE r.reviewed_user_id = $1
		ORDER BY r.created_at DESC, r.id DESC`

	ctx, end := database.TraceQuery(ctx, "ListAllReviews", query)
	rows, err := r.db.Query(ctx, query, reviewedUserID)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.ReviewerID,
			&rv.ReviewedUserID,
			&rv.Rating,
			&rv.Comment,
			&rv.CreatedAt,
			&rv.ReviewerName,
			&rv.ReviewerImage,
		); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, &rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return reviews, nil
}

// Summary computes the mean rating and total count over the user's full
// review set in one aggregate pass.
func (r *ReviewRepository) Summary(ctx context.Context, reviewedUserID string) (float64, int, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews
		WHERE reviewed_user_id = $1`

	var avg float64
	var total int
	ctx, end := database.TraceQuery(ctx, "ReviewSummary", query)
	err := r.db.QueryRow(ctx, query, reviewedUserID).Scan(&avg, &total)
	end(err)
	if err != nil {
		return 0, 0, fmt.Errorf("query review summary: %w", err)
	}

	return avg, total, nil
}

// Exists reports whether the reviewer has already reviewed the user.
func (r *ReviewRepository) Exists(ctx context.Context, reviewerID, reviewedUserID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM reviews
			WHERE reviewer_id = $1 AND reviewed_user_id = $2
		)`

	var exists bool
	ctx, end := database.TraceQuery(ctx, "ReviewExists", query)
	err := r.db.QueryRow(ctx, query, reviewerID, reviewedUserID).Scan(&exists)
	end(err)
	if err != nil {
		return false, fmt.Errorf("query review exists: %w", err)
	}

	return exists, nil
}

// isUniqueViolation reports whether the error is a Postgres unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
