package repository

import (
	"context"

	"github.com/mrquarshie/huddle/internal/domain"
	"github.com/mrquarshie/huddle/pkg/pagination"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error
}

// ItemRepository defines the interface for listing persistence operations.
type ItemRepository interface {
	// Create inserts a new listing into the store.
	Create(ctx context.Context, item *domain.Item) error

	// GetByID retrieves a listing with its seller identity joined.
	GetByID(ctx context.Context, id string) (*domain.Item, error)

	// List returns available listings matching the filter, newest first,
	// along with the total match count.
	List(ctx context.Context, filter domain.ItemFilter, p pagination.Params) ([]*domain.Item, int, error)

	// ListBySeller returns a seller's listings, newest first, with the
	// total count. When availableOnly is set, unavailable listings are
	// excluded.
	ListBySeller(ctx context.Context, sellerID string, availableOnly bool, p pagination.Params) ([]*domain.Item, int, error)

	// Update modifies an existing listing in the store.
	Update(ctx context.Context, item *domain.Item) error

	// Delete removes a listing from the store by its identifier.
	Delete(ctx context.Context, id string) error
}

// ReviewRepository defines the interface for review persistence operations.
// Reviews are append-only; there are no update or delete operations.
type ReviewRepository interface {
	// Create inserts a new review. A uniqueness conflict on
	// (reviewer_id, reviewed_user_id) is reported as a duplicate-review
	// error; this constraint is the authoritative duplicate check.
	Create(ctx context.Context, review *domain.Review) error

	// ListByReviewedUser returns one page of reviews received by the user,
	// newest first, with reviewer identity joined and the total count.
	ListByReviewedUser(ctx context.Context, reviewedUserID string, p pagination.Params) ([]*domain.Review, int, error)

	// ListAllByReviewedUser returns every review received by the user,
	// newest first, with reviewer identity joined.
	ListAllByReviewedUser(ctx context.Context, reviewedUserID string) ([]*domain.Review, error)

	// Summary returns the mean rating and total count of the user's
	// received reviews in a single aggregate pass. An empty set yields
	// (0, 0).
	Summary(ctx context.Context, reviewedUserID string) (float64, int, error)

	// Exists reports whether the reviewer has already reviewed the user.
	// Advisory only; Create remains the authority under concurrency.
	Exists(ctx context.Context, reviewerID, reviewedUserID string) (bool, error)
}
