package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mrquarshie/huddle/internal/domain"
	"github.com/mrquarshie/huddle/pkg/apperrors"
	"github.com/mrquarshie/huddle/pkg/database"
	"github.com/mrquarshie/huddle/pkg/pagination"
)

// ItemRepository implements repository.ItemRepository using PostgreSQL.
type ItemRepository struct {
	db database.DBTX
}

// NewItemRepository creates a new PostgreSQL-backed item repository.
func NewItemRepository(db database.DBTX) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create inserts a new listing into the database.
func (r *ItemRepository) Create(ctx context.Context, it *domain.Item) error {
	query := `
		INSERT INTO items (id, seller_id, title, description, price, category, condition, type, university, images, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	ctx, end := database.TraceQuery(ctx, "CreateItem", query)
	_, err := r.db.Exec(ctx, query,
		it.ID,
		it.SellerID,
		it.Title,
		it.Description,
		it.Price,
		it.Category,
		it.Condition,
		it.Type,
		it.University,
		it.Images,
		it.IsAvailable,
		it.CreatedAt,
		it.UpdatedAt,
	)
	end(err)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}

	return nil
}

const itemColumns = `
	i.id, i.seller_id, i.title, i.description, i.price, i.category, i.condition, i.type,
	i.university, i.images, i.is_available, i.created_at, i.updated_at`

// GetByID retrieves a listing with the seller's identity joined.
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	query := `
		SELECT` + itemColumns + `,
			u.name, COALESCE(u.profile_image, '')
		FROM items i
		JOIN users u ON u.id = i.seller_id
		WHERE i.id = $1`

	var it domain.Item
	ctx, end := database.TraceQuery(ctx, "GetItem", query)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&it.ID,
		&it.SellerID,
		&it.Title,
		&it.Description,
		&it.Price,
		&it.Category,
		&it.Condition,
		&it.Type,
		&it.University,
		&it.Images,
		&it.IsAvailable,
		&it.CreatedAt,
		&it.UpdatedAt,
		&it.SellerName,
		&it.SellerImage,
	)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}

	return &it, nil
}

// List returns available listings matching the filter, newest first, with
// the total match count from a window function.
func (r *ItemRepository) List(ctx context.Context, filter domain.ItemFilter, p pagination.Params) ([]*domain.Item, int, error) {
	query := `
		SELECT` + itemColumns + `,
			count(*) OVER() AS total
		FROM items i
		WHERE i.is_available = TRUE`

	args := []any{}
	n := 0
	if filter.Search != "" {
		n++
		query += fmt.Sprintf(" AND (i.title ILIKE $%d OR i.description ILIKE $%d)", n, n)
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.University != "" {
		n++
		query += fmt.Sprintf(" AND i.university = $%d", n)
		args = append(args, filter.University)
	}
	if filter.Category != "" {
		n++
		query += fmt.Sprintf(" AND i.category = $%d", n)
		args = append(args, filter.Category)
	}
	if filter.Type != "" {
		n++
		query += fmt.Sprintf(" AND i.type = $%d", n)
		args = append(args, filter.Type)
	}

	query += fmt.Sprintf(" ORDER BY i.created_at DESC, i.id DESC LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, p.Limit, p.Offset)

	return r.queryItems(ctx, "ListItems", query, args...)
}

// ListBySeller returns a seller's listings, newest first, with the total
// count.
func (r *ItemRepository) ListBySeller(ctx context.Context, sellerID string, availableOnly bool, p pagination.Params) ([]*domain.Item, int, error) {
	query := `
		SELECT` + itemColumns + `,
			count(*) OVER() AS total
		FROM items i
		WHERE i.seller_id = $1`
	if availableOnly {
		query += " AND i.is_available = TRUE"
	}
	query += " ORDER BY i.created_at DESC, i.id DESC LIMIT $2 OFFSET $3"

	return r.queryItems(ctx, "ListSellerItems", query, sellerID, p.Limit, p.Offset)
}

// Update modifies an existing listing in the database.
func (r *ItemRepository) Update(ctx context.Context, it *domain.Item) error {
	it.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE items
		SET title = $1, description = $2, price = $3, category = $4, condition = $5,
		    type = $6, images = $7, is_available = $8, updated_at = $9
		WHERE id = $10`

	ctx, end := database.TraceQuery(ctx, "UpdateItem", query)
	ct, err := r.db.Exec(ctx, query,
		it.Title,
		it.Description,
		it.Price,
		it.Category,
		it.Condition,
		it.Type,
		it.Images,
		it.IsAvailable,
		it.UpdatedAt,
		it.ID,
	)
	end(err)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("Item")
	}

	return nil
}

// Delete removes a listing from the database by its ID.
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM items WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteItem", query)
	ct, err := r.db.Exec(ctx, query, id)
	end(err)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("Item")
	}

	return nil
}

// queryItems executes a list query whose final column is the window total.
func (r *ItemRepository) queryItems(ctx context.Context, operation, query string, args ...any) ([]*domain.Item, int, error) {
	ctx, end := database.TraceQuery(ctx, operation, query)
	rows, err := r.db.Query(ctx, query, args...)
	end(err)
	if err != nil {
		return nil, 0, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []*domain.Item
	var total int
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(
			&it.ID,
			&it.SellerID,
			&it.Title,
			&it.Description,
			&it.Price,
			&it.Category,
			&it.Condition,
			&it.Type,
			&it.University,
			&it.Images,
			&it.IsAvailable,
			&it.CreatedAt,
			&it.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate items: %w", err)
	}

	return items, total, nil
}
