package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mrquarshie/huddle/internal/domain"
	"github.com/mrquarshie/huddle/internal/event"
	"github.com/mrquarshie/huddle/internal/repository"
	redisrepo "github.com/mrquarshie/huddle/internal/repository/redis"
	"github.com/mrquarshie/huddle/pkg/apperrors"
	"github.com/mrquarshie/huddle/pkg/pagination"
	"github.com/mrquarshie/huddle/pkg/validator"
)

// ItemService implements the marketplace listing logic.
type ItemService struct {
	itemRepo repository.ItemRepository
	userRepo repository.UserRepository
	cache    *redisrepo.ItemCache
	producer event.Publisher
	logger   *slog.Logger
}

// NewItemService creates a new item service. cache may be nil, in which case
// every feed read goes to the store.
func NewItemService(
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	cache *redisrepo.ItemCache,
	producer event.Publisher,
	logger *slog.Logger,
) *ItemService {
	return &ItemService{
		itemRepo: itemRepo,
		userRepo: userRepo,
		cache:    cache,
		producer: producer,
		logger:   logger,
	}
}

// CreateItemInput holds the parameters for creating a listing.
type CreateItemInput struct {
	Title       string   `json:"title" validate:"required,min=3,max=100"`
	Description string   `json:"description" validate:"required,min=10,max=1000"`
	Price       float64  `json:"price" validate:"gte=0"`
	Category    string   `json:"category" validate:"required,oneof=books electronics clothing furniture services other"`
	Condition   string   `json:"condition" validate:"omitempty,oneof=new like-new good fair"`
	Type        string   `json:"type" validate:"required,oneof=sell buy"`
	Images      []string `json:"images" validate:"max=5,dive,max=500"`
}

// Create publishes a new listing under the seller's university.
func (s *ItemService) Create(ctx context.Context, sellerID string, input CreateItemInput) (*domain.Item, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	seller, err := s.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("User")
		}
		return nil, fmt.Errorf("get seller: %w", err)
	}

	now := time.Now().UTC()
	item := &domain.Item{
		ID:          uuid.New().String(),
		SellerID:    seller.ID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Condition:   input.Condition,
		Type:        input.Type,
		University:  seller.University,
		Images:      input.Images,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
		SellerName:  seller.Name,
		SellerImage: seller.ProfileImage,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.invalidateFeed(ctx)

	if err := s.producer.PublishItemCreated(ctx, item); err != nil {
		s.logger.WarnContext(ctx, "failed to publish item created event",
			slog.String("item_id", item.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "item created",
		slog.String("item_id", item.ID),
		slog.String("seller_id", item.SellerID),
		slog.String("category", item.Category),
	)

	return item, nil
}

// ItemPage is one page of listings.
type ItemPage struct {
	Items       []*domain.Item
	Total       int
	TotalPages  int
	CurrentPage int
}

// List returns a page of the public browse feed, served from the cache when
// possible.
func (s *ItemService) List(ctx context.Context, filter domain.ItemFilter, p pagination.Params) (*ItemPage, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, filter, p)
		if err != nil {
			s.logger.WarnContext(ctx, "item feed cache read failed", slog.String("error", err.Error()))
		} else if cached != nil {
			return &ItemPage{
				Items:       cached.Items,
				Total:       cached.Total,
				TotalPages:  pagination.TotalPages(cached.Total, p.Limit),
				CurrentPage: p.Page,
			}, nil
		}
	}

	items, total, err := s.itemRepo.List(ctx, filter, p)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, filter, p, &redisrepo.FeedPage{Items: items, Total: total}); err != nil {
			s.logger.WarnContext(ctx, "item feed cache write failed", slog.String("error", err.Error()))
		}
	}

	return &ItemPage{
		Items:       items,
		Total:       total,
		TotalPages:  pagination.TotalPages(total, p.Limit),
		CurrentPage: p.Page,
	}, nil
}

// GetByID returns a single listing with its seller identity.
func (s *ItemService) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("Item")
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// UpdateItemInput holds the mutable listing fields. Nil pointers leave the
// stored value unchanged.
type UpdateItemInput struct {
	Title       *string  `json:"title" validate:"omitempty,min=3,max=100"`
	Description *string  `json:"description" validate:"omitempty,min=10,max=1000"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Category    *string  `json:"category" validate:"omitempty,oneof=books electronics clothing furniture services other"`
	Condition   *string  `json:"condition" validate:"omitempty,oneof=new like-new good fair"`
	Images      []string `json:"images" validate:"max=5,dive,max=500"`
	IsAvailable *bool    `json:"isAvailable"`
}

// Update applies a partial update to a listing the caller owns.
func (s *ItemService) Update(ctx context.Context, callerID, itemID string, input UpdateItemInput) (*domain.Item, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	item, err := s.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.SellerID != callerID {
		return nil, apperrors.Forbidden("Not authorized")
	}

	if input.Title != nil {
		item.Title = *input.Title
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Price != nil {
		item.Price = *input.Price
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.Condition != nil {
		item.Condition = *input.Condition
	}
	if input.Images != nil {
		item.Images = input.Images
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.invalidateFeed(ctx)

	if err := s.producer.PublishItemUpdated(ctx, item); err != nil {
		s.logger.WarnContext(ctx, "failed to publish item updated event",
			slog.String("item_id", item.ID),
			slog.String("error", err.Error()),
		)
	}

	return item, nil
}

// Delete removes a listing the caller owns.
func (s *ItemService) Delete(ctx context.Context, callerID, itemID string) error {
	item, err := s.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.SellerID != callerID {
		return apperrors.Forbidden("Not authorized")
	}

	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		return err
	}

	s.invalidateFeed(ctx)

	if err := s.producer.PublishItemDeleted(ctx, item); err != nil {
		s.logger.WarnContext(ctx, "failed to publish item deleted event",
			slog.String("item_id", item.ID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// ListBySeller returns a page of a user's listings. availableOnly hides
// listings marked sold for public profile views.
func (s *ItemService) ListBySeller(ctx context.Context, sellerID string, availableOnly bool, p pagination.Params) (*ItemPage, error) {
	items, total, err := s.itemRepo.ListBySeller(ctx, sellerID, availableOnly, p)
	if err != nil {
		return nil, fmt.Errorf("list seller items: %w", err)
	}

	return &ItemPage{
		Items:       items,
		Total:       total,
		TotalPages:  pagination.TotalPages(total, p.Limit),
		CurrentPage: p.Page,
	}, nil
}

func (s *ItemService) invalidateFeed(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "item feed cache invalidation failed", slog.String("error", err.Error()))
	}
}
