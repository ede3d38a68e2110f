package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mrquarshie/huddle/internal/domain"
	pkgkafka "github.com/mrquarshie/huddle/pkg/kafka"
)

// Kafka topics for user and item domain events. Review creation deliberately
// publishes nothing: a review's only effect is its row.
const (
	TopicUserRegistered = "huddle.user.registered"
	TopicUserUpdated    = "huddle.user.updated"
	TopicItemCreated    = "huddle.item.created"
	TopicItemUpdated    = "huddle.item.updated"
	TopicItemDeleted    = "huddle.item.deleted"
)

// Aggregate type constants.
const (
	AggregateTypeUser = "user"
	AggregateTypeItem = "item"
)

// Source identifier for events originating from this service.
const Source = "huddle-api"

// UserData is the payload for user.registered and user.updated events.
type UserData struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	University string `json:"university"`
}

// ItemData is the payload for item lifecycle events.
type ItemData struct {
	ID          string  `json:"id"`
	SellerID    string  `json:"seller_id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	University  string  `json:"university"`
	IsAvailable bool    `json:"is_available"`
}

// Publisher is the interface services publish through, so tests can swap in
// a mock.
type Publisher interface {
	PublishUserRegistered(ctx context.Context, user *domain.User) error
	PublishUserUpdated(ctx context.Context, user *domain.User) error
	PublishItemCreated(ctx context.Context, item *domain.Item) error
	PublishItemUpdated(ctx context.Context, item *domain.Item) error
	PublishItemDeleted(ctx context.Context, item *domain.Item) error
}

// Producer publishes domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	return p.publishUser(ctx, TopicUserRegistered, user)
}

// PublishUserUpdated publishes a user.updated event.
func (p *Producer) PublishUserUpdated(ctx context.Context, user *domain.User) error {
	return p.publishUser(ctx, TopicUserUpdated, user)
}

func (p *Producer) publishUser(ctx context.Context, topic string, user *domain.User) error {
	data := UserData{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		University: user.University,
	}

	event, err := pkgkafka.NewEvent(topic, user.ID, AggregateTypeUser, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published user event",
		slog.String("topic", topic),
		slog.String("user_id", user.ID),
	)

	return nil
}

// PublishItemCreated publishes an item.created event.
func (p *Producer) PublishItemCreated(ctx context.Context, item *domain.Item) error {
	return p.publishItem(ctx, TopicItemCreated, item)
}

// PublishItemUpdated publishes an item.updated event.
func (p *Producer) PublishItemUpdated(ctx context.Context, item *domain.Item) error {
	return p.publishItem(ctx, TopicItemUpdated, item)
}

// PublishItemDeleted publishes an item.deleted event.
func (p *Producer) PublishItemDeleted(ctx context.Context, item *domain.Item) error {
	return p.publishItem(ctx, TopicItemDeleted, item)
}

func (p *Producer) publishItem(ctx context.Context, topic string, item *domain.Item) error {
	data := ItemData{
		ID:          item.ID,
		SellerID:    item.SellerID,
		Title:       item.Title,
		Price:       item.Price,
		Category:    item.Category,
		Type:        item.Type,
		University:  item.University,
		IsAvailable: item.IsAvailable,
	}

	event, err := pkgkafka.NewEvent(topic, item.ID, AggregateTypeItem, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published item event",
		slog.String("topic", topic),
		slog.String("item_id", item.ID),
	)

	return nil
}
