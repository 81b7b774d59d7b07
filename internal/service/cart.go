package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/grocery_cart/internal/events"
	"github.com/Skotchmaster/grocery_cart/internal/inventory"
	"github.com/Skotchmaster/grocery_cart/internal/logging"
	"github.com/Skotchmaster/grocery_cart/internal/metrics"
	"github.com/Skotchmaster/grocery_cart/internal/models"
	"github.com/Skotchmaster/grocery_cart/internal/repo"
)

var (
	ErrValidation           = errors.New("validation")
	ErrNotFound             = errors.New("not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
)

// Inventory is the availability check performed once per add. There is no
// reservation: between this read and the store mutation the remote count
// can change, and that window is accepted.
type Inventory interface {
	FetchProduct(ctx context.Context, productID uint) (*inventory.Product, error)
}

type Publisher interface {
	Publish(ctx context.Context, topic string, event events.CartEvent) error
}

type CartService struct {
	Store     repo.Store
	Inventory Inventory
	Events    Publisher
}

func (s *CartService) GetCart(ctx context.Context, userID uint) ([]models.CartLine, error) {
	return s.Store.ListByUser(ctx, userID)
}

func (s *CartService) AddToCart(ctx context.Context, userID, productID, quantity uint) (*models.CartLine, error) {
	if quantity == 0 {
		return nil, fmt.Errorf("quantity must be greater than zero: %w", ErrValidation)
	}

	product, err := s.Inventory.FetchProduct(ctx, productID)
	switch {
	case errors.Is(err, inventory.ErrProductNotFound):
		metrics.ObserveInventoryLookup("not_found")
		return nil, ErrProductNotFound
	case err != nil:
		// Wire compatibility: an unreachable inventory reads the same as
		// a missing product, but gets logged as what it actually is.
		metrics.ObserveInventoryLookup("unavailable")
		logging.FromContext(ctx).Warn("inventory lookup failed", "product_id", productID, "error", err)
		return nil, ErrProductNotFound
	}
	metrics.ObserveInventoryLookup("ok")

	if product.Quantity < quantity {
		return nil, ErrInsufficientQuantity
	}

	line, err := s.Store.UpsertIncrement(ctx, userID, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("upsert cart line: %w", err)
	}
	metrics.ObserveCartMutation("add")

	s.publish(ctx, events.TopicCartAdded, events.CartEvent{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	})

	return line, nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID, quantity uint) (*repo.RemoveResult, error) {
	if quantity == 0 {
		return nil, fmt.Errorf("quantity must be greater than zero: %w", ErrValidation)
	}

	result, err := s.Store.DecrementOrDelete(ctx, userID, productID, quantity)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("decrement cart line: %w", err)
	}
	metrics.ObserveCartMutation("remove")

	s.publish(ctx, events.TopicCartRemoved, events.CartEvent{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Deleted:   result.Deleted,
	})

	return result, nil
}

// publish is best effort: the mutation already committed, so a broker
// failure is logged and the request still succeeds.
func (s *CartService) publish(ctx context.Context, topic string, event events.CartEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, topic, event); err != nil {
		logging.FromContext(ctx).Warn("publish cart event", "topic", topic, "error", err)
	}
}
