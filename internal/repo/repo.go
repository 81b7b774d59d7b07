package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/grocery_cart/internal/models"
)

// Store owns CartLine persistence. Mutations are atomic per
// (user_id, product_id) key; callers never touch the rows directly.
type Store interface {
	ListByUser(ctx context.Context, userID uint) ([]models.CartLine, error)
	UpsertIncrement(ctx context.Context, userID, productID, quantity uint) (*models.CartLine, error)
	DecrementOrDelete(ctx context.Context, userID, productID, quantity uint) (*RemoveResult, error)
}

// RemoveResult reports the outcome of DecrementOrDelete: Remaining is 0
// when the line was deleted outright.
type RemoveResult struct {
	Deleted   bool
	Remaining uint
}

type GormRepo struct {
	DB *gorm.DB
}

var _ Store = (*GormRepo)(nil)
