package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/grocery_cart/internal/models"
)

func (r *GormRepo) ListByUser(ctx context.Context, userID uint) ([]models.CartLine, error) {
	lines := make([]models.CartLine, 0)
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *GormRepo) UpsertIncrement(ctx context.Context, userID, productID, quantity uint) (*models.CartLine, error) {
	var line models.CartLine

	upsert := func() error {
		return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.CartLine{}).
				Where("user_id = ? AND product_id = ?", userID, productID).
				Update("quantity", gorm.Expr("quantity + ?", quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				return tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&line).Error
			}

			line = models.CartLine{UserID: userID, ProductID: productID, Quantity: quantity}
			return tx.Create(&line).Error
		})
	}

	err := upsert()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent first add for the same pair won the unique-index
		// race; the line exists now, so the second attempt increments it.
		err = upsert()
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *GormRepo) DecrementOrDelete(ctx context.Context, userID, productID, quantity uint) (*RemoveResult, error) {
	var out RemoveResult

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for {
			// The guarded UPDATE only fires while quantity stays positive
			// afterwards; a stored line never drops to zero.
			res := tx.Model(&models.CartLine{}).
				Where("user_id = ? AND product_id = ? AND quantity > ?", userID, productID, quantity).
				Update("quantity", gorm.Expr("quantity - ?", quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				var line models.CartLine
				if err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&line).Error; err != nil {
					return err
				}
				out = RemoveResult{Deleted: false, Remaining: line.Quantity}
				return nil
			}

			// The DELETE re-checks quantity: without the guard it would
			// erase a line a concurrent increment grew past the requested
			// amount after the UPDATE above saw it.
			del := tx.Where("user_id = ? AND product_id = ? AND quantity <= ?", userID, productID, quantity).
				Delete(&models.CartLine{})
			if del.Error != nil {
				return del.Error
			}
			if del.RowsAffected > 0 {
				out = RemoveResult{Deleted: true, Remaining: 0}
				return nil
			}

			// Neither statement matched: the line is gone, or a concurrent
			// writer moved its quantity between the two checks. Re-read to
			// tell the cases apart and go again on the latter.
			var line models.CartLine
			err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&line).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return gorm.ErrRecordNotFound
			}
			if err != nil {
				return err
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
