package models

// CartLine is one (user, product) quantity record. The unique index keeps
// quantity changes on the existing line instead of creating duplicates.
type CartLine struct {
	ID        uint `gorm:"primaryKey"                            json:"id"`
	UserID    uint `gorm:"uniqueIndex:idx_user_product;not null" json:"user_id"`
	ProductID uint `gorm:"uniqueIndex:idx_user_product;not null" json:"product_id"`
	Quantity  uint `gorm:"not null;check:quantity>0"             json:"quantity"`
}

func (CartLine) TableName() string {
	return "cart_lines"
}
