package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one persisted line of a stateful cart. Prices are stored per
// unit in subunits; quantity is constrained to [1, 99] at the boundary.
type CartItem struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CartID            uuid.UUID `gorm:"column:cart_id;type:uuid;not null"`
	SellerID          uuid.UUID `gorm:"column:seller_id;type:uuid;not null"`
	ProductImage      *string   `gorm:"column:product_image"`
	ProductTitle      string    `gorm:"column:product_title;not null"`
	PricePerUnitCents int64     `gorm:"column:price_per_unit_cents;not null"`
	Quantity          int       `gorm:"column:quantity;not null"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
