package models

import (
	"time"

	"github.com/pigeonhq/pigeon-backend/pkg/types"
)

// Product is the canonical catalog row. The cart core only ever reads it;
// the catalog owns every mutation.
type Product struct {
	ID             string                  `gorm:"column:id;primaryKey"`
	SellerID       string                  `gorm:"column:seller_id;not null"`
	SellerName     string                  `gorm:"column:seller_name;not null"`
	Title          string                  `gorm:"column:title;not null"`
	ImageURL       string                  `gorm:"column:image_url;not null"`
	Attributes     types.ProductAttributes `gorm:"column:attributes;type:jsonb;serializer:json"`
	PriceCents     int64                   `gorm:"column:price_cents;not null"`
	ListPriceCents *int64                  `gorm:"column:list_price_cents"`
	Currency       string                  `gorm:"column:currency;not null"`
	InStock        bool                    `gorm:"column:in_stock;not null;default:true"`
	MaxOrderable   int                     `gorm:"column:max_orderable;not null;default:0"`
	MinQty         *int                    `gorm:"column:min_qty"`
	MaxQty         *int                    `gorm:"column:max_qty"`
	CreatedAt      time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
