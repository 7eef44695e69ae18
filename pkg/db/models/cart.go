package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the persisted stateful cart, one active cart per user. The
// repository assigns ids client-side so the sqlite dev path works without
// a server-side uuid function.
type Cart struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID    string     `gorm:"column:user_id;not null;uniqueIndex"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
