package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/adnankhalid/painthub-backend/pkg/enums"
)

// CartRecord is a shopper-scoped working cart. One active cart per shopper
// accumulates items until checkout converts it into an order.
type CartRecord struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShopperID   uuid.UUID        `gorm:"column:shopper_id;type:uuid;not null;index"`
	Status      enums.CartStatus `gorm:"column:status;type:cart_status;not null;default:'active'"`
	PromoCode   *string          `gorm:"column:promo_code"`
	ConvertedAt *time.Time       `gorm:"column:converted_at"`
	Items       []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
