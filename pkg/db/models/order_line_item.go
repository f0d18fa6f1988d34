package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLineItem captures the frozen snapshot of one cart line at checkout.
// Names and prices are copied so later catalog edits never rewrite history.
type OrderLineItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	VariantID      uuid.UUID `gorm:"column:variant_id;type:uuid;not null"`
	ColorID        uuid.UUID `gorm:"column:color_id;type:uuid;not null"`
	ProductName    string    `gorm:"column:product_name;not null"`
	VariantSize    string    `gorm:"column:variant_size;not null"`
	ColorName      string    `gorm:"column:color_name;not null"`
	ColorHex       string    `gorm:"column:color_hex;not null"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	LineTotalCents int       `gorm:"column:line_total_cents;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
