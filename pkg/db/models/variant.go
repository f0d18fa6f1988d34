package models

import (
	"time"

	"github.com/google/uuid"
)

// Variant is a sellable size of a product; the unit price lives here.
type Variant struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Size       string    `gorm:"column:size;not null"`
	PriceCents int       `gorm:"column:price_cents;not null"`
	Colors     []Color   `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
