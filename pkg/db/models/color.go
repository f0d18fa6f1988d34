package models

import (
	"time"

	"github.com/google/uuid"
)

// Color is the finest-grained sellable unit. Stock is tracked here, so one
// guarded row update covers the whole (product, variant, color) selection.
type Color struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VariantID uuid.UUID `gorm:"column:variant_id;type:uuid;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	Hex       string    `gorm:"column:hex;not null"`
	Stock     int       `gorm:"column:stock;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
