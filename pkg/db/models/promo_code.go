package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/adnankhalid/painthub-backend/pkg/enums"
)

// PromoCode is a discount rule. Percentage codes store the percent in Value;
// fixed codes store an amount in the smallest currency unit.
type PromoCode struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code      string          `gorm:"column:code;not null;uniqueIndex"`
	Type      enums.PromoType `gorm:"column:type;type:promo_type;not null;default:'percentage'"`
	Value     int             `gorm:"column:value;not null"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
	ExpiresAt *time.Time      `gorm:"column:expires_at"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
