package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/adnankhalid/painthub-backend/pkg/enums"
	"github.com/adnankhalid/painthub-backend/pkg/types"
)

// Order is the immutable record produced at checkout. Monetary fields are
// frozen at creation; only status, tracking and the lifecycle timestamps move.
type Order struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber       string              `gorm:"column:order_number;not null;uniqueIndex"`
	ShopperID         uuid.UUID           `gorm:"column:shopper_id;type:uuid;not null;index"`
	CartID            uuid.UUID           `gorm:"column:cart_id;type:uuid;not null"`
	Status            enums.OrderStatus   `gorm:"column:status;type:order_status;not null;default:'pending'"`
	PaymentMethod     enums.PaymentMethod `gorm:"column:payment_method;type:payment_method;not null;default:'cod'"`
	Shipping          types.ShippingInfo  `gorm:"column:shipping;type:jsonb;serializer:json"`
	SubtotalCents     int                 `gorm:"column:subtotal_cents;not null"`
	DiscountCents     int                 `gorm:"column:discount_cents;not null;default:0"`
	DeliveryFeeCents  int                 `gorm:"column:delivery_fee_cents;not null;default:0"`
	TotalCents        int                 `gorm:"column:total_cents;not null"`
	PromoCode         *string             `gorm:"column:promo_code"`
	TrackingNumber    *string             `gorm:"column:tracking_number"`
	EstimatedDelivery *time.Time          `gorm:"column:estimated_delivery"`
	ConfirmedAt       *time.Time          `gorm:"column:confirmed_at"`
	DeliveredAt       *time.Time          `gorm:"column:delivered_at"`
	CanceledAt        *time.Time          `gorm:"column:canceled_at"`
	Items             []OrderLineItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
