package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/adnankhalid/painthub-backend/pkg/db/models"
	"github.com/adnankhalid/painthub-backend/pkg/enums"
)

// Filters describe the inputs supported by the orders list.
type Filters struct {
	ShopperID *uuid.UUID
	Status    *enums.OrderStatus
	DateFrom  *time.Time
	DateTo    *time.Time
}

// List wraps the paginated orders plus the next page cursor.
type List struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// StatusChangedEvent is emitted whenever an order moves to a new status.
type StatusChangedEvent struct {
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	ShopperID   uuid.UUID         `json:"shopper_id"`
	FromStatus  enums.OrderStatus `json:"from_status"`
	ToStatus    enums.OrderStatus `json:"to_status"`
}
