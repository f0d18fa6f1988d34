package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adnankhalid/painthub-backend/pkg/db/models"
)

// Repository defines the persistence surface required by the cart service.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActiveByShopper(ctx context.Context, shopperID uuid.UUID) (*models.CartRecord, error)
	FindOrCreateActive(ctx context.Context, shopperID uuid.UUID) (*models.CartRecord, error)
	CreateItem(ctx context.Context, item *models.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, cartID, productID, variantID, colorID uuid.UUID) error
	DeleteItems(ctx context.Context, cartID uuid.UUID) error
	SetPromoCode(ctx context.Context, cartID uuid.UUID, code *string) error
	MarkConverted(ctx context.Context, cartID uuid.UUID, at time.Time) error
}
