package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adnankhalid/painthub-backend/internal/repo"
	"github.com/adnankhalid/painthub-backend/pkg/db"
	"github.com/adnankhalid/painthub-backend/pkg/db/models"
	"github.com/adnankhalid/painthub-backend/pkg/enums"
	pkgerrors "github.com/adnankhalid/painthub-backend/pkg/errors"
)

// repository persists carts and their lines through GORM.
type repository struct {
	base repo.Base
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{base: repo.NewBase(db)}
}

// WithTx binds the repository to a transaction.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{base: r.base.Rebind(tx)}
}

// FindActiveByShopper loads the shopper's active cart with its items in
// insertion order. Returns gorm.ErrRecordNotFound when no active cart exists.
func (r *repository) FindActiveByShopper(ctx context.Context, shopperID uuid.UUID) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.base.DB(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("shopper_id = ? AND status = ?", shopperID, enums.CartStatusActive).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindOrCreateActive returns the shopper's active cart, creating an empty one
// when none exists yet.
func (r *repository) FindOrCreateActive(ctx context.Context, shopperID uuid.UUID) (*models.CartRecord, error) {
	record, err := r.FindActiveByShopper(ctx, shopperID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := models.CartRecord{
		ID:        uuid.New(),
		ShopperID: shopperID,
		Status:    enums.CartStatusActive,
	}
	if err := r.base.DB(ctx).Create(&fresh).Error; err != nil {
		return nil, err
	}
	return &fresh, nil
}

// CreateItem inserts a new cart line. A concurrent add of the same selection
// surfaces as CONFLICT via the unique selection index.
func (r *repository) CreateItem(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if err := r.base.DB(ctx).Create(item).Error; err != nil {
		if db.IsUniqueViolation(err, "idx_cart_items_selection") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "cart line already exists for selection")
		}
		return err
	}
	return nil
}

// UpdateItemQuantity sets a line's quantity.
func (r *repository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	return r.base.DB(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

// DeleteItem removes the line matching the selection. Deleting an absent line
// is a no-op.
func (r *repository) DeleteItem(ctx context.Context, cartID, productID, variantID, colorID uuid.UUID) error {
	return r.base.DB(ctx).
		Where("cart_id = ? AND product_id = ? AND variant_id = ? AND color_id = ?",
			cartID, productID, variantID, colorID).
		Delete(&models.CartItem{}).Error
}

// DeleteItems removes every line in the cart.
func (r *repository) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	return r.base.DB(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}

// SetPromoCode stores (or clears) the cart's promo code.
func (r *repository) SetPromoCode(ctx context.Context, cartID uuid.UUID, code *string) error {
	return r.base.DB(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", cartID).
		Update("promo_code", code).Error
}

// MarkConverted closes the cart after a successful checkout.
func (r *repository) MarkConverted(ctx context.Context, cartID uuid.UUID, at time.Time) error {
	return r.base.DB(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", cartID).
		Updates(map[string]any{
			"status":       enums.CartStatusConverted,
			"converted_at": at,
		}).Error
}
