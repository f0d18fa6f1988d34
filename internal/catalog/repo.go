package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adnankhalid/painthub-backend/internal/repo"
	pkgerrors "github.com/adnankhalid/painthub-backend/pkg/errors"
)

// Selection is the purchasable (product, variant, color) triple with its
// current price and stock. It is a read-only snapshot; callers must re-fetch
// rather than cache it across requests.
type Selection struct {
	ProductID      uuid.UUID
	VariantID      uuid.UUID
	ColorID        uuid.UUID
	ProductName    string
	VariantSize    string
	ColorName      string
	ColorHex       string
	UnitPriceCents int
	Stock          int
}

// Reader resolves selections against the live catalog tables.
type Reader interface {
	WithTx(tx *gorm.DB) Reader
	GetSelection(ctx context.Context, productID, variantID, colorID uuid.UUID) (*Selection, error)
}

type reader struct {
	base repo.Base
}

// NewReader constructs a catalog reader bound to the provided DB.
func NewReader(db *gorm.DB) Reader {
	return &reader{base: repo.NewBase(db)}
}

// WithTx binds the reader to a transaction.
func (r *reader) WithTx(tx *gorm.DB) Reader {
	if tx == nil {
		return r
	}
	return &reader{base: r.base.Rebind(tx)}
}

// GetSelection loads the selection, verifying the color belongs to the variant
// and the variant to an active product.
func (r *reader) GetSelection(ctx context.Context, productID, variantID, colorID uuid.UUID) (*Selection, error) {
	if productID == uuid.Nil || variantID == uuid.Nil || colorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product, variant and color ids are required")
	}

	var row struct {
		ProductName    string
		VariantSize    string
		ColorName      string
		ColorHex       string
		UnitPriceCents int
		Stock          int
	}
	err := r.base.DB(ctx).
		Table("colors").
		Select(`products.name AS product_name,
			variants.size AS variant_size,
			colors.name AS color_name,
			colors.hex AS color_hex,
			variants.price_cents AS unit_price_cents,
			colors.stock AS stock`).
		Joins("JOIN variants ON variants.id = colors.variant_id").
		Joins("JOIN products ON products.id = variants.product_id").
		Where("colors.id = ? AND variants.id = ? AND products.id = ? AND products.is_active", colorID, variantID, productID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "selection not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading selection")
	}

	return &Selection{
		ProductID:      productID,
		VariantID:      variantID,
		ColorID:        colorID,
		ProductName:    row.ProductName,
		VariantSize:    row.VariantSize,
		ColorName:      row.ColorName,
		ColorHex:       row.ColorHex,
		UnitPriceCents: row.UnitPriceCents,
		Stock:          row.Stock,
	}, nil
}
