package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adnankhalid/painthub-backend/internal/catalog"
	"github.com/adnankhalid/painthub-backend/internal/promo"
	"github.com/adnankhalid/painthub-backend/pkg/config"
	"github.com/adnankhalid/painthub-backend/pkg/db/models"
	pkgerrors "github.com/adnankhalid/painthub-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type selectionReader interface {
	WithTx(tx *gorm.DB) catalog.Reader
	GetSelection(ctx context.Context, productID, variantID, colorID uuid.UUID) (*catalog.Selection, error)
}

type promoResolver interface {
	Resolve(ctx context.Context, code string) (*promo.Rule, error)
}

// SelectionKey identifies a cart line by its full selection.
type SelectionKey struct {
	ProductID uuid.UUID
	VariantID uuid.UUID
	ColorID   uuid.UUID
}

// LineView is one cart line as returned to callers.
type LineView struct {
	SelectionKey
	Quantity       int
	UnitPriceCents int
	LineTotalCents int
}

// Totals carries the derived money fields for a cart.
type Totals struct {
	SubtotalCents    int
	DiscountCents    int
	DeliveryFeeCents int
	TotalCents       int
}

// View is the cart state handed back after every mutation.
type View struct {
	CartID    uuid.UUID
	ShopperID uuid.UUID
	PromoCode *string
	Lines     []LineView
	Totals    Totals
}

// Service exposes the cart operations.
type Service interface {
	AddLine(ctx context.Context, shopperID uuid.UUID, key SelectionKey, quantity int) (*View, error)
	SetLineQuantity(ctx context.Context, shopperID uuid.UUID, key SelectionKey, quantity int) (*View, error)
	RemoveLine(ctx context.Context, shopperID uuid.UUID, key SelectionKey) (*View, error)
	ApplyPromo(ctx context.Context, shopperID uuid.UUID, code string) (*View, error)
	Clear(ctx context.Context, shopperID uuid.UUID) error
	GetTotals(ctx context.Context, shopperID uuid.UUID) (*View, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	catalog selectionReader
	promos  promoResolver
	policy  config.CheckoutConfig
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, tx txRunner, reader selectionReader, promos promoResolver, policy config.CheckoutConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if reader == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if promos == nil {
		return nil, fmt.Errorf("promo resolver required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		catalog: reader,
		promos:  promos,
		policy:  policy,
	}, nil
}

func (k SelectionKey) validate() error {
	if k.ProductID == uuid.Nil || k.VariantID == uuid.Nil || k.ColorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product, variant and color ids are required")
	}
	return nil
}

// AddLine merges the selection into the cart, checking quantity against the
// current stock. The check is advisory; checkout re-validates authoritatively.
func (s *service) AddLine(ctx context.Context, shopperID uuid.UUID, key SelectionKey, quantity int) (*View, error) {
	if shopperID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopper id is required")
	}
	if err := key.validate(); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be at least 1")
	}

	var record *models.CartRecord
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.FindOrCreateActive(ctx, shopperID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
		}

		sel, err := s.catalog.WithTx(tx).GetSelection(ctx, key.ProductID, key.VariantID, key.ColorID)
		if err != nil {
			return err
		}

		existing := findLine(cart.Items, key)
		newQty := quantity
		if existing != nil {
			newQty += existing.Quantity
		}
		if newQty > sel.Stock {
			return pkgerrors.New(pkgerrors.CodeOutOfStock, "requested quantity exceeds available stock").
				WithDetails(map[string]any{"requested": newQty, "available": sel.Stock})
		}

		if existing != nil {
			return repo.UpdateItemQuantity(ctx, existing.ID, newQty)
		}
		return repo.CreateItem(ctx, &models.CartItem{
			CartID:         cart.ID,
			ProductID:      key.ProductID,
			VariantID:      key.VariantID,
			ColorID:        key.ColorID,
			Quantity:       quantity,
			UnitPriceCents: sel.UnitPriceCents,
		})
	})
	if err != nil {
		return nil, err
	}

	record, err = s.repo.FindActiveByShopper(ctx, shopperID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reloading cart")
	}
	return s.buildView(ctx, record), nil
}

// SetLineQuantity re-validates the new quantity against current stock.
// Quantity zero removes the line.
func (s *service) SetLineQuantity(ctx context.Context, shopperID uuid.UUID, key SelectionKey, quantity int) (*View, error) {
	if shopperID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopper id is required")
	}
	if err := key.validate(); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity cannot be negative")
	}
	if quantity == 0 {
		return s.RemoveLine(ctx, shopperID, key)
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := s.loadActiveCart(ctx, repo, shopperID)
		if err != nil {
			return err
		}

		existing := findLine(cart.Items, key)
		if existing == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}

		sel, err := s.catalog.WithTx(tx).GetSelection(ctx, key.ProductID, key.VariantID, key.ColorID)
		if err != nil {
			return err
		}
		if quantity > sel.Stock {
			return pkgerrors.New(pkgerrors.CodeOutOfStock, "requested quantity exceeds available stock").
				WithDetails(map[string]any{"requested": quantity, "available": sel.Stock})
		}
		return repo.UpdateItemQuantity(ctx, existing.ID, quantity)
	})
	if err != nil {
		return nil, err
	}
	return s.GetTotals(ctx, shopperID)
}

// RemoveLine deletes the line if present; removing an absent line is a no-op.
func (s *service) RemoveLine(ctx context.Context, shopperID uuid.UUID, key SelectionKey) (*View, error) {
	if shopperID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopper id is required")
	}
	if err := key.validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.FindActiveByShopper(ctx, shopperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.emptyView(shopperID), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}

	if err := s.repo.DeleteItem(ctx, record.ID, key.ProductID, key.VariantID, key.ColorID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing cart line")
	}
	return s.GetTotals(ctx, shopperID)
}

// ApplyPromo validates the code against the rule source before storing it. An
// invalid code leaves the cart's discount state untouched.
func (s *service) ApplyPromo(ctx context.Context, shopperID uuid.UUID, code string) (*View, error) {
	if shopperID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopper id is required")
	}

	rule, err := s.promos.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.FindOrCreateActive(ctx, shopperID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	if err := s.repo.SetPromoCode(ctx, record.ID, &rule.Code); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing promo code")
	}
	return s.GetTotals(ctx, shopperID)
}

// Clear empties all lines; the cart record itself stays active.
func (s *service) Clear(ctx context.Context, shopperID uuid.UUID) error {
	if shopperID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "shopper id is required")
	}

	record, err := s.repo.FindActiveByShopper(ctx, shopperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	if err := s.repo.DeleteItems(ctx, record.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart")
	}
	return s.repo.SetPromoCode(ctx, record.ID, nil)
}

// GetTotals returns the cart with its derived money fields.
func (s *service) GetTotals(ctx context.Context, shopperID uuid.UUID) (*View, error) {
	if shopperID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopper id is required")
	}

	record, err := s.repo.FindActiveByShopper(ctx, shopperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.emptyView(shopperID), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	return s.buildView(ctx, record), nil
}

func (s *service) loadActiveCart(ctx context.Context, repo Repository, shopperID uuid.UUID) (*models.CartRecord, error) {
	cart, err := repo.FindActiveByShopper(ctx, shopperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	return cart, nil
}

func (s *service) emptyView(shopperID uuid.UUID) *View {
	return &View{ShopperID: shopperID, Lines: []LineView{}}
}

func (s *service) buildView(ctx context.Context, record *models.CartRecord) *View {
	view := &View{
		CartID:    record.ID,
		ShopperID: record.ShopperID,
		PromoCode: record.PromoCode,
		Lines:     make([]LineView, 0, len(record.Items)),
	}

	subtotal := 0
	for _, item := range record.Items {
		lineTotal := item.UnitPriceCents * item.Quantity
		subtotal += lineTotal
		view.Lines = append(view.Lines, LineView{
			SelectionKey: SelectionKey{
				ProductID: item.ProductID,
				VariantID: item.VariantID,
				ColorID:   item.ColorID,
			},
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			LineTotalCents: lineTotal,
		})
	}

	discount := 0
	if record.PromoCode != nil {
		// The stored code is re-resolved every time; a code retired since it
		// was applied simply stops discounting.
		if rule, err := s.promos.Resolve(ctx, *record.PromoCode); err == nil {
			discount = rule.Discount(subtotal)
		}
	}

	view.Totals = s.computeTotals(subtotal, discount, len(view.Lines))
	return view
}

func (s *service) computeTotals(subtotal, discount, lineCount int) Totals {
	fee := 0
	if lineCount > 0 && subtotal < s.policy.FreeShippingThresholdCents {
		fee = s.policy.DeliveryFeeCents
	}
	total := subtotal - discount + fee
	if total < 0 {
		total = 0
	}
	return Totals{
		SubtotalCents:    subtotal,
		DiscountCents:    discount,
		DeliveryFeeCents: fee,
		TotalCents:       total,
	}
}

func findLine(items []models.CartItem, key SelectionKey) *models.CartItem {
	for i := range items {
		item := &items[i]
		if item.ProductID == key.ProductID &&
			item.VariantID == key.VariantID &&
			item.ColorID == key.ColorID {
			return item
		}
	}
	return nil
}
