package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adnankhalid/painthub-backend/internal/cart"
	"github.com/adnankhalid/painthub-backend/internal/catalog"
	"github.com/adnankhalid/painthub-backend/internal/checkout/reservation"
	"github.com/adnankhalid/painthub-backend/internal/orders"
	"github.com/adnankhalid/painthub-backend/internal/promo"
	"github.com/adnankhalid/painthub-backend/pkg/config"
	"github.com/adnankhalid/painthub-backend/pkg/db/models"
	"github.com/adnankhalid/painthub-backend/pkg/enums"
	pkgerrors "github.com/adnankhalid/painthub-backend/pkg/errors"
	"github.com/adnankhalid/painthub-backend/pkg/metrics"
	"github.com/adnankhalid/painthub-backend/pkg/outbox"
	"github.com/adnankhalid/painthub-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type selectionReader interface {
	WithTx(tx *gorm.DB) catalog.Reader
}

type promoResolver interface {
	WithTx(tx *gorm.DB) promo.Lookup
}

type reservationRunner interface {
	Reserve(ctx context.Context, tx *gorm.DB, requests []reservation.Request) ([]reservation.Result, error)
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type reservationEngine struct{}

func (reservationEngine) Reserve(ctx context.Context, tx *gorm.DB, requests []reservation.Request) ([]reservation.Result, error) {
	return reservation.Reserve(ctx, tx, requests)
}

// Input carries the shipping and payment facts frozen into the order.
type Input struct {
	Shipping      types.ShippingInfo
	PaymentMethod enums.PaymentMethod
}

// LineConflict reports one cart line whose stock moved between add-time and
// commit-time.
type LineConflict struct {
	ProductID uuid.UUID `json:"product_id"`
	VariantID uuid.UUID `json:"variant_id"`
	ColorID   uuid.UUID `json:"color_id"`
	Requested int       `json:"requested"`
	Available int       `json:"available"`
	Reason    string    `json:"reason"`
}

// CreatedEvent is emitted when a checkout commits.
type CreatedEvent struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	ShopperID   uuid.UUID `json:"shopper_id"`
	TotalCents  int       `json:"total_cents"`
	LineCount   int       `json:"line_count"`
}

// Service converts a shopper's active cart into an immutable order.
type Service interface {
	Execute(ctx context.Context, shopperID uuid.UUID, input Input) (*models.Order, error)
}

type service struct {
	tx          txRunner
	cartRepo    cart.Repository
	ordersRepo  orders.Repository
	catalog     selectionReader
	promos      promoResolver
	reservation reservationRunner
	outbox      outboxPublisher
	metrics     *metrics.CheckoutMetrics
	policy      config.CheckoutConfig
	now         func() time.Time
}

// NewService builds the checkout service.
func NewService(
	tx txRunner,
	cartRepo cart.Repository,
	ordersRepo orders.Repository,
	reader selectionReader,
	promos promoResolver,
	publisher outboxPublisher,
	m *metrics.CheckoutMetrics,
	policy config.CheckoutConfig,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if reader == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if promos == nil {
		return nil, fmt.Errorf("promo resolver required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		tx:          tx,
		cartRepo:    cartRepo,
		ordersRepo:  ordersRepo,
		catalog:     reader,
		promos:      promos,
		reservation: reservationEngine{},
		outbox:      publisher,
		metrics:     m,
		policy:      policy,
		now:         time.Now,
	}, nil
}

// Execute runs the whole checkout in one transaction: authoritative stock
// re-validation with guarded decrements, order freeze with status pending,
// outbox emission and cart conversion. Any failure rolls everything back.
func (s *service) Execute(ctx context.Context, shopperID uuid.UUID, input Input) (*models.Order, error) {
	if shopperID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopper id is required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown payment method %q", input.PaymentMethod))
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		record, err := cartRepo.FindActiveByShopper(ctx, shopperID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart contains no items")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
		}
		if len(record.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart contains no items")
		}

		requests := make([]reservation.Request, len(record.Items))
		for i, item := range record.Items {
			requests[i] = reservation.Request{
				LineID:  item.ID,
				ColorID: item.ColorID,
				Qty:     item.Quantity,
			}
		}
		results, err := s.reservation.Reserve(ctx, tx, requests)
		if err != nil {
			return err
		}
		if conflicts := collectConflicts(record.Items, results); len(conflicts) > 0 {
			s.metrics.IncStockConflict()
			return pkgerrors.New(pkgerrors.CodeStockChanged, "stock changed since the cart was built").
				WithDetails(map[string]any{"lines": conflicts})
		}

		subtotal := 0
		for _, item := range record.Items {
			subtotal += item.UnitPriceCents * item.Quantity
		}

		discount := 0
		if record.PromoCode != nil {
			rule, err := s.promos.WithTx(tx).Resolve(ctx, *record.PromoCode)
			if err != nil {
				return err
			}
			discount = rule.Discount(subtotal)
		}

		fee := 0
		if subtotal < s.policy.FreeShippingThresholdCents {
			fee = s.policy.DeliveryFeeCents
		}
		total := subtotal - discount + fee
		if total < 0 {
			total = 0
		}

		now := s.now()
		order := &models.Order{
			ID:               uuid.New(),
			OrderNumber:      generateOrderNumber(now),
			ShopperID:        shopperID,
			CartID:           record.ID,
			Status:           enums.OrderStatusPending,
			PaymentMethod:    input.PaymentMethod,
			Shipping:         input.Shipping,
			SubtotalCents:    subtotal,
			DiscountCents:    discount,
			DeliveryFeeCents: fee,
			TotalCents:       total,
			PromoCode:        record.PromoCode,
		}
		if days := s.policy.DeliveryEstimateDays; days > 0 {
			eta := now.AddDate(0, 0, days)
			order.EstimatedDelivery = &eta
		}

		reader := s.catalog.WithTx(tx)
		order.Items = make([]models.OrderLineItem, 0, len(record.Items))
		for _, item := range record.Items {
			sel, err := reader.GetSelection(ctx, item.ProductID, item.VariantID, item.ColorID)
			if err != nil {
				return err
			}
			order.Items = append(order.Items, models.OrderLineItem{
				ProductID:      item.ProductID,
				VariantID:      item.VariantID,
				ColorID:        item.ColorID,
				ProductName:    sel.ProductName,
				VariantSize:    sel.VariantSize,
				ColorName:      sel.ColorName,
				ColorHex:       sel.ColorHex,
				UnitPriceCents: item.UnitPriceCents,
				Quantity:       item.Quantity,
				LineTotalCents: item.UnitPriceCents * item.Quantity,
			})
		}

		if _, err := ordersRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting order")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			ShopperID:     &shopperID,
			Data: CreatedEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				ShopperID:   shopperID,
				TotalCents:  order.TotalCents,
				LineCount:   len(order.Items),
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emitting order event")
		}

		if err := cartRepo.MarkConverted(ctx, record.ID, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "converting cart")
		}

		result = order
		return nil
	})
	if err != nil {
		s.metrics.IncAttempt(attemptOutcome(err))
		return nil, err
	}

	s.metrics.IncAttempt("success")
	s.metrics.IncOrderCreated()
	return result, nil
}

func collectConflicts(items []models.CartItem, results []reservation.Result) []LineConflict {
	byLine := make(map[uuid.UUID]models.CartItem, len(items))
	for _, item := range items {
		byLine[item.ID] = item
	}

	var conflicts []LineConflict
	for _, res := range results {
		if res.Reserved {
			continue
		}
		item := byLine[res.LineID]
		conflicts = append(conflicts, LineConflict{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			ColorID:   res.ColorID,
			Requested: res.Requested,
			Available: res.Available,
			Reason:    res.Reason,
		})
	}
	return conflicts
}

func attemptOutcome(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return "error"
	}
	switch typed.Code() {
	case pkgerrors.CodeStockChanged:
		return "stock_changed"
	case pkgerrors.CodeEmptyCart:
		return "empty_cart"
	case pkgerrors.CodeInvalidPromo:
		return "invalid_promo"
	default:
		return "error"
	}
}

func generateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("PH-%s-%s", now.UTC().Format("20060102"), suffix)
}
