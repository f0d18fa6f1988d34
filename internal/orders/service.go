package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adnankhalid/painthub-backend/internal/checkout/reservation"
	"github.com/adnankhalid/painthub-backend/pkg/db/models"
	"github.com/adnankhalid/painthub-backend/pkg/enums"
	pkgerrors "github.com/adnankhalid/painthub-backend/pkg/errors"
	"github.com/adnankhalid/painthub-backend/pkg/metrics"
	"github.com/adnankhalid/painthub-backend/pkg/outbox"
	"github.com/adnankhalid/painthub-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type stockReleaser interface {
	Release(ctx context.Context, tx *gorm.DB, requests []reservation.Request) error
}

type releaseEngine struct{}

func (releaseEngine) Release(ctx context.Context, tx *gorm.DB, requests []reservation.Request) error {
	return reservation.Release(ctx, tx, requests)
}

// Service owns the lifecycle of existing orders: status transitions, tracking
// attachment and cancellation-triggered stock restoration.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, filters Filters) (*List, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
	AttachTracking(ctx context.Context, id uuid.UUID, trackingNumber string) (*models.Order, error)
	Cancel(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	outbox  outboxPublisher
	stock   stockReleaser
	metrics *metrics.CheckoutMetrics
	now     func() time.Time
}

// NewService builds an order lifecycle service with the required dependencies.
func NewService(repo Repository, tx txRunner, publisher outboxPublisher, m *metrics.CheckoutMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		outbox:  publisher,
		stock:   releaseEngine{},
		metrics: m,
		now:     time.Now,
	}, nil
}

// Get loads one order.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	return order, nil
}

// List returns orders matching the filters, newest first.
func (s *service) List(ctx context.Context, params pagination.Params, filters Filters) (*List, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	return list, nil
}

// UpdateStatus moves an order along the lifecycle. A transition into cancelled
// restores the stock reserved at checkout, atomically with the status change.
// Requesting the current status is a no-op success.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order status %q", status))
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.Get(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
		}

		if order.Status == status {
			result = order
			return nil
		}
		if !CanTransition(order.Status, status) {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition,
				fmt.Sprintf("cannot transition from %s to %s", order.Status, status)).
				WithDetails(map[string]any{"from": order.Status, "to": status})
		}

		now := s.now()
		updates := map[string]any{"status": status}
		switch status {
		case enums.OrderStatusConfirmed:
			updates["confirmed_at"] = now
		case enums.OrderStatusDelivered:
			updates["delivered_at"] = now
		case enums.OrderStatusCancelled:
			updates["canceled_at"] = now
			if err := s.restoreStock(ctx, tx, order); err != nil {
				return err
			}
		}

		if err := repo.Update(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating order status")
		}

		eventType := enums.EventOrderStatusChanged
		if status == enums.OrderStatusCancelled {
			eventType = enums.EventOrderCancelled
		}
		event := outbox.DomainEvent{
			EventType:     eventType,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			ShopperID:     &order.ShopperID,
			Data: StatusChangedEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				ShopperID:   order.ShopperID,
				FromStatus:  order.Status,
				ToStatus:    status,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emitting status event")
		}

		updated, err := repo.Get(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reloading order")
		}
		result = updated
		s.metrics.IncStatusChange(status.String())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AttachTracking stores a tracking number; allowed only while the order is
// confirmed, processing or shipped.
func (s *service) AttachTracking(ctx context.Context, id uuid.UUID, trackingNumber string) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if trackingNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking number is required")
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.Get(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
		}

		if !CanAttachTracking(order.Status) {
			return pkgerrors.New(pkgerrors.CodeInvalidState,
				fmt.Sprintf("cannot attach tracking while order is %s", order.Status)).
				WithDetails(map[string]any{"status": order.Status})
		}

		if err := repo.Update(ctx, order.ID, map[string]any{"tracking_number": trackingNumber}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing tracking number")
		}

		order.TrackingNumber = &trackingNumber
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel is sugar for UpdateStatus into cancelled.
func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.UpdateStatus(ctx, id, enums.OrderStatusCancelled)
}

func (s *service) restoreStock(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	if len(order.Items) == 0 {
		return nil
	}
	requests := make([]reservation.Request, 0, len(order.Items))
	for _, item := range order.Items {
		requests = append(requests, reservation.Request{
			LineID:  item.ID,
			ColorID: item.ColorID,
			Qty:     item.Quantity,
		})
	}
	if err := s.stock.Release(ctx, tx, requests); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restoring stock")
	}
	return nil
}
