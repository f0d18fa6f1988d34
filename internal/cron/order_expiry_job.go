package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/adnankhalid/painthub-backend/pkg/db/models"
	pkgerrors "github.com/adnankhalid/painthub-backend/pkg/errors"
	"github.com/adnankhalid/painthub-backend/pkg/logger"
)

type pendingOrderReader interface {
	FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
}

type orderCanceler interface {
	Cancel(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// OrderExpiryJobParams configure the pending order expiry job.
type OrderExpiryJobParams struct {
	Logger     *logger.Logger
	Pending    pendingOrderReader
	Orders     orderCanceler
	PendingTTL time.Duration
}

// NewOrderExpiryJob builds the cron job that cancels orders left pending past
// their TTL, restoring the stock they reserved.
func NewOrderExpiryJob(params OrderExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Pending == nil {
		return nil, fmt.Errorf("pending orders reader required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order service required")
	}
	if params.PendingTTL <= 0 {
		return nil, fmt.Errorf("pending TTL must be positive")
	}
	return &orderExpiryJob{
		logg:       params.Logger,
		pending:    params.Pending,
		orders:     params.Orders,
		pendingTTL: params.PendingTTL,
		now:        time.Now,
	}, nil
}

type orderExpiryJob struct {
	logg       *logger.Logger
	pending    pendingOrderReader
	orders     orderCanceler
	pendingTTL time.Duration
	now        func() time.Time
}

func (j *orderExpiryJob) Name() string { return "order-expiry" }

func (j *orderExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.pendingTTL)
	stale, err := j.pending.FindPendingBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("query stale pending orders: %w", err)
	}

	var errs []error
	canceled := 0
	for _, order := range stale {
		if _, err := j.orders.Cancel(ctx, order.ID); err != nil {
			// The order may have moved on since the query snapshot.
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeInvalidTransition {
				continue
			}
			errs = append(errs, fmt.Errorf("cancel order %s: %w", order.ID, err))
			continue
		}
		canceled++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{"stale": len(stale), "canceled": canceled})
	j.logg.Info(logCtx, "pending order expiry loop complete")
	return multierr.Combine(errs...)
}
