package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/adnankhalid/painthub-backend/pkg/db/models"
	"github.com/adnankhalid/painthub-backend/pkg/enums"
	pkgerrors "github.com/adnankhalid/painthub-backend/pkg/errors"
	"github.com/adnankhalid/painthub-backend/pkg/logger"
)

type fakePendingReader struct {
	cutoff time.Time
	orders []models.Order
}

func (f *fakePendingReader) FindPendingBefore(_ context.Context, cutoff time.Time) ([]models.Order, error) {
	f.cutoff = cutoff
	return f.orders, nil
}

type fakeCanceler struct {
	canceled []uuid.UUID
	errs     map[uuid.UUID]error
}

func (f *fakeCanceler) Cancel(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if err, ok := f.errs[id]; ok {
		return nil, err
	}
	f.canceled = append(f.canceled, id)
	return &models.Order{ID: id, Status: enums.OrderStatusCancelled}, nil
}

func newExpiryJob(t *testing.T, reader *fakePendingReader, canceler *fakeCanceler) *orderExpiryJob {
	t.Helper()
	job, err := NewOrderExpiryJob(OrderExpiryJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "cron-test"}),
		Pending:    reader,
		Orders:     canceler,
		PendingTTL: 240 * time.Hour,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	return job.(*orderExpiryJob)
}

func TestOrderExpiryCancelsStaleOrders(t *testing.T) {
	now := time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC)
	stale := models.Order{ID: uuid.New(), Status: enums.OrderStatusPending}
	reader := &fakePendingReader{orders: []models.Order{stale}}
	canceler := &fakeCanceler{}

	job := newExpiryJob(t, reader, canceler)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := now.Add(-240 * time.Hour); !reader.cutoff.Equal(want) {
		t.Fatalf("cutoff = %v, want %v", reader.cutoff, want)
	}
	if len(canceler.canceled) != 1 || canceler.canceled[0] != stale.ID {
		t.Fatalf("expected order %s canceled, got %v", stale.ID, canceler.canceled)
	}
}

func TestOrderExpirySkipsOrdersThatMovedOn(t *testing.T) {
	confirmed := models.Order{ID: uuid.New()}
	reader := &fakePendingReader{orders: []models.Order{confirmed}}
	canceler := &fakeCanceler{errs: map[uuid.UUID]error{
		confirmed.ID: pkgerrors.New(pkgerrors.CodeInvalidTransition, "cannot transition from delivered to cancelled"),
	}}

	job := newExpiryJob(t, reader, canceler)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("expected moved-on orders to be skipped quietly, got %v", err)
	}
}

func TestOrderExpiryAggregatesFailures(t *testing.T) {
	broken := models.Order{ID: uuid.New()}
	healthy := models.Order{ID: uuid.New()}
	reader := &fakePendingReader{orders: []models.Order{broken, healthy}}
	canceler := &fakeCanceler{errs: map[uuid.UUID]error{
		broken.ID: errors.New("db down"),
	}}

	job := newExpiryJob(t, reader, canceler)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if len(canceler.canceled) != 1 || canceler.canceled[0] != healthy.ID {
		t.Fatalf("one failure must not stop the loop: canceled %v", canceler.canceled)
	}
}
