package reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adnankhalid/painthub-backend/pkg/db/models"
	pkgerrors "github.com/adnankhalid/painthub-backend/pkg/errors"
)

// Request asks for qty units of one selection's color row.
type Request struct {
	LineID  uuid.UUID
	ColorID uuid.UUID
	Qty     int
}

// Result reports the outcome per request. A failed reservation carries the
// stock observed at decrement time so callers can report what changed.
type Result struct {
	LineID    uuid.UUID
	ColorID   uuid.UUID
	Requested int
	Available int
	Reserved  bool
	Reason    string
}

// Reserve decrements stock for each request with a guarded single-row UPDATE,
// so two concurrent reservations of the last unit cannot both succeed. It must
// run inside the caller's transaction: partial decrements are rolled back by
// the caller when any request fails.
func Reserve(ctx context.Context, tx *gorm.DB, requests []Request) ([]Result, error) {
	if tx == nil {
		return nil, errors.New("transaction required")
	}
	for _, req := range requests {
		if req.Qty < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("reservation quantity must be at least 1, got %d", req.Qty))
		}
		if req.ColorID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "color id is required")
		}
	}

	results := make([]Result, 0, len(requests))
	for _, req := range requests {
		res := Result{
			LineID:    req.LineID,
			ColorID:   req.ColorID,
			Requested: req.Qty,
		}

		outcome := tx.WithContext(ctx).
			Model(&models.Color{}).
			Where("id = ? AND stock >= ?", req.ColorID, req.Qty).
			Update("stock", gorm.Expr("stock - ?", req.Qty))
		if outcome.Error != nil {
			return nil, outcome.Error
		}

		if outcome.RowsAffected == 0 {
			var color models.Color
			err := tx.WithContext(ctx).
				Select("stock").
				Where("id = ?", req.ColorID).
				Take(&color).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				res.Reason = "selection no longer exists"
			case err != nil:
				return nil, err
			default:
				res.Available = color.Stock
				res.Reason = fmt.Sprintf("requested %d, only %d available", req.Qty, color.Stock)
			}
			results = append(results, res)
			continue
		}

		res.Reserved = true
		res.Available = req.Qty
		results = append(results, res)
	}

	return results, nil
}

// Release restores previously reserved stock, the inverse of Reserve. Used by
// order cancellation; runs inside the caller's transaction.
func Release(ctx context.Context, tx *gorm.DB, requests []Request) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	for _, req := range requests {
		if req.Qty < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("release quantity must be at least 1, got %d", req.Qty))
		}
		outcome := tx.WithContext(ctx).
			Model(&models.Color{}).
			Where("id = ?", req.ColorID).
			Update("stock", gorm.Expr("stock + ?", req.Qty))
		if outcome.Error != nil {
			return outcome.Error
		}
	}
	return nil
}
