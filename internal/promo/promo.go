package promo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/adnankhalid/painthub-backend/internal/repo"
	"github.com/adnankhalid/painthub-backend/pkg/db/models"
	"github.com/adnankhalid/painthub-backend/pkg/enums"
	pkgerrors "github.com/adnankhalid/painthub-backend/pkg/errors"
)

// Rule is the resolved discount rule for a promo code.
type Rule struct {
	Code  string
	Type  enums.PromoType
	Value int
}

// Lookup resolves promo codes to their discount rules.
type Lookup interface {
	WithTx(tx *gorm.DB) Lookup
	Resolve(ctx context.Context, code string) (*Rule, error)
}

type lookup struct {
	base repo.Base
	now  func() time.Time
}

// NewLookup constructs a promo lookup bound to the provided DB.
func NewLookup(db *gorm.DB) Lookup {
	return &lookup{base: repo.NewBase(db), now: time.Now}
}

// WithTx binds the lookup to a transaction.
func (l *lookup) WithTx(tx *gorm.DB) Lookup {
	if tx == nil {
		return l
	}
	return &lookup{base: l.base.Rebind(tx), now: l.now}
}

// Resolve returns the rule for an active, unexpired code. Unknown, inactive
// and expired codes all fail the same way so callers cannot probe the table.
func (l *lookup) Resolve(ctx context.Context, code string) (*Rule, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidPromo, "promo code is required")
	}

	var row models.PromoCode
	err := l.base.DB(ctx).
		Where("LOWER(code) = LOWER(?)", trimmed).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidPromo, "promo code not recognized")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading promo code")
	}
	if !row.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidPromo, "promo code not recognized")
	}
	if row.ExpiresAt != nil && row.ExpiresAt.Before(l.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidPromo, "promo code not recognized")
	}

	return &Rule{Code: row.Code, Type: row.Type, Value: row.Value}, nil
}

// Discount computes the discount in cents for the given subtotal, flooring
// percentage math and clamping to the subtotal.
func (r *Rule) Discount(subtotalCents int) int {
	if r == nil || subtotalCents <= 0 {
		return 0
	}
	var discount int
	switch r.Type {
	case enums.PromoTypeFixed:
		discount = r.Value
	default:
		discount = subtotalCents * r.Value / 100
	}
	if discount > subtotalCents {
		return subtotalCents
	}
	if discount < 0 {
		return 0
	}
	return discount
}
