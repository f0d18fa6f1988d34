package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/adnankhalid/painthub-backend/api/middleware"
	"github.com/adnankhalid/painthub-backend/api/responses"
	"github.com/adnankhalid/painthub-backend/api/validators"
	cartsvc "github.com/adnankhalid/painthub-backend/internal/cart"
	pkgerrors "github.com/adnankhalid/painthub-backend/pkg/errors"
	"github.com/adnankhalid/painthub-backend/pkg/logger"
)

type cartLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
	ColorID   uuid.UUID `json:"color_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type cartSelectionRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
	ColorID   uuid.UUID `json:"color_id" validate:"required"`
}

type cartQuantityRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
	ColorID   uuid.UUID `json:"color_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=0"`
}

type cartPromoRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

type cartLineView struct {
	ProductID      uuid.UUID `json:"product_id"`
	VariantID      uuid.UUID `json:"variant_id"`
	ColorID        uuid.UUID `json:"color_id"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int       `json:"unit_price_cents"`
	LineTotalCents int       `json:"line_total_cents"`
}

type cartView struct {
	CartID    uuid.UUID      `json:"cart_id"`
	ShopperID uuid.UUID      `json:"shopper_id"`
	PromoCode *string        `json:"promo_code,omitempty"`
	Lines     []cartLineView `json:"lines"`
	Totals    cartTotalsView `json:"totals"`
}

type cartTotalsView struct {
	SubtotalCents    int `json:"subtotal_cents"`
	DiscountCents    int `json:"discount_cents"`
	DeliveryFeeCents int `json:"delivery_fee_cents"`
	TotalCents       int `json:"total_cents"`
}

func newCartView(view *cartsvc.View) cartView {
	out := cartView{
		CartID:    view.CartID,
		ShopperID: view.ShopperID,
		PromoCode: view.PromoCode,
		Lines:     make([]cartLineView, 0, len(view.Lines)),
		Totals: cartTotalsView{
			SubtotalCents:    view.Totals.SubtotalCents,
			DiscountCents:    view.Totals.DiscountCents,
			DeliveryFeeCents: view.Totals.DeliveryFeeCents,
			TotalCents:       view.Totals.TotalCents,
		},
	}
	for _, line := range view.Lines {
		out.Lines = append(out.Lines, cartLineView{
			ProductID:      line.ProductID,
			VariantID:      line.VariantID,
			ColorID:        line.ColorID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			LineTotalCents: line.LineTotalCents,
		})
	}
	return out
}

// CartFetch returns the shopper's active cart with derived totals.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		shopperID := middleware.ShopperIDFromContext(r.Context())

		view, err := svc.GetTotals(r.Context(), shopperID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(view))
	}
}

// CartAddLine adds or merges one selection into the active cart.
func CartAddLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		shopperID := middleware.ShopperIDFromContext(r.Context())

		var payload cartLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.AddLine(r.Context(), shopperID, cartsvc.SelectionKey{
			ProductID: payload.ProductID,
			VariantID: payload.VariantID,
			ColorID:   payload.ColorID,
		}, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartView(view))
	}
}

// CartSetQuantity sets an existing line to an absolute quantity; zero removes it.
func CartSetQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		shopperID := middleware.ShopperIDFromContext(r.Context())

		var payload cartQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.SetLineQuantity(r.Context(), shopperID, cartsvc.SelectionKey{
			ProductID: payload.ProductID,
			VariantID: payload.VariantID,
			ColorID:   payload.ColorID,
		}, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(view))
	}
}

// CartRemoveLine removes one selection from the cart. Removing an absent line
// still succeeds.
func CartRemoveLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		shopperID := middleware.ShopperIDFromContext(r.Context())

		var payload cartSelectionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.RemoveLine(r.Context(), shopperID, cartsvc.SelectionKey{
			ProductID: payload.ProductID,
			VariantID: payload.VariantID,
			ColorID:   payload.ColorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(view))
	}
}

// CartApplyPromo attaches a promo code after resolving it against active rules.
func CartApplyPromo(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		shopperID := middleware.ShopperIDFromContext(r.Context())

		var payload cartPromoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.ApplyPromo(r.Context(), shopperID, payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(view))
	}
}

// CartClear empties the cart and drops any promo code.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		shopperID := middleware.ShopperIDFromContext(r.Context())

		if err := svc.Clear(r.Context(), shopperID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
