package controllers

import (
	"net/http"

	"github.com/adnankhalid/painthub-backend/api/middleware"
	"github.com/adnankhalid/painthub-backend/api/responses"
	"github.com/adnankhalid/painthub-backend/api/validators"
	checkoutsvc "github.com/adnankhalid/painthub-backend/internal/checkout"
	"github.com/adnankhalid/painthub-backend/pkg/enums"
	pkgerrors "github.com/adnankhalid/painthub-backend/pkg/errors"
	"github.com/adnankhalid/painthub-backend/pkg/logger"
	"github.com/adnankhalid/painthub-backend/pkg/types"
)

type shippingRequest struct {
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"required,max=100"`
	Email     string  `json:"email" validate:"omitempty,email"`
	Phone     string  `json:"phone" validate:"required,max=32"`
	Address   string  `json:"address" validate:"required,max=255"`
	City      string  `json:"city" validate:"required,max=100"`
	State     string  `json:"state" validate:"omitempty,max=100"`
	ZipCode   string  `json:"zip_code" validate:"omitempty,max=16"`
	Country   string  `json:"country" validate:"required,max=2"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type checkoutRequest struct {
	Shipping      shippingRequest `json:"shipping" validate:"required"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=cod card bank"`
}

// Checkout converts the shopper's active cart into a pending order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		shopperID := middleware.ShopperIDFromContext(r.Context())

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		order, err := svc.Execute(r.Context(), shopperID, checkoutsvc.Input{
			Shipping: types.ShippingInfo{
				FirstName: payload.Shipping.FirstName,
				LastName:  payload.Shipping.LastName,
				Email:     payload.Shipping.Email,
				Phone:     payload.Shipping.Phone,
				Address:   payload.Shipping.Address,
				City:      payload.Shipping.City,
				State:     payload.Shipping.State,
				ZipCode:   payload.Shipping.ZipCode,
				Country:   payload.Shipping.Country,
				Notes:     payload.Shipping.Notes,
			},
			PaymentMethod: method,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderView(order))
	}
}
