package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adnankhalid/painthub-backend/api/middleware"
	"github.com/adnankhalid/painthub-backend/api/responses"
	"github.com/adnankhalid/painthub-backend/api/validators"
	internalorders "github.com/adnankhalid/painthub-backend/internal/orders"
	"github.com/adnankhalid/painthub-backend/pkg/db/models"
	"github.com/adnankhalid/painthub-backend/pkg/enums"
	pkgerrors "github.com/adnankhalid/painthub-backend/pkg/errors"
	"github.com/adnankhalid/painthub-backend/pkg/logger"
	"github.com/adnankhalid/painthub-backend/pkg/pagination"
	"github.com/adnankhalid/painthub-backend/pkg/types"
)

type orderLineView struct {
	ProductID      uuid.UUID `json:"product_id"`
	VariantID      uuid.UUID `json:"variant_id"`
	ColorID        uuid.UUID `json:"color_id"`
	ProductName    string    `json:"product_name"`
	VariantSize    string    `json:"variant_size"`
	ColorName      string    `json:"color_name"`
	ColorHex       string    `json:"color_hex"`
	UnitPriceCents int       `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	LineTotalCents int       `json:"line_total_cents"`
}

type orderView struct {
	ID                uuid.UUID           `json:"id"`
	OrderNumber       string              `json:"order_number"`
	ShopperID         uuid.UUID           `json:"shopper_id"`
	Status            enums.OrderStatus   `json:"status"`
	PaymentMethod     enums.PaymentMethod `json:"payment_method"`
	Shipping          types.ShippingInfo  `json:"shipping"`
	SubtotalCents     int                 `json:"subtotal_cents"`
	DiscountCents     int                 `json:"discount_cents"`
	DeliveryFeeCents  int                 `json:"delivery_fee_cents"`
	TotalCents        int                 `json:"total_cents"`
	PromoCode         *string             `json:"promo_code,omitempty"`
	TrackingNumber    *string             `json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time          `json:"estimated_delivery,omitempty"`
	ConfirmedAt       *time.Time          `json:"confirmed_at,omitempty"`
	DeliveredAt       *time.Time          `json:"delivered_at,omitempty"`
	CanceledAt        *time.Time          `json:"canceled_at,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	Items             []orderLineView     `json:"items"`
}

type orderListView struct {
	Orders     []orderView `json:"orders"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed processing shipped delivered cancelled returned"`
}

type trackingRequest struct {
	TrackingNumber string `json:"tracking_number" validate:"required,max=64"`
}

func newOrderView(order *models.Order) orderView {
	view := orderView{
		ID:                order.ID,
		OrderNumber:       order.OrderNumber,
		ShopperID:         order.ShopperID,
		Status:            order.Status,
		PaymentMethod:     order.PaymentMethod,
		Shipping:          order.Shipping,
		SubtotalCents:     order.SubtotalCents,
		DiscountCents:     order.DiscountCents,
		DeliveryFeeCents:  order.DeliveryFeeCents,
		TotalCents:        order.TotalCents,
		PromoCode:         order.PromoCode,
		TrackingNumber:    order.TrackingNumber,
		EstimatedDelivery: order.EstimatedDelivery,
		ConfirmedAt:       order.ConfirmedAt,
		DeliveredAt:       order.DeliveredAt,
		CanceledAt:        order.CanceledAt,
		CreatedAt:         order.CreatedAt,
		Items:             make([]orderLineView, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, orderLineView{
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			ColorID:        item.ColorID,
			ProductName:    item.ProductName,
			VariantSize:    item.VariantSize,
			ColorName:      item.ColorName,
			ColorHex:       item.ColorHex,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			LineTotalCents: item.LineTotalCents,
		})
	}
	return view
}

func parseOrderID(r *http.Request) (uuid.UUID, error) {
	return validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
}

// requireOwnership fails closed when the order belongs to another shopper.
func requireOwnership(r *http.Request, order *models.Order) error {
	shopperID := middleware.ShopperIDFromContext(r.Context())
	if order.ShopperID != shopperID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return nil
}

// OrdersList pages the shopper's orders newest first.
func OrdersList(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		shopperID := middleware.ShopperIDFromContext(r.Context())

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		filters := internalorders.Filters{ShopperID: &shopperID}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, parseErr := enums.ParseOrderStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid status filter"))
				return
			}
			filters.Status = &status
		}
		if filters.DateFrom, err = validators.ParseQueryTime(r, "date_from"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.DateTo, err = validators.ParseQueryTime(r, "date_to"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := orderListView{NextCursor: list.NextCursor, Orders: make([]orderView, 0, len(list.Orders))}
		for i := range list.Orders {
			out.Orders = append(out.Orders, newOrderView(&list.Orders[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// OrdersGet returns one of the shopper's orders.
func OrdersGet(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := requireOwnership(r, order); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderView(order))
	}
}

// OrdersUpdateStatus moves an order along its lifecycle.
func OrdersUpdateStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload orderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		order, err := svc.UpdateStatus(r.Context(), orderID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderView(order))
	}
}

// OrdersCancel cancels the shopper's own order, restoring reserved stock.
func OrdersCancel(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		existing, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := requireOwnership(r, existing); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Cancel(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderView(order))
	}
}

// OrdersAttachTracking stores a carrier tracking number on an order.
func OrdersAttachTracking(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload trackingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.AttachTracking(r.Context(), orderID, payload.TrackingNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderView(order))
	}
}
