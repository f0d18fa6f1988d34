package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/adnankhalid/painthub-backend/api/responses"
	pkgerrors "github.com/adnankhalid/painthub-backend/pkg/errors"
	"github.com/adnankhalid/painthub-backend/pkg/logger"
)

const shopperIDHeader = "X-Shopper-Id"

// ShopperContext requires a shopper identity header on every request under it
// and attaches the parsed id to the request context and log fields.
func ShopperContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(shopperIDHeader))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "X-Shopper-Id header required"))
				return
			}
			shopperID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "X-Shopper-Id must be a uuid"))
				return
			}

			ctx := WithShopperID(r.Context(), shopperID)
			if logg != nil {
				ctx = logg.WithShopperID(ctx, shopperID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
