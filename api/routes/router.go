package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adnankhalid/painthub-backend/api/controllers"
	"github.com/adnankhalid/painthub-backend/api/middleware"
	cartsvc "github.com/adnankhalid/painthub-backend/internal/cart"
	checkoutsvc "github.com/adnankhalid/painthub-backend/internal/checkout"
	ordersvc "github.com/adnankhalid/painthub-backend/internal/orders"
	"github.com/adnankhalid/painthub-backend/pkg/config"
	"github.com/adnankhalid/painthub-backend/pkg/db"
	"github.com/adnankhalid/painthub-backend/pkg/logger"
	"github.com/adnankhalid/painthub-backend/pkg/redis"
)

// NewRouter wires every HTTP surface of the engine.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	ordersService ordersvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, controllers.ReadyDeps(dbP, redisClient)))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ShopperContext(logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Post("/items", controllers.CartAddLine(cartService, logg))
			r.Put("/items", controllers.CartSetQuantity(cartService, logg))
			r.Delete("/items", controllers.CartRemoveLine(cartService, logg))
			r.Post("/promo", controllers.CartApplyPromo(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
		})

		r.Post("/checkout", controllers.Checkout(checkoutService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(ordersService, logg))
			r.Get("/{orderId}", controllers.OrdersGet(ordersService, logg))
			r.Post("/{orderId}/cancel", controllers.OrdersCancel(ordersService, logg))
		})
	})

	// Fulfilment endpoints used by the ops dashboard; no shopper identity.
	r.Route("/api/admin/v1/orders", func(r chi.Router) {
		r.Patch("/{orderId}/status", controllers.OrdersUpdateStatus(ordersService, logg))
		r.Put("/{orderId}/tracking", controllers.OrdersAttachTracking(ordersService, logg))
	})

	return r
}
