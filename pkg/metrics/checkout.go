package metrics

import "github.com/prometheus/client_golang/prometheus"

// CheckoutMetrics tracks checkout attempts and the lifecycle of the orders
// they produce.
type CheckoutMetrics struct {
	attempts       *prometheus.CounterVec
	stockConflicts prometheus.Counter
	ordersCreated  prometheus.Counter
	statusChanges  *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})
	stockConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_stock_conflicts_total",
		Help: "Checkouts aborted because stock moved under the cart.",
	})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders produced by successful checkouts.",
	})
	statusChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_changes_total",
		Help: "Order status transitions by target status.",
	}, []string{"status"})
	reg.MustRegister(attempts, stockConflicts, ordersCreated, statusChanges)
	return &CheckoutMetrics{
		attempts:       attempts,
		stockConflicts: stockConflicts,
		ordersCreated:  ordersCreated,
		statusChanges:  statusChanges,
	}
}

// IncAttempt records a checkout attempt with its outcome label.
func (m *CheckoutMetrics) IncAttempt(outcome string) {
	if m == nil || m.attempts == nil {
		return
	}
	m.attempts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncStockConflict records a checkout aborted by a stock conflict.
func (m *CheckoutMetrics) IncStockConflict() {
	if m == nil || m.stockConflicts == nil {
		return
	}
	m.stockConflicts.Inc()
}

// IncOrderCreated records a successfully created order.
func (m *CheckoutMetrics) IncOrderCreated() {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.Inc()
}

// IncStatusChange records an order moving into the named status.
func (m *CheckoutMetrics) IncStatusChange(status string) {
	if m == nil || m.statusChanges == nil {
		return
	}
	m.statusChanges.WithLabelValues(normalizeLabel(status)).Inc()
}
