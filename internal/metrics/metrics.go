package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics: sipariş ve stok sayaçları. nil *Metrics üzerinde çağrılar no-op'tur.
type Metrics struct {
	OrdersCreated   *prometheus.CounterVec
	OrdersCompleted *prometheus.CounterVec
	OrdersCancelled *prometheus.CounterVec
	StockMovements  *prometheus.CounterVec
	IntegrityErrors *prometheus.CounterVec
	Requests        *prometheus.CounterVec
	LatencyMS       *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cashier",
			Name:      "orders_created_total",
			Help:      "Total number of orders created.",
		}, []string{"type"}),
		OrdersCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cashier",
			Name:      "orders_completed_total",
			Help:      "Total number of orders completed.",
		}, []string{"type", "payment_status"}),
		OrdersCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cashier",
			Name:      "orders_cancelled_total",
			Help:      "Total number of orders cancelled.",
		}, []string{"from_status"}),
		StockMovements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cashier",
			Name:      "stock_movements_total",
			Help:      "Total number of stock ledger movements recorded.",
		}, []string{"reason"}),
		IntegrityErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cashier",
			Name:      "integrity_errors_total",
			Help:      "Total number of integrity errors surfaced to callers.",
		}, []string{"code"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cashier",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cashier",
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"route"}),
	}
	reg.MustRegister(m.OrdersCreated, m.OrdersCompleted, m.OrdersCancelled,
		m.StockMovements, m.IntegrityErrors, m.Requests, m.LatencyMS)
	return m
}

func (m *Metrics) OrderCreated(orderType string) {
	if m != nil {
		m.OrdersCreated.WithLabelValues(orderType).Inc()
	}
}

func (m *Metrics) OrderCompleted(orderType, paymentStatus string) {
	if m != nil {
		m.OrdersCompleted.WithLabelValues(orderType, paymentStatus).Inc()
	}
}

func (m *Metrics) OrderCancelled(fromStatus string) {
	if m != nil {
		m.OrdersCancelled.WithLabelValues(fromStatus).Inc()
	}
}

func (m *Metrics) MovementRecorded(reason string) {
	if m != nil {
		m.StockMovements.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) Integrity(code string) {
	if m != nil {
		m.IntegrityErrors.WithLabelValues(code).Inc()
	}
}

// Middleware: route bazında istek sayısı ve süre
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if m == nil {
			return err
		}
		route := c.Route().Path
		status := c.Response().StatusCode()
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}
		m.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.LatencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
		return err
	}
}

// Handler: /metrics endpoint'i
func Handler(g prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}
