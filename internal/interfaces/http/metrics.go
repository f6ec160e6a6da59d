package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	reservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_reservations_total",
			Help: "Order reservation attempts by outcome",
		},
		[]string{"operation", "outcome"},
	)
)

// MetricsMiddleware registra contador y latencia por ruta. Usa c.Route().Path
// para no explotar la cardinalidad con ids.
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		endpoint := c.Route().Path
		status := strconv.Itoa(c.Response().StatusCode())
		requestsTotal.WithLabelValues(c.Method(), endpoint, status).Inc()
		requestDuration.WithLabelValues(c.Method(), endpoint).Observe(time.Since(start).Seconds())
		return err
	}
}

// countReservation registra el desenlace de un intento de reserva (create/update/delete).
func countReservation(operation, outcome string) {
	reservationsTotal.WithLabelValues(operation, outcome).Inc()
}
