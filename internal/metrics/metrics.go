package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PaymentMetrics counts checkout/commit outcomes.
type PaymentMetrics struct {
	CheckoutsCreated    prometheus.Counter
	Commits             *prometheus.CounterVec
	StockAdjustFailures prometheus.Counter
}

func NewPaymentMetrics() *PaymentMetrics {
	return &PaymentMetrics{
		CheckoutsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "webpay",
			Name:      "checkouts_created_total",
			Help:      "Total number of gateway transactions created.",
		}),
		Commits: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "webpay",
			Name:      "commits_total",
			Help:      "Commit callbacks by outcome.",
		}, []string{"outcome"}), // authorized | rejected | duplicate
		StockAdjustFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "webpay",
			Name:      "stock_adjust_failures_total",
			Help:      "Per-item stock adjustments that failed and were skipped.",
		}),
	}
}

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "Duration of HTTP requests in ms",
			Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600},
		},
		[]string{"method", "path"},
	)
)

// Middleware records request counts and latency per route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := float64(time.Since(start).Milliseconds())

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			httpRequests.WithLabelValues(c.Request().Method, path,
				strconv.Itoa(c.Response().Status)).Inc()
			httpDuration.WithLabelValues(c.Request().Method, path).Observe(duration)
			return err
		}
	}
}

// Handler exposes the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
