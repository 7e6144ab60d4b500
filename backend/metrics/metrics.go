package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	EnrollmentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "course_enrollments_total",
			Help: "Total number of course enrollments",
		},
	)

	SubmissionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assignment_submissions_total",
			Help: "Total number of assignment submissions",
		},
	)

	CertificatesIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "certificates_issued_total",
			Help: "Total number of completion certificates issued",
		},
	)

	AuthzDenialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_denials_total",
			Help: "Authorization denials by operation",
		},
		[]string{"operation"},
	)
)

// Middleware observes request durations, labelled by route pattern so
// parametrized paths do not explode cardinality.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		status := strconv.Itoa(c.Response().StatusCode())
		APIRequestDuration.WithLabelValues(path, c.Method(), status).
			Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler exposes the prometheus registry on a fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
