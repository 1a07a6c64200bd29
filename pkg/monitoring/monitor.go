package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	SubLessonCompletions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sublesson_completions_total",
			Help: "Sub-lessons newly marked as completed",
		},
	)

	CourseCompletions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "course_completions_total",
			Help: "Enrollments that reached 100% progress",
		},
	)

	EnrollmentSaveConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "enrollment_save_conflicts_total",
			Help: "Stale enrollment writes rejected by the version check",
		},
	)

	CertificatesIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "certificates_issued_total",
			Help: "Certificates minted",
		},
	)

	CertificateVerifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "certificate_verifications_total",
			Help: "Certificate verification attempts by result",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			SubLessonCompletions,
			CourseCompletions,
			EnrollmentSaveConflicts,
			CertificatesIssued,
			CertificateVerifications,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
