package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "guardline_http_request_duration_seconds",
		Help:    "HTTP request latency by method, path and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	SosEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guardline_sos_events_total",
		Help: "SOS events persisted.",
	})

	SosAlerts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guardline_sos_alerts_total",
		Help: "Per-contact alert rows persisted.",
	})

	EmailsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guardline_emails_delivered_total",
		Help: "Outbound emails accepted by the relay.",
	})

	EmailsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guardline_emails_failed_total",
		Help: "Outbound emails that failed to send.",
	})
)

// Middleware records per-request latency. Uses the route template, not
// the raw URL, so path cardinality stays bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpDuration.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
