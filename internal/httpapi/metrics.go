package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pageActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yusen_page_actions_total",
		Help: "Page transitions handled, by page and action",
	}, []string{"page", "action"})

	pageActionErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yusen_page_action_errors_total",
		Help: "Page transitions that returned an error, by page and action",
	}, []string{"page", "action"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yusen_http_request_duration_seconds",
		Help:    "HTTP request latency by route and method",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// observe records request latency against the matched route template.
func observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
