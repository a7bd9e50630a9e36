package middleware

import (
	"strconv"
	"time"

	"teamops/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "teamops_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	latency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "teamops_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Observe logs each request and records it in the request metrics. Routes
// are labelled by their pattern, so ids do not explode cardinality.
func Observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		latency.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())

		args := []any{"method", c.Request.Method, "route", route, "status", status, "latency_ms", elapsed.Milliseconds()}
		if actor := ActorID(c); actor != "" {
			args = append(args, "actor", actor)
		}
		switch {
		case status >= 500:
			logger.Error("http.request", args...)
		case status >= 400:
			logger.Warn("http.request", args...)
		default:
			logger.Debug("http.request", args...)
		}
	}
}
