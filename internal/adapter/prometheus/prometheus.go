package prometheus

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type PrometheusAdapter struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewPrometheusAdapter() *PrometheusAdapter {
	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	prometheus.MustRegister(requestsTotal, requestDuration)

	return &PrometheusAdapter{
		requestsTotal:   requestsTotal,
		requestDuration: requestDuration,
	}
}

func (p *PrometheusAdapter) RecordMetrics(c *gin.Context, start time.Time) {
	path := c.FullPath()
	if path == "" {
		path = "unknown"
	}
	status := strconv.Itoa(c.Writer.Status())

	p.requestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	p.requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
}
