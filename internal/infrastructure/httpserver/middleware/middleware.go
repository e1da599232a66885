package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// MiddlewareCollection bundles the middleware the server installs.
type MiddlewareCollection struct {
	Logging *LoggingMiddleware
	Metrics *MetricsMiddleware
	Admin   *AdminMiddleware
}

func NewMiddlewareCollection(logger *logrus.Logger, adminToken string, requestsTotal *prometheus.CounterVec, requestDuration *prometheus.HistogramVec) *MiddlewareCollection {
	return &MiddlewareCollection{
		Logging: NewLoggingMiddleware(logger),
		Metrics: NewMetricsMiddleware(requestsTotal, requestDuration),
		Admin:   NewAdminMiddleware(adminToken, logger),
	}
}
