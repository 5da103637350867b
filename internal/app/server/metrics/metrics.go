// Package metrics defines the Prometheus collectors of the vault server.
// They register with the default registry on import and are exposed on
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "passvault"

const (
	ResultOK = "ok"
)

// HTTPRequestsTotal counts finished requests.
// Labels: method, path (route pattern), status (numeric code).
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	},
	[]string{"method", "path", "status"},
)

// HTTPRequestDuration measures request latency by route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "path"},
)

// AccountOperationsTotal counts register and login outcomes.
// Labels:
//   - operation: "register", "login" or "logout"
//   - result: "ok" or the error code (e.g. "invalid_credentials")
var AccountOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_operations_total",
		Help:      "Total number of account directory operations by result.",
	},
	[]string{"operation", "result"},
)

// CredentialOperationsTotal counts vault operations.
// Labels:
//   - operation: "list", "add" or "update"
//   - result: "ok" or the error code
var CredentialOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_operations_total",
		Help:      "Total number of credential vault operations by result.",
	},
	[]string{"operation", "result"},
)
