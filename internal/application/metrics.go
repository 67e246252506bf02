package application

import "github.com/prometheus/client_golang/prometheus"

// AccountOperations counts account operations by name and result kind.
// Use RegisterMetrics to expose it.
var AccountOperations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "user_service_account_operations_total",
		Help: "Total number of account operations by outcome",
	},
	[]string{"operation", "outcome"},
)

// CodesIssued counts one-time codes generated per purpose.
var CodesIssued = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "user_service_otc_issued_total",
		Help: "Total number of one-time codes issued",
	},
	[]string{"purpose"},
)

// EmailFailures counts notification emails that could not be handed off.
var EmailFailures = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "user_service_email_dispatch_failures_total",
		Help: "Total number of failed email dispatches",
	},
)

// RegisterMetrics registers application metrics with the given registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(AccountOperations, CodesIssued, EmailFailures)
}

func record[T any](op string, r Result[T]) Result[T] {
	AccountOperations.WithLabelValues(op, r.Kind.String()).Inc()
	return r
}
