package jsonresp

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// errorsTotal counts emitted error responses by status and code.
// Codes come from declared units, so cardinality stays bounded.
var errorsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "jsonresp_errors_total",
		Help: "Total number of JSON error responses by status and code.",
	},
	[]string{"status", "code"},
)

// RegisterMetrics registers the jsonresp collectors with reg.
// Registering twice with the same registry is not an error.
func RegisterMetrics(reg prometheus.Registerer) error {
	if err := reg.Register(errorsTotal); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

// Observe counts e. Write and ginresp.Abort call it for you.
func Observe(e *Error) {
	if e == nil {
		return
	}
	errorsTotal.WithLabelValues(strconv.Itoa(e.Status), e.Code).Inc()
}
