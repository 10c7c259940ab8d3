// Package metrics объявляет счётчики Prometheus для проходной.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CheckinDecisions считает решения турникета по типу решения и причине.
var CheckinDecisions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "gymdesk",
		Name:      "checkin_decisions_total",
		Help:      "Check-in authorization decisions by decision and reason.",
	},
	[]string{"decision", "reason"},
)

// PaymentsRecorded считает зафиксированные оплаты.
var PaymentsRecorded = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "gymdesk",
		Name:      "payments_recorded_total",
		Help:      "Recorded membership payments.",
	},
)
