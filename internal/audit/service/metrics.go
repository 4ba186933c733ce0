package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// auditWriteFailures counts audit entries that failed to persist after the
// underlying mutation already committed. Any non-zero value is alertable.
var auditWriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pharmgate_audit_write_failures_total",
	Help: "Audit log writes that failed after a successful mutation commit.",
}, []string{"action"})
