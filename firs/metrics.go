package firs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/linesmerrill/police-fir-api/models"
)

var (
	casesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fir_cases_created_total",
		Help: "Number of FIRs filed",
	})
	auditEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fir_audit_entries_total",
		Help: "Number of audit entries written, by action kind",
	}, []string{"action"})
	numberConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fir_number_conflicts_total",
		Help: "Number of FIR number collisions that forced a re-assignment",
	})
)

func recordAudit(entries []models.FIRHistory) {
	for _, e := range entries {
		auditEntries.WithLabelValues(e.Action).Inc()
	}
}
