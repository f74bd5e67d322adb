package orchestrator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/reposcope/reposcope/pkg/model"
)

// Metrics is the orchestrator's optional Prometheus instrumentation.
// Spec 4.I is the only component allowed to import Prometheus directly —
// every other component reports through errkit/logger only, so a caller
// that wants metrics wires them in here rather than threading a
// registry through the rest of the pipeline.
type Metrics struct {
	runDuration       prometheus.Histogram
	filesWalked       prometheus.Counter
	projectsAnalyzed  prometheus.Counter
	findingsBySevVec  *prometheus.CounterVec
}

// NewMetrics registers the orchestrator's collectors against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "reposcope",
			Subsystem: "orchestrator",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of a full monorepo analysis run.",
			Buckets:   prometheus.DefBuckets,
		}),
		filesWalked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reposcope",
			Subsystem: "orchestrator",
			Name:      "files_walked_total",
			Help:      "Total files emitted by the File Walker across all runs.",
		}),
		projectsAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reposcope",
			Subsystem: "orchestrator",
			Name:      "projects_analyzed_total",
			Help:      "Total sub-project partitions analyzed across all runs.",
		}),
		findingsBySevVec: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reposcope",
			Subsystem: "orchestrator",
			Name:      "security_findings_total",
			Help:      "Security findings emitted by the Secret Scanner, by severity.",
		}, []string{"severity"}),
	}
	reg.MustRegister(m.runDuration, m.filesWalked, m.projectsAnalyzed, m.findingsBySevVec)
	return m
}

func (m *Metrics) startRun() func() {
	start := time.Now()
	return func() { m.runDuration.Observe(time.Since(start).Seconds()) }
}

func (m *Metrics) findingsBySeverity(counts map[model.SecuritySeverity]int) {
	for sev, n := range counts {
		m.findingsBySevVec.WithLabelValues(string(sev)).Add(float64(n))
	}
}
