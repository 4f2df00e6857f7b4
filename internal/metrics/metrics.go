// Package metrics records run metrics in a private Prometheus registry and
// exports them for the node-exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/centraldesktop/fattailsync/internal/reconcile"
	"github.com/centraldesktop/fattailsync/pkg/errors"
)

const namespace = "fattailsync"

// Recorder owns the run metrics.
type Recorder struct {
	registry *prometheus.Registry

	entitiesCreated  *prometheus.CounterVec
	recordsLinked    *prometheus.CounterVec
	milestoneUpdates *prometheus.CounterVec
	rows             *prometheus.CounterVec
	warnings         *prometheus.CounterVec
	reportWait       prometheus.Gauge
	lastRun          prometheus.Gauge
}

// NewRecorder creates a Recorder with all metrics registered.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		entitiesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_created_total",
			Help:      "Edge entities created, by kind",
		}, []string{"kind"}),
		recordsLinked: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_linked_total",
			Help:      "FatTail records updated with an Edge handle, by kind",
		}, []string{"kind"}),
		milestoneUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "milestone_updates_total",
			Help:      "Updates of existing milestones, by outcome",
		}, []string{"outcome"}),
		rows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Report rows handled, by outcome",
		}, []string{"outcome"}),
		warnings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_total",
			Help:      "Non-fatal row warnings, by kind",
		}, []string{"kind"}),
		reportWait: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "report_wait_seconds",
			Help:      "Time spent waiting for the last report job",
		}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe counts an engine event.
func (r *Recorder) Observe(ev reconcile.Event) {
	switch ev.Type {
	case reconcile.EventEntityCreated:
		r.entitiesCreated.WithLabelValues(ev.Kind).Inc()
	case reconcile.EventRecordLinked:
		r.recordsLinked.WithLabelValues(ev.Kind).Inc()
	case reconcile.EventMilestoneUpdated:
		r.milestoneUpdates.WithLabelValues("ok").Inc()
	case reconcile.EventRowCompleted:
		r.rows.WithLabelValues("succeeded").Inc()
	case reconcile.EventRowSkipped:
		r.rows.WithLabelValues("skipped").Inc()
	case reconcile.EventWarning:
		var uw *errors.UpdateWarning
		if errors.As(ev.Err, &uw) {
			r.milestoneUpdates.WithLabelValues("failed").Inc()
		}
		r.warnings.WithLabelValues(ev.Kind).Inc()
	}
}

// ObserveBlankRows counts rows ignored for lack of a client id.
func (r *Recorder) ObserveBlankRows(n int) {
	r.rows.WithLabelValues("blank").Add(float64(n))
}

// ObserveReportWait records how long the report job took.
func (r *Recorder) ObserveReportWait(d time.Duration) {
	r.reportWait.Set(d.Seconds())
}

// MarkRun records the finish time of a run.
func (r *Recorder) MarkRun(t time.Time) {
	r.lastRun.Set(float64(t.Unix()))
}

// WriteTextfile writes every metric to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
