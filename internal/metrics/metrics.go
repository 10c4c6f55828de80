// Package metrics records operational metrics from the warehouse pipeline
// without tying stages to a concrete metrics system.
//
// Stages receive a *Recorder, which stamps every observation with the job
// name and forwards it to a Backend. Concrete systems live in subpackages
// (prompush, datadog); the zero Recorder and Nop discard everything so
// metrics are always safe to call.
package metrics

import "time"

// Metric names shared by all backends.
const (
	StepTotal       = "etl_step_total"
	StepDuration    = "etl_step_duration_seconds"
	RecordsTotal    = "etl_records_total"
	BatchesTotal    = "etl_batches_total"
	StatusSuccess   = "success"
	StatusFailure   = "failure"
	KindExtracted   = "extracted"
	KindTransformed = "transformed"
	KindDeduped     = "deduplicated"
	KindResolved    = "resolved"
	KindUnresolved  = "dropped_unresolved"
	KindLoaded      = "loaded"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

// Nop returns a Backend that discards everything.
func Nop() Backend { return nopBackend{} }

// Recorder binds a Backend to a job name.
type Recorder struct {
	job     string
	backend Backend
}

// New returns a Recorder for job. A nil backend records nothing.
func New(job string, b Backend) *Recorder {
	if b == nil {
		b = nopBackend{}
	}
	return &Recorder{job: job, backend: b}
}

func (r *Recorder) b() Backend {
	if r == nil || r.backend == nil {
		return nopBackend{}
	}
	return r.backend
}

func (r *Recorder) jobName() string {
	if r == nil {
		return ""
	}
	return r.job
}

// RecordStep measures latency and success/failure of one pipeline step.
func (r *Recorder) RecordStep(step string, err error, d time.Duration) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}

	lbls := Labels{
		"job":    r.jobName(),
		"step":   step,
		"status": status,
	}

	r.b().IncCounter(StepTotal, 1, lbls)
	r.b().ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRows increments the record counter for table and kind. Kinds follow
// the run summary: extracted, deduplicated, resolved, dropped_unresolved,
// transformed, loaded.
func (r *Recorder) RecordRows(table, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	r.b().IncCounter(RecordsTotal, float64(delta), Labels{
		"job":   r.jobName(),
		"table": table,
		"kind":  kind,
	})
}

// RecordBatches increments the batch counter for table.
func (r *Recorder) RecordBatches(table string, delta int64) {
	if delta <= 0 {
		return
	}
	r.b().IncCounter(BatchesTotal, float64(delta), Labels{
		"job":   r.jobName(),
		"table": table,
	})
}

// Flush delegates to the backend.
func (r *Recorder) Flush() error {
	return r.b().Flush()
}
