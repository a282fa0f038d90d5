package recordstore

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"jobcore/internal/recordstore/core"
	"jobcore/pkg/domain"
)

// instrumentedStore wraps a Store and records operation counts, error counts,
// and latencies per operation.
type instrumentedStore struct {
	inner    Store
	ops      *prometheus.CounterVec
	errs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ core.Store = (*instrumentedStore)(nil)

// Instrument wraps store with prometheus metrics registered on reg. The
// returned Store delegates every call to store. Registration conflicts are
// reported as an error so callers can decide whether to share a registry.
func Instrument(store Store, reg prometheus.Registerer) (Store, error) {
	labels := prometheus.Labels{"driver": string(store.Driver())}
	s := &instrumentedStore{
		inner: store,
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "jobcore_recordstore_operations_total",
			Help:        "Record store operations by name.",
			ConstLabels: labels,
		}, []string{"operation"}),
		errs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "jobcore_recordstore_errors_total",
			Help:        "Record store operation failures by name.",
			ConstLabels: labels,
		}, []string{"operation"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "jobcore_recordstore_operation_seconds",
			Help:        "Record store operation latency in seconds.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	for _, c := range []prometheus.Collector{s.ops, s.errs, s.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	s.ops.WithLabelValues(op).Inc()
	s.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		s.errs.WithLabelValues(op).Inc()
	}
}

func (s *instrumentedStore) Driver() Driver { return s.inner.Driver() }

func (s *instrumentedStore) Exists(ctx context.Context, jobID string) (bool, error) {
	start := time.Now()
	ok, err := s.inner.Exists(ctx, jobID)
	s.observe("exists", start, err)
	return ok, err
}

func (s *instrumentedStore) Create(ctx context.Context, jobID, workspace string) error {
	start := time.Now()
	err := s.inner.Create(ctx, jobID, workspace)
	s.observe("create", start, err)
	return err
}

func (s *instrumentedStore) Load(ctx context.Context, jobID string) (*domain.Job, error) {
	start := time.Now()
	job, err := s.inner.Load(ctx, jobID)
	s.observe("load", start, err)
	return job, err
}

func (s *instrumentedStore) Save(ctx context.Context, jobID string, job *domain.Job) error {
	start := time.Now()
	err := s.inner.Save(ctx, jobID, job)
	s.observe("save", start, err)
	return err
}

func (s *instrumentedStore) ListActive(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := s.inner.ListActive(ctx)
	s.observe("list_active", start, err)
	return ids, err
}

func (s *instrumentedStore) Snapshot(ctx context.Context, jobID, caller string) (*domain.Job, error) {
	start := time.Now()
	job, err := s.inner.Snapshot(ctx, jobID, caller)
	s.observe("snapshot", start, err)
	return job, err
}

func (s *instrumentedStore) Destroy(ctx context.Context, jobID string) error {
	start := time.Now()
	err := s.inner.Destroy(ctx, jobID)
	s.observe("destroy", start, err)
	return err
}
