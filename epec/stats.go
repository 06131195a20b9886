package epec

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ssriram1992/epecsolve/algorithms"
)

// Stats holds optional prometheus instrumentation for an EPEC instance.
// A nil *Stats makes every method a no-op; a Stats that was never
// registered still counts, its collectors are just not exported. Metrics
// are observational only and never gate control flow.
type Stats struct {
	solveCount     prometheus.Counter
	solveDuration  prometheus.Histogram
	mipCallCount   prometheus.Counter
	feasiblePolyGV *prometheus.GaugeVec
}

// NewStats constructs an unregistered Stats; call Registerer to attach it
// to a prometheus.Registerer.
func NewStats() *Stats {
	return &Stats{
		solveCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "epec_solve_total",
			Help: "Number of FindNashEq invocations.",
		}),
		solveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "epec_solve_duration_seconds",
			Help:    "Wall-clock duration of FindNashEq calls.",
			Buckets: prometheus.DefBuckets,
		}),
		mipCallCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "epec_mip_calls_total",
			Help: "Number of backend MIP solves issued across the upper-level LCP.",
		}),
		feasiblePolyGV: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "epec_country_feasible_polyhedra",
			Help: "Count of feasible polyhedra currently enumerated per country.",
		}, []string{"country"}),
	}
}

// Registerer attaches s's collectors to reg. Safe to call once; repeated
// registration attempts on the same reg return an error from reg, which
// the caller may ignore for an idempotent setup path.
func (s *Stats) Registerer(reg prometheus.Registerer) error {
	if s == nil || reg == nil {
		return nil
	}
	for _, c := range []prometheus.Collector{s.solveCount, s.solveDuration, s.mipCallCount, s.feasiblePolyGV} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}

	return nil
}

func (s *Stats) recordSolve(status algorithms.Status, d time.Duration) {
	if s == nil {
		return
	}
	s.solveCount.Inc()
	s.solveDuration.Observe(d.Seconds())
	_ = status
}

func (s *Stats) recordMIPCall() {
	if s == nil {
		return
	}
	s.mipCallCount.Inc()
}

func (s *Stats) recordFeasiblePolys(country string, count int) {
	if s == nil {
		return
	}
	s.feasiblePolyGV.WithLabelValues(country).Set(float64(count))
}
