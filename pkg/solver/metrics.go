package solver

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes solver activity as Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	solves       *prometheus.CounterVec
	iterations   prometheus.Counter
	accepted     prometheus.Counter
	improvements prometheus.Counter
	bestHard     prometheus.Gauge
	bestSoft     prometheus.Gauge
	duration     prometheus.Histogram
}

// NewMetrics registers the solver collectors on the registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_solves_total",
		Help: "Total number of finished solve runs",
	}, []string{"termination", "feasible"})

	iterations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_search_iterations_total",
		Help: "Total number of local search iterations",
	})

	accepted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_search_accepted_moves_total",
		Help: "Total number of moves accepted by the local search",
	})

	improvements := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_best_improvements_total",
		Help: "Total number of times the best solution improved",
	})

	bestHard := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_best_hard_violations",
		Help: "Hard constraint violations of the last best solution",
	})

	bestSoft := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_best_soft_penalty",
		Help: "Soft penalty of the last best solution",
	})

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_solve_duration_seconds",
		Help:    "Duration of solve runs in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
	})

	registerer.MustRegister(solves, iterations, accepted, improvements, bestHard, bestSoft, duration)

	return &Metrics{
		solves:       solves,
		iterations:   iterations,
		accepted:     accepted,
		improvements: improvements,
		bestHard:     bestHard,
		bestSoft:     bestSoft,
		duration:     duration,
	}
}

// observeSearch adds the counts of one finished worker.
func (m *Metrics) observeSearch(iterations, accepted int64) {
	if m == nil {
		return
	}
	m.iterations.Add(float64(iterations))
	m.accepted.Add(float64(accepted))
}

func (m *Metrics) observeImprovement() {
	if m == nil {
		return
	}
	m.improvements.Inc()
}

func (m *Metrics) observeResult(result Result) {
	if m == nil {
		return
	}
	feasible := "false"
	if result.Feasible() {
		feasible = "true"
	}
	m.solves.WithLabelValues(string(result.Termination), feasible).Inc()
	m.bestHard.Set(float64(result.Score.Hard))
	m.bestSoft.Set(float64(result.Score.Soft))
	m.duration.Observe(result.Duration.Seconds())
}
