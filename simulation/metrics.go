package simulation

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/lvising/trial"
)

// =============================================================================
// Prometheus Metrics for the trial orchestrator
// =============================================================================

// Metrics records orchestrator activity. A nil *Metrics records nothing.
type Metrics struct {
	trialsCompleted  prometheus.Counter
	trialsRestored   prometheus.Counter
	trialDuration    prometheus.Histogram
	sweeps           prometheus.Counter
	exchangeAttempts *prometheus.CounterVec
	exchangeAccepts  *prometheus.CounterVec
	houdayerMoves    *prometheus.CounterVec
	stabilityCycles  prometheus.Histogram
}

// NewMetrics registers the orchestrator metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		trialsCompleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "lvising",
			Subsystem: "trial",
			Name:      "completed_total",
			Help:      "Trials run to completion in this process",
		}),
		trialsRestored: f.NewCounter(prometheus.CounterOpts{
			Namespace: "lvising",
			Subsystem: "trial",
			Name:      "restored_total",
			Help:      "Trials replayed from checkpoint files",
		}),
		trialDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lvising",
			Subsystem: "trial",
			Name:      "duration_seconds",
			Help:      "Wall time of one trial",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}),
		sweeps: f.NewCounter(prometheus.CounterOpts{
			Namespace: "lvising",
			Subsystem: "ensemble",
			Name:      "sweeps_total",
			Help:      "Ensemble sweeps across all trials",
		}),
		// Labels: pair (lower slot index of the adjacent pair)
		exchangeAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lvising",
			Subsystem: "ensemble",
			Name:      "exchange_attempts_total",
			Help:      "Parallel-tempering exchange attempts by rung pair",
		}, []string{"pair"}),
		exchangeAccepts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lvising",
			Subsystem: "ensemble",
			Name:      "exchange_accepts_total",
			Help:      "Accepted parallel-tempering exchanges by rung pair",
		}, []string{"pair"}),
		// Labels: kind (global, cluster)
		houdayerMoves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lvising",
			Subsystem: "ensemble",
			Name:      "houdayer_moves_total",
			Help:      "Houdayer moves by kind",
		}, []string{"kind"}),
		stabilityCycles: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lvising",
			Subsystem: "trial",
			Name:      "stability_cycles",
			Help:      "Stability cycles needed per trial",
			Buckets:   prometheus.LinearBuckets(1, 1, 12),
		}),
	}
}

func (m *Metrics) observeRestored(n int) {
	if m == nil {
		return
	}
	m.trialsRestored.Add(float64(n))
}

func (m *Metrics) observeTrial(res *trial.Result) {
	if m == nil {
		return
	}
	m.trialsCompleted.Inc()
	m.trialDuration.Observe(res.Duration.Seconds())
	m.sweeps.Add(float64(res.Counters.Sweeps))
	for i := range res.Counters.ExchangeAttempts {
		pair := strconv.Itoa(i)
		m.exchangeAttempts.WithLabelValues(pair).Add(float64(res.Counters.ExchangeAttempts[i]))
		m.exchangeAccepts.WithLabelValues(pair).Add(float64(res.Counters.ExchangeAccepts[i]))
	}
	m.houdayerMoves.WithLabelValues("global").Add(float64(res.Counters.GlobalFlips))
	m.houdayerMoves.WithLabelValues("cluster").Add(float64(res.Counters.ClusterMoves))
	if res.Cycles > 0 {
		m.stabilityCycles.Observe(float64(res.Cycles))
	}
}
