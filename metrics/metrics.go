// Package metrics exposes engine activity as Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/while-basic/celaya-parachain-sub001/core"
)

const namespace = "celaya"

// Metrics groups every collector the engine updates. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	validations  *prometheus.CounterVec
	consensus    *prometheus.CounterVec
	syntheses    *prometheus.CounterVec
	coordination *prometheus.CounterVec
	votesClosed  *prometheus.CounterVec
	lateVotes    prometheus.Counter
	delegations  prometheus.Counter
	agents       prometheus.Gauge
	opDuration   *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Validation reports by recommendation.",
		}, []string{"recommendation"}),
		consensus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consensus_total",
			Help:      "Consensus results by agreement type.",
		}, []string{"type"}),
		syntheses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "syntheses_total",
			Help:      "Synthesized insights, split by whether the narrative degraded.",
		}, []string{"degraded"}),
		coordination: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coordination_agent_outcomes_total",
			Help:      "Per-agent coordination outcomes.",
		}, []string{"type", "outcome"}),
		votesClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vote_sessions_closed_total",
			Help:      "Closed vote sessions by final status.",
		}, []string{"status"}),
		lateVotes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "late_votes_total",
			Help:      "Votes rejected because their session had timed out.",
		}),
		delegations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delegations_total",
			Help:      "Authority delegations granted.",
		}),
		agents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registered_agents",
			Help:      "Agents currently in the registry.",
		}),
		opDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of engine operations by outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 9),
		}, []string{"op", "result"}),
	}

	for _, c := range []prometheus.Collector{
		m.validations, m.consensus, m.syntheses, m.coordination, m.votesClosed,
		m.lateVotes, m.delegations, m.agents, m.opDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, core.E("metrics.new", core.KindInternal, err)
		}
	}

	return m, nil
}

// NewNoop returns collectors bound to a private registry.
func NewNoop() *Metrics {
	m, _ := New(prometheus.NewRegistry())
	return m
}

// Validation counts a validation report.
func (m *Metrics) Validation(rec core.Recommendation) {
	if m == nil {
		return
	}

	m.validations.WithLabelValues(string(rec)).Inc()
}

// Consensus counts a consensus result.
func (m *Metrics) Consensus(t core.ConsensusType) {
	if m == nil {
		return
	}

	m.consensus.WithLabelValues(string(t)).Inc()
}

// Synthesis counts a synthesized insight.
func (m *Metrics) Synthesis(degraded bool) {
	if m == nil {
		return
	}

	m.syntheses.WithLabelValues(strconv.FormatBool(degraded)).Inc()
}

// Coordination counts every agent outcome of res.
func (m *Metrics) Coordination(res *core.CoordinationResult) {
	if m == nil || res == nil {
		return
	}

	for _, o := range res.Outcomes {
		outcome := "success"
		if !o.Success {
			outcome = "failure"
			if o.Error != nil {
				outcome = o.Error.Kind.String()
			}
		}

		m.coordination.WithLabelValues(string(res.CoordinationType), outcome).Inc()
	}
}

// VoteClosed counts a session reaching status.
func (m *Metrics) VoteClosed(status core.VoteStatus) {
	if m == nil {
		return
	}

	m.votesClosed.WithLabelValues(string(status)).Inc()
}

// LateVote counts a rejected late vote.
func (m *Metrics) LateVote() {
	if m == nil {
		return
	}

	m.lateVotes.Inc()
}

// Delegation counts a granted delegation.
func (m *Metrics) Delegation() {
	if m == nil {
		return
	}

	m.delegations.Inc()
}

// Agents sets the registered agent gauge.
func (m *Metrics) Agents(n int) {
	if m == nil {
		return
	}

	m.agents.Set(float64(n))
}

// Observe records the latency of op since start. The result label is "ok"
// or the error's kind.
func (m *Metrics) Observe(op string, start time.Time, err error) {
	if m == nil {
		return
	}

	result := "ok"
	if err != nil {
		result = core.KindOf(err).String()
	}

	m.opDuration.WithLabelValues(op, result).Observe(time.Since(start).Seconds())
}
