package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/while-basic/celaya-parachain-sub001/core"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.Validation(core.RecommendAccept)
	m.Validation(core.RecommendAccept)
	m.Consensus(core.ConsensusSplit)
	m.Synthesis(true)
	m.VoteClosed(core.VoteTimedOut)
	m.LateVote()
	m.Delegation()
	m.Agents(3)

	m.Coordination(&core.CoordinationResult{
		CoordinationType: core.CoordinateParallel,
		Outcomes: []core.AgentOutcome{
			{AgentID: "a", Success: true},
			{AgentID: "b", Error: &core.ItemError{Kind: core.KindTimeout}},
		},
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.validations.WithLabelValues("accept")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.consensus.WithLabelValues("split")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.syntheses.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.coordination.WithLabelValues("parallel", "timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.coordination.WithLabelValues("parallel", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.votesClosed.WithLabelValues("timed_out")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lateVotes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.delegations))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.agents))
}

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.Observe("consensus.manage", time.Now(), nil)
	m.Observe("consensus.manage", time.Now(), core.Errorf("consensus.manage", core.KindInvalidInput, "empty"))
	m.Observe("vote.cast", time.Now(), errors.New("plain"))

	assert.Equal(t, 3, testutil.CollectAndCount(m.opDuration))
}

func TestMetrics_DoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.ErrorIs(t, err, core.ErrInternal)
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.Validation(core.RecommendReject)
		m.Coordination(&core.CoordinationResult{})
		m.Observe("x", time.Now(), nil)
	})

	assert.NotNil(t, NewNoop())
}
