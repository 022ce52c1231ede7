package consensus

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/while-basic/celaya-parachain-sub001/core"
	"github.com/while-basic/celaya-parachain-sub001/internal/testutil"
	"github.com/while-basic/celaya-parachain-sub001/ledger"
)

func input(conf, rel float64, rec core.Recommendation) core.AgentInput {
	return testutil.NewAgentInputBuilder("").Scores(conf, rel).Recommend(rec).Build()
}

func TestManage_TwoAgentSplit(t *testing.T) {
	e := NewEngine()

	res, err := e.Manage(context.Background(), "topic", map[string]core.AgentInput{
		"A": input(0.85, 0.82, core.RecommendAccept),
		"B": input(0.78, 0.80, core.RecommendAcceptWithCaution),
	}, "weighted")
	require.NoError(t, err)

	assert.Equal(t, core.ConsensusSplit, res.ConsensusType)
	assert.InDelta(t, (0.85*0.82+0.78*0.80)/2, res.ConsensusScore, 1e-9)
	assert.InDelta(t, 0.661, res.ConsensusScore, 0.001)
	// tie on count, A's group has the higher confidence
	assert.Equal(t, core.RecommendAccept, res.DominantRecommendation)
	assert.Equal(t, []string{"A", "B"}, res.ParticipatingAgents)
}

func TestManage_Unanimous(t *testing.T) {
	res, err := NewEngine().Manage(context.Background(), "t", map[string]core.AgentInput{
		"a": input(0.9, 0.9, core.RecommendReject),
		"b": input(0.2, 0.5, core.RecommendReject),
		"c": input(0.4, 0.1, core.RecommendReject),
	}, "")
	require.NoError(t, err)

	assert.Equal(t, core.ConsensusUnanimous, res.ConsensusType)
	assert.Equal(t, core.RecommendReject, res.DominantRecommendation)
	assert.Equal(t, MethodWeighted, res.Method)
	assert.Equal(t, 3, res.Votes[core.RecommendReject])
}

func TestManage_Majority(t *testing.T) {
	res, err := NewEngine().Manage(context.Background(), "t", map[string]core.AgentInput{
		"a": input(0.5, 0.5, core.RecommendAccept),
		"b": input(0.5, 0.5, core.RecommendAccept),
		"c": input(0.99, 0.99, core.RecommendReject),
	}, MethodWeighted)
	require.NoError(t, err)

	assert.Equal(t, core.ConsensusMajority, res.ConsensusType)
	assert.Equal(t, core.RecommendAccept, res.DominantRecommendation)
}

func TestManage_PluralityWithoutMajorityIsSplit(t *testing.T) {
	res, err := NewEngine().Manage(context.Background(), "t", map[string]core.AgentInput{
		"a": input(0.5, 0.5, core.RecommendAccept),
		"b": input(0.5, 0.5, core.RecommendAccept),
		"c": input(0.5, 0.5, core.RecommendReject),
		"d": input(0.5, 0.5, core.RecommendAcceptWithCaution),
	}, MethodWeighted)
	require.NoError(t, err)

	assert.Equal(t, core.ConsensusSplit, res.ConsensusType)
	assert.Equal(t, core.RecommendAccept, res.DominantRecommendation)
}

func TestManage_FullTieBreaksLexically(t *testing.T) {
	res, err := NewEngine().Manage(context.Background(), "t", map[string]core.AgentInput{
		"a": input(0.5, 0.5, core.RecommendReject),
		"b": input(0.5, 0.5, core.RecommendAccept),
	}, MethodWeighted)
	require.NoError(t, err)

	assert.Equal(t, core.RecommendAccept, res.DominantRecommendation)
}

func TestManage_AverageMethodAndClamping(t *testing.T) {
	res, err := NewEngine().Manage(context.Background(), "t", map[string]core.AgentInput{
		"a": input(1.4, 0.1, core.RecommendAccept),
		"b": input(-2, 0.9, core.RecommendAccept),
	}, MethodAverage)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, res.ConsensusScore, 1e-9)
	assert.Equal(t, 1.0, res.Breakdown[0].Confidence)
	assert.Equal(t, 0.0, res.Breakdown[1].Confidence)
}

func TestManage_Errors(t *testing.T) {
	e := NewEngine()

	_, err := e.Manage(context.Background(), "t", nil, "")
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = e.Manage(context.Background(), "t", map[string]core.AgentInput{"a": input(1, 1, core.RecommendAccept)}, "median")
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = e.Manage(context.Background(), "t", map[string]core.AgentInput{"a": input(1, 1, "")}, "")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestManage_ParticipationCardinality(t *testing.T) {
	inputs := map[string]core.AgentInput{}
	for i := 0; i < 13; i++ {
		inputs[fmt.Sprintf("agent-%02d", i)] = input(0.7, 0.7, core.RecommendAcceptWithCaution)
	}

	res, err := NewEngine().Manage(context.Background(), "t", inputs, "")
	require.NoError(t, err)
	assert.Len(t, res.ParticipatingAgents, 13)
	assert.Len(t, res.Breakdown, 13)
}

func TestEngine_HistoryAndRecording(t *testing.T) {
	mem := ledger.NewMemoryLedger()
	e := NewEngine(func(o *Options) {
		o.HistorySize = 1
		o.Now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
		o.Recorder = ledger.NewRecorder(mem, func(ro *ledger.RecorderOptions) {
			ro.Addresser = ledger.NewContentStore()
			ro.Now = o.Now
		})
	})

	first, err := e.Manage(context.Background(), "t", map[string]core.AgentInput{"a": input(1, 1, core.RecommendAccept)}, "")
	require.NoError(t, err)
	assert.NotEmpty(t, first.RecordCID)

	got, err := e.Get(first.ConsensusID)
	require.NoError(t, err)
	assert.Same(t, first, got)

	second, err := e.Manage(context.Background(), "t", map[string]core.AgentInput{"a": input(1, 1, core.RecommendAccept)}, "")
	require.NoError(t, err)

	_, err = e.Get(first.ConsensusID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = e.Get(second.ConsensusID)
	assert.NoError(t, err)

	files, err := mem.ListFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"core_20250101.jsonl"}, files)
}

func TestSummarize(t *testing.T) {
	s := Summarize(&core.ConsensusResult{
		Topic: "x", ConsensusType: core.ConsensusMajority, DominantRecommendation: core.RecommendAccept,
		ConsensusScore: 0.5, ParticipatingAgents: []string{"a", "b", "c"},
	})
	assert.Equal(t, `majority consensus on "x": accept (score 0.500, 3 agents)`, s)
}
