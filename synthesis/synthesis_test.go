package synthesis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/while-basic/celaya-parachain-sub001/core"
	"github.com/while-basic/celaya-parachain-sub001/internal/testutil"
	"github.com/while-basic/celaya-parachain-sub001/ledger"
	"github.com/while-basic/celaya-parachain-sub001/model"
)

func insights() []core.Insight {
	return []core.Insight{
		testutil.NewInsightBuilder("theory").Topic("coffee").Summary("Moderate intake is associated with lower risk.").Scores(0.9, 0.8).Build(),
		testutil.NewInsightBuilder("lyra").Topic("coffee").Summary("Evidence is mixed across cohorts.").Scores(0.6, 0.4).Build(),
	}
}

func TestSynthesize_WeightedByOwnReliability(t *testing.T) {
	s := New()

	res, err := s.Synthesize(context.Background(), insights(), "")
	require.NoError(t, err)

	assert.Equal(t, MethodWeightedAverage, res.Method)
	assert.InDelta(t, (0.9*0.8+0.6*0.4)/1.2, res.Confidence, 1e-9)
	assert.InDelta(t, (0.8*0.8+0.4*0.4)/1.2, res.ReliabilityScore, 1e-9)
	assert.Equal(t, 2, res.InsightCount)
	assert.Equal(t, []string{"theory", "lyra"}, res.ContributingAgents)
	assert.Equal(t, "coffee", res.Topic)
	assert.True(t, strings.HasPrefix(res.SynthesizedContent, "Synthesized insights for coffee: theory: Moderate"))
	assert.Contains(t, res.SynthesizedContent, " | lyra: Evidence")
	assert.False(t, res.Degraded)
}

func TestSynthesize_SimpleAverage(t *testing.T) {
	res, err := New().Synthesize(context.Background(), insights(), MethodSimpleAverage)
	require.NoError(t, err)

	assert.InDelta(t, 0.75, res.Confidence, 1e-9)
	assert.InDelta(t, 0.6, res.ReliabilityScore, 1e-9)
}

func TestSynthesize_SingleInsightUnchanged(t *testing.T) {
	for _, method := range []string{MethodWeightedAverage, MethodSimpleAverage} {
		in := core.Insight{AgentID: "a", Topic: "t", Summary: "s", Confidence: 0.37, ReliabilityScore: 0.91}

		res, err := New().Synthesize(context.Background(), []core.Insight{in}, method)
		require.NoError(t, err)

		assert.Equal(t, in.Confidence, res.Confidence, method)
		assert.Equal(t, in.ReliabilityScore, res.ReliabilityScore, method)
		assert.Equal(t, 1, res.InsightCount)
	}
}

func TestCombine_SingleInsightClamped(t *testing.T) {
	conf, rel := Combine([]core.Insight{{Confidence: 1.5, ReliabilityScore: -0.2}}, MethodWeightedAverage)

	assert.Equal(t, 1.0, conf)
	assert.Zero(t, rel)
}

func TestSynthesize_ZeroReliabilityFallsBackToMean(t *testing.T) {
	conf, rel := Combine([]core.Insight{{Confidence: 0.2}, {Confidence: 0.4}}, MethodWeightedAverage)

	assert.InDelta(t, 0.3, conf, 1e-9)
	assert.Zero(t, rel)
}

func TestSynthesize_InvalidInput(t *testing.T) {
	s := New()

	_, err := s.Synthesize(context.Background(), nil, "")
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = s.Synthesize(context.Background(), insights(), "median")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestPrimaryTopic(t *testing.T) {
	topics := func(ts ...string) []core.Insight {
		out := make([]core.Insight, len(ts))
		for i, tp := range ts {
			out[i] = core.Insight{Topic: tp}
		}
		return out
	}

	assert.Equal(t, "b", PrimaryTopic(topics("a", "b", "b")))
	assert.Equal(t, "a", PrimaryTopic(topics("a", "b")))
	assert.Equal(t, "unknown", PrimaryTopic(topics("")))
}

func TestContent_TruncatesLongSummaries(t *testing.T) {
	long := strings.Repeat("x", 150)

	out := Content("t", []core.Insight{{AgentID: "a", Summary: long}, {Summary: "   "}})

	assert.Equal(t, "Synthesized insights for t: a: "+strings.Repeat("x", SummaryLimit)+"...", out)
}

func TestSynthesize_Narrative(t *testing.T) {
	m := model.NewMockCompleter("mock")
	s := New(func(o *Options) { o.Completer = m })

	res, err := s.Synthesize(context.Background(), insights(), "")
	require.NoError(t, err)

	assert.Equal(t, 1, m.Calls())
	assert.Contains(t, res.Narrative, "Topic: coffee")
	assert.Contains(t, res.Narrative, "- theory: Moderate intake")
	assert.False(t, res.Degraded)
}

func TestSynthesize_NarrativeFailureDegrades(t *testing.T) {
	failing := model.NewMockCompleter("mock")
	failing.FailWith(errors.New("rate limited"))

	slow := model.NewMockCompleter("mock")
	slow.Delay(time.Second)

	for name, c := range map[string]*model.MockCompleter{"failing": failing, "slow": slow} {
		s := New(func(o *Options) {
			o.Completer = c
			o.NarrativeTimeout = 10 * time.Millisecond
		})

		res, err := s.Synthesize(context.Background(), insights(), "")
		require.NoError(t, err, name)

		assert.True(t, res.Degraded, name)
		assert.Empty(t, res.Narrative, name)
		assert.NotEmpty(t, res.SynthesizedContent, name)
	}
}

func TestSynthesize_RecordsAndRemembers(t *testing.T) {
	mem := ledger.NewMemoryLedger()
	rec := ledger.NewRecorder(mem, func(o *ledger.RecorderOptions) { o.Addresser = ledger.NewContentStore() })
	s := New(func(o *Options) { o.Recorder = rec })

	res, err := s.Synthesize(context.Background(), insights(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, res.RecordCID)

	got, err := s.Get(res.SynthesisID)
	require.NoError(t, err)
	assert.Same(t, res, got)

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
