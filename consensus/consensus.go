// Package consensus combines several agents' confidence and reliability
// signals into a single trust-weighted consensus.
//
// The consensus score is the mean of confidence*reliability across inputs, so
// an agent that is confident but unreliable pulls the score down. Agreement is
// classified as unanimous (one recommendation), majority (one recommendation
// strictly outnumbers all others combined) or split.
package consensus

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/while-basic/celaya-parachain-sub001/core"
	"github.com/while-basic/celaya-parachain-sub001/internal/history"
	"github.com/while-basic/celaya-parachain-sub001/ledger"
	"github.com/while-basic/celaya-parachain-sub001/logging"
)

// Scoring methods.
const (
	// MethodWeighted averages confidence*reliability. It is the default.
	MethodWeighted = "weighted"
	// MethodAverage averages raw confidence, ignoring reliability.
	MethodAverage = "average"
)

// RecordKind labels consensus results in the ledger.
const RecordKind = "consensus"

// Options configures an Engine.
type Options struct {
	HistorySize int
	Recorder    *ledger.Recorder
	RecordAgent string
	Logger      logging.Logger
	Now         func() time.Time
}

// Engine computes consensus results and remembers the most recent ones.
type Engine struct {
	opts    Options
	history *history.Store[*core.ConsensusResult]
}

// NewEngine builds an Engine.
func NewEngine(optFns ...func(o *Options)) *Engine {
	opts := Options{
		HistorySize: history.DefaultSize,
		RecordAgent: "core",
		Logger:      logging.NoOpLogger{},
		Now:         time.Now,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Engine{opts: opts, history: history.New[*core.ConsensusResult](opts.HistorySize)}
}

// Manage computes the consensus of inputs keyed by agent id. Every input is
// reflected in ParticipatingAgents, sorted by agent id. An empty input set, an
// unknown method or an input without a recommendation is rejected.
func (e *Engine) Manage(ctx context.Context, topic string, inputs map[string]core.AgentInput, method string) (*core.ConsensusResult, error) {
	const op = "consensus.manage"

	if len(inputs) == 0 {
		return nil, core.Errorf(op, core.KindInvalidInput, "at least one agent input is required")
	}

	if method == "" {
		method = MethodWeighted
	}

	if method != MethodWeighted && method != MethodAverage {
		return nil, core.Errorf(op, core.KindInvalidInput, "unknown consensus method %q", method)
	}

	ids := make([]string, 0, len(inputs))
	for id := range inputs {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	res := &core.ConsensusResult{
		ConsensusID:         core.NewID(),
		Topic:               topic,
		Method:              method,
		ParticipatingAgents: ids,
		Votes:               map[core.Recommendation]int{},
		Breakdown:           make([]core.AgentWeight, 0, len(ids)),
		CreatedAt:           e.opts.Now().UTC(),
	}

	weights := make([]float64, 0, len(ids))

	for _, id := range ids {
		in := inputs[id]
		if strings.TrimSpace(string(in.Recommendation)) == "" {
			return nil, core.Errorf(op, core.KindInvalidInput, "agent %q has no recommendation", id)
		}

		conf, rel := core.Clamp01(in.Confidence), core.Clamp01(in.ReliabilityScore)

		w := conf * rel
		if method == MethodAverage {
			w = conf
		}

		weights = append(weights, w)
		res.Votes[in.Recommendation]++
		res.Breakdown = append(res.Breakdown, core.AgentWeight{
			AgentID:          id,
			Recommendation:   in.Recommendation,
			Confidence:       conf,
			ReliabilityScore: rel,
			Weight:           w,
		})
	}

	res.ConsensusScore = core.Clamp01(core.Mean(weights))
	res.ConsensusType = classify(res.Votes, len(ids))
	res.DominantRecommendation = dominant(res.Breakdown, res.Votes)

	if e.opts.Recorder != nil {
		rec, err := e.opts.Recorder.Emit(ctx, e.opts.RecordAgent, RecordKind, res)
		if err != nil {
			return nil, core.E(op, core.KindInternal, err)
		}

		res.RecordCID = rec.CID
	}

	e.history.Add(res.ConsensusID, res)

	e.opts.Logger.Info("consensus.result.created",
		"consensus_id", res.ConsensusID,
		"topic", topic,
		"agents", len(ids),
		"score", res.ConsensusScore,
		"type", string(res.ConsensusType),
	)

	return res, nil
}

// Get returns a recent result by id.
func (e *Engine) Get(id string) (*core.ConsensusResult, error) {
	res, ok := e.history.Get(id)
	if !ok {
		return nil, core.Errorf("consensus.get", core.KindNotFound, "consensus %q", id)
	}

	return res, nil
}

func classify(votes map[core.Recommendation]int, n int) core.ConsensusType {
	if len(votes) == 1 {
		return core.ConsensusUnanimous
	}

	top := 0
	for _, c := range votes {
		top = max(top, c)
	}

	if top > n-top {
		return core.ConsensusMajority
	}

	return core.ConsensusSplit
}

// dominant returns the most frequent recommendation. Ties go to the group with
// the higher mean confidence, then to the lexically smaller recommendation.
func dominant(breakdown []core.AgentWeight, votes map[core.Recommendation]int) core.Recommendation {
	confSum := map[core.Recommendation]float64{}
	for _, b := range breakdown {
		confSum[b.Recommendation] += b.Confidence
	}

	var (
		best     core.Recommendation
		bestN    int
		bestConf float64
	)

	for rec, n := range votes {
		conf := confSum[rec] / float64(n)

		switch {
		case best == "",
			n > bestN,
			n == bestN && conf > bestConf,
			n == bestN && conf == bestConf && rec < best:
			best, bestN, bestConf = rec, n, conf
		}
	}

	return best
}

// Summarize renders a one-line description of res.
func Summarize(res *core.ConsensusResult) string {
	return fmt.Sprintf("%s consensus on %q: %s (score %.3f, %d agents)",
		res.ConsensusType, res.Topic, res.DominantRecommendation, res.ConsensusScore, len(res.ParticipatingAgents))
}
