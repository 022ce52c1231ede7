// Package synthesis merges several agents' insights into one synthesized
// payload.
//
// With the weighted_average method each insight's confidence and reliability
// are weighted by the insight's own reliability, so more reliable inputs pull
// the result harder. A single insight is returned with its scores unchanged.
// When a model.Completer is configured a free-text narrative is requested; a
// failing or slow completer only marks the result as degraded.
package synthesis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/while-basic/celaya-parachain-sub001/core"
	"github.com/while-basic/celaya-parachain-sub001/internal/history"
	"github.com/while-basic/celaya-parachain-sub001/internal/util"
	"github.com/while-basic/celaya-parachain-sub001/ledger"
	"github.com/while-basic/celaya-parachain-sub001/logging"
	"github.com/while-basic/celaya-parachain-sub001/model"
)

// Synthesis methods.
const (
	MethodWeightedAverage = "weighted_average"
	MethodSimpleAverage   = "simple_average"
)

// RecordKind labels syntheses in the ledger.
const RecordKind = "synthesis"

// SummaryLimit bounds how much of each summary enters the synthesized content.
const SummaryLimit = 100

// DefaultInstructions is the system prompt sent with narrative requests.
const DefaultInstructions = "You merge research findings from several agents into one neutral paragraph. " +
	"Do not invent facts that are not present in the findings."

// DefaultPrompt renders the narrative request.
const DefaultPrompt = `Topic: {{.Topic}}
Combined confidence: {{pct .Confidence}}, reliability: {{pct .Reliability}}
Findings:
{{range .Insights}}- {{default "unknown" .AgentID}}: {{truncate 400 .Summary}}
{{end}}Write a short synthesis of these findings.`

// Options configures a Synthesizer.
type Options struct {
	Completer        model.Completer
	Instructions     string
	Prompt           string
	NarrativeTimeout time.Duration
	HistorySize      int
	Recorder         *ledger.Recorder
	RecordAgent      string
	Logger           logging.Logger
	Now              func() time.Time
}

// Synthesizer merges insights and remembers recent syntheses.
type Synthesizer struct {
	opts    Options
	history *history.Store[*core.SynthesizedInsight]
}

// New creates a Synthesizer.
func New(optFns ...func(o *Options)) *Synthesizer {
	opts := Options{
		Instructions:     DefaultInstructions,
		Prompt:           DefaultPrompt,
		NarrativeTimeout: 20 * time.Second,
		HistorySize:      history.DefaultSize,
		RecordAgent:      "core",
		Logger:           logging.NoOpLogger{},
		Now:              time.Now,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Synthesizer{opts: opts, history: history.New[*core.SynthesizedInsight](opts.HistorySize)}
}

// Synthesize merges insights using method (weighted_average when empty).
func (s *Synthesizer) Synthesize(ctx context.Context, insights []core.Insight, method string) (*core.SynthesizedInsight, error) {
	const op = "synthesis.synthesize"

	if len(insights) == 0 {
		return nil, core.Errorf(op, core.KindInvalidInput, "at least one insight is required")
	}

	if method == "" {
		method = MethodWeightedAverage
	}

	if method != MethodWeightedAverage && method != MethodSimpleAverage {
		return nil, core.Errorf(op, core.KindInvalidInput, "unknown synthesis method %q", method)
	}

	topic := PrimaryTopic(insights)
	conf, rel := Combine(insights, method)

	agents := make([]string, len(insights))
	for i, in := range insights {
		agents[i] = in.AgentID
	}

	res := &core.SynthesizedInsight{
		SynthesisID:        core.NewID(),
		Topic:              topic,
		Method:             method,
		SynthesizedContent: Content(topic, insights),
		Confidence:         conf,
		ReliabilityScore:   rel,
		InsightCount:       len(insights),
		ContributingAgents: agents,
		CreatedAt:          s.opts.Now().UTC(),
	}

	if s.opts.Completer != nil {
		narrative, err := s.narrate(ctx, res, insights)
		if err != nil {
			res.Degraded = true
			s.opts.Logger.Warn("synthesis.narrative.failed", "synthesis_id", res.SynthesisID, "error", err)
		} else {
			res.Narrative = narrative
		}
	}

	if s.opts.Recorder != nil {
		rec, err := s.opts.Recorder.Emit(ctx, s.opts.RecordAgent, RecordKind, res)
		if err != nil {
			return nil, core.E(op, core.KindInternal, err)
		}

		res.RecordCID = rec.CID
	}

	s.history.Add(res.SynthesisID, res)

	s.opts.Logger.Info("synthesis.result.created",
		"synthesis_id", res.SynthesisID,
		"topic", topic,
		"insights", len(insights),
		"reliability", rel,
	)

	return res, nil
}

// Get returns a recent synthesis by id.
func (s *Synthesizer) Get(id string) (*core.SynthesizedInsight, error) {
	res, ok := s.history.Get(id)
	if !ok {
		return nil, core.Errorf("synthesis.get", core.KindNotFound, "synthesis %q", id)
	}

	return res, nil
}

func (s *Synthesizer) narrate(ctx context.Context, res *core.SynthesizedInsight, insights []core.Insight) (string, error) {
	prompt, err := util.RenderPrompt(s.opts.Prompt, map[string]any{
		"Topic":       res.Topic,
		"Confidence":  res.Confidence,
		"Reliability": res.ReliabilityScore,
		"Insights":    insights,
	})
	if err != nil {
		return "", err
	}

	if s.opts.NarrativeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.NarrativeTimeout)

		defer cancel()
	}

	start := time.Now()

	out, err := s.opts.Completer.Complete(ctx, model.Request{Instructions: s.opts.Instructions, Prompt: prompt})

	if cl, ok := s.opts.Logger.(logging.CompletionLogger); ok {
		cl.LogCompletion(s.opts.Completer.Info().Name, time.Since(start), err)
	}

	if err != nil {
		return "", err
	}

	return strings.TrimSpace(out), nil
}

// Combine returns the merged confidence and reliability of insights.
//
// For weighted_average the weight of each insight is its own reliability. If
// every reliability is zero the plain mean is used.
func Combine(insights []core.Insight, method string) (confidence, reliability float64) {
	if len(insights) == 1 {
		return core.Clamp01(insights[0].Confidence), core.Clamp01(insights[0].ReliabilityScore)
	}

	confs := make([]float64, len(insights))
	rels := make([]float64, len(insights))

	for i, in := range insights {
		confs[i] = core.Clamp01(in.Confidence)
		rels[i] = core.Clamp01(in.ReliabilityScore)
	}

	if method == MethodWeightedAverage {
		var total, c, r float64
		for i := range insights {
			total += rels[i]
			c += confs[i] * rels[i]
			r += rels[i] * rels[i]
		}

		if total > 0 {
			return core.Clamp01(c / total), core.Clamp01(r / total)
		}
	}

	return core.Mean(confs), core.Mean(rels)
}

// PrimaryTopic returns the most frequent topic. On a tie the topic that
// reached the winning count first is kept.
func PrimaryTopic(insights []core.Insight) string {
	counts := map[string]int{}
	best, bestN := "", 0

	for _, in := range insights {
		t := in.Topic
		if t == "" {
			t = "unknown"
		}

		counts[t]++

		if counts[t] > bestN {
			best, bestN = t, counts[t]
		}
	}

	return best
}

// Content concatenates truncated agent summaries.
func Content(topic string, insights []core.Insight) string {
	parts := make([]string, 0, len(insights))

	for _, in := range insights {
		summary := strings.TrimSpace(in.Summary)
		if summary == "" {
			continue
		}

		agent := in.AgentID
		if agent == "" {
			agent = "unknown"
		}

		if r := []rune(summary); len(r) > SummaryLimit {
			summary = string(r[:SummaryLimit]) + "..."
		}

		parts = append(parts, fmt.Sprintf("%s: %s", agent, summary))
	}

	return fmt.Sprintf("Synthesized insights for %s: %s", topic, strings.Join(parts, " | "))
}
