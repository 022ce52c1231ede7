package testutil

import (
	"time"

	"github.com/while-basic/celaya-parachain-sub001/core"
)

// SourceBuilder provides a fluent helper for constructing knowledge sources.
// Example:
//
//	src := NewSourceBuilder("https://pubmed.ncbi.nlm.nih.gov/1").Type(core.SourcePubMed).Build()
type SourceBuilder struct {
	src core.KnowledgeSource
}

// NewSourceBuilder creates a builder with source type "other".
func NewSourceBuilder(url string) *SourceBuilder {
	return &SourceBuilder{src: core.KnowledgeSource{URL: url, SourceType: core.SourceOther}}
}

// Title sets the source title (chainable).
func (b *SourceBuilder) Title(t string) *SourceBuilder { b.src.Title = t; return b }

// Type sets the source type (chainable).
func (b *SourceBuilder) Type(t core.SourceType) *SourceBuilder { b.src.SourceType = t; return b }

// RetrievedAt sets the retrieval time (chainable).
func (b *SourceBuilder) RetrievedAt(ts time.Time) *SourceBuilder { b.src.RetrievedAt = ts; return b }

// Build returns the source.
func (b *SourceBuilder) Build() core.KnowledgeSource { return b.src }

// InsightBuilder provides a fluent helper for constructing insights.
// Example:
//
//	in := NewInsightBuilder("theory").Topic("coffee").Summary("...").Scores(0.8, 0.9).Build()
type InsightBuilder struct {
	in core.Insight
}

// NewInsightBuilder creates a builder for agentID's insight.
func NewInsightBuilder(agentID string) *InsightBuilder {
	return &InsightBuilder{in: core.Insight{AgentID: agentID}}
}

// Topic sets the topic (chainable).
func (b *InsightBuilder) Topic(t string) *InsightBuilder { b.in.Topic = t; return b }

// Summary sets the summary text (chainable).
func (b *InsightBuilder) Summary(s string) *InsightBuilder { b.in.Summary = s; return b }

// Source appends a source (chainable).
func (b *InsightBuilder) Source(s core.KnowledgeSource) *InsightBuilder {
	b.in.Sources = append(b.in.Sources, s)
	return b
}

// Scores sets confidence and reliability (chainable).
func (b *InsightBuilder) Scores(confidence, reliability float64) *InsightBuilder {
	b.in.Confidence, b.in.ReliabilityScore = confidence, reliability
	return b
}

// Build returns a copy of the insight.
func (b *InsightBuilder) Build() core.Insight {
	out := b.in
	out.Sources = append([]core.KnowledgeSource(nil), b.in.Sources...)

	return out
}

// AgentInputBuilder provides a fluent helper for consensus inputs. The
// recommendation defaults to accept.
type AgentInputBuilder struct {
	in core.AgentInput
}

// NewAgentInputBuilder creates a builder for agentID.
func NewAgentInputBuilder(agentID string) *AgentInputBuilder {
	return &AgentInputBuilder{in: core.AgentInput{AgentID: agentID, Recommendation: core.RecommendAccept}}
}

// Scores sets confidence and reliability (chainable).
func (b *AgentInputBuilder) Scores(confidence, reliability float64) *AgentInputBuilder {
	b.in.Confidence, b.in.ReliabilityScore = confidence, reliability
	return b
}

// Recommend sets the recommendation (chainable).
func (b *AgentInputBuilder) Recommend(r core.Recommendation) *AgentInputBuilder {
	b.in.Recommendation = r
	return b
}

// Summary sets the free text summary (chainable).
func (b *AgentInputBuilder) Summary(s string) *AgentInputBuilder { b.in.Summary = s; return b }

// Build returns the input.
func (b *AgentInputBuilder) Build() core.AgentInput { return b.in }

// Inputs keys inputs by agent id.
func Inputs(inputs ...core.AgentInput) map[string]core.AgentInput {
	out := make(map[string]core.AgentInput, len(inputs))
	for _, in := range inputs {
		out[in.AgentID] = in
	}

	return out
}
