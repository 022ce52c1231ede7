package core

import (
	"strings"
	"time"
)

// SourceType enumerates the knowledge providers an insight may cite.
type SourceType string

const (
	SourceWikipedia SourceType = "wikipedia"
	SourcePubMed    SourceType = "pubmed"
	SourceWolfram   SourceType = "wolfram"
	SourceNews      SourceType = "news"
	SourceOther     SourceType = "other"
)

// Valid reports whether t is one of the fixed source types.
func (t SourceType) Valid() bool {
	switch t {
	case SourceWikipedia, SourcePubMed, SourceWolfram, SourceNews, SourceOther:
		return true
	default:
		return false
	}
}

// ParseSourceType normalizes s and falls back to SourceOther for unknown types.
func ParseSourceType(s string) SourceType {
	t := SourceType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return SourceOther
	}

	return t
}

// KnowledgeSource is an immutable reference returned by a knowledge provider.
type KnowledgeSource struct {
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	SourceType  SourceType `json:"source_type"`
	RetrievedAt time.Time  `json:"retrieved_at"`
}

// Insight is the payload produced by a gathering agent: a topic, a textual
// summary and the sources it was built from. Confidence and ReliabilityScore
// are carried when the insight takes part in synthesis.
type Insight struct {
	AgentID          string            `json:"agent_id"`
	Topic            string            `json:"topic"`
	Summary          string            `json:"summary"`
	Sources          []KnowledgeSource `json:"sources,omitempty"`
	Confidence       float64           `json:"confidence"`
	ReliabilityScore float64           `json:"reliability_score"`
}

// Claim is a verbatim sentence of source text flagged as a factual assertion.
type Claim struct {
	Text   string `json:"text"`
	Offset int    `json:"offset"` // byte offset of Text in the analyzed text
}
