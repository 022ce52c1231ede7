package core

import "time"

// AgentInput is one agent's signal supplied to the consensus engine.
type AgentInput struct {
	AgentID          string         `json:"agent_id"`
	Confidence       float64        `json:"confidence"`
	ReliabilityScore float64        `json:"reliability_score"`
	Recommendation   Recommendation `json:"recommendation"`
	Summary          string         `json:"summary,omitempty"`
}

// ConsensusType classifies agreement among inputs.
type ConsensusType string

const (
	ConsensusUnanimous ConsensusType = "unanimous"
	ConsensusMajority  ConsensusType = "majority"
	ConsensusSplit     ConsensusType = "split"
)

// AgentWeight is the per-agent contribution to a consensus score.
type AgentWeight struct {
	AgentID          string         `json:"agent_id"`
	Recommendation   Recommendation `json:"recommendation"`
	Confidence       float64        `json:"confidence"`
	ReliabilityScore float64        `json:"reliability_score"`
	Weight           float64        `json:"weight"`
}

// ConsensusResult is immutable; one is created per invocation.
type ConsensusResult struct {
	ConsensusID            string                 `json:"consensus_id"`
	Topic                  string                 `json:"topic"`
	Method                 string                 `json:"method"`
	ConsensusScore         float64                `json:"consensus_score"`
	ConsensusType          ConsensusType          `json:"consensus_type"`
	ParticipatingAgents    []string               `json:"participating_agents"`
	DominantRecommendation Recommendation         `json:"dominant_recommendation"`
	Votes                  map[Recommendation]int `json:"votes"`
	Breakdown              []AgentWeight          `json:"breakdown"`
	CreatedAt              time.Time              `json:"created_at"`
	RecordCID              string                 `json:"record_cid,omitempty"`
}

// SynthesizedInsight merges several insights into one payload.
//
// Degraded is set when the optional narrative could not be generated and the
// deterministic summary concatenation was used instead.
type SynthesizedInsight struct {
	SynthesisID        string    `json:"synthesis_id"`
	Topic              string    `json:"topic"`
	Method             string    `json:"method"`
	SynthesizedContent string    `json:"synthesized_content"`
	Confidence         float64   `json:"confidence"`
	ReliabilityScore   float64   `json:"reliability_score"`
	InsightCount       int       `json:"insight_count"`
	ContributingAgents []string  `json:"contributing_agents"`
	Narrative          string    `json:"narrative,omitempty"`
	Degraded           bool      `json:"degraded,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	RecordCID          string    `json:"record_cid,omitempty"`
}
