package core

import "time"

// VerificationStatus is the terminal state of a single fact-check.
type VerificationStatus string

const (
	StatusVerified   VerificationStatus = "verified"
	StatusDisputed   VerificationStatus = "disputed"
	StatusFalse      VerificationStatus = "false"
	StatusUnverified VerificationStatus = "unverified"
)

// FactCheckResult is never mutated after creation.
type FactCheckResult struct {
	Claim                string             `json:"claim"`
	VerificationStatus   VerificationStatus `json:"verification_status"`
	ConfidenceScore      float64            `json:"confidence_score"`
	SupportingSources    []string           `json:"supporting_sources"`
	ContradictingSources []string           `json:"contradicting_sources"`
	Reasoning            string             `json:"reasoning"`
	CheckedAt            time.Time          `json:"checked_at"`
}

// BiasProfile holds lexical bias sub-scores, all within [0,1].
// LoadedLanguageScore is informational and does not feed OverallBiasScore.
type BiasProfile struct {
	OverallBiasScore          float64  `json:"overall_bias_score"`
	EmotionalLanguageScore    float64  `json:"emotional_language_score"`
	AbsoluteTermsScore        float64  `json:"absolute_terms_score"`
	ConspiracyIndicatorsScore float64  `json:"conspiracy_indicators_score"`
	LoadedLanguageScore       float64  `json:"loaded_language_score"`
	BiasIndicatorsFound       []string `json:"bias_indicators_found"`
}

// Recommendation is the verdict attached to a validation report or agent input.
type Recommendation string

const (
	RecommendAccept            Recommendation = "accept"
	RecommendAcceptWithCaution Recommendation = "accept_with_caution"
	RecommendReject            Recommendation = "reject"
)

// Valid reports whether r is one of the three report verdicts.
func (r Recommendation) Valid() bool {
	return r == RecommendAccept || r == RecommendAcceptWithCaution || r == RecommendReject
}

// ValidationReport is created once per validation call and is immutable afterwards.
//
// Degraded lists the fields that could not be fully populated, for example
// "fact_checks" when the summary was empty.
type ValidationReport struct {
	ReportID                string             `json:"report_id"`
	AgentID                 string             `json:"agent_id,omitempty"`
	Topic                   string             `json:"topic,omitempty"`
	OriginalContent         string             `json:"original_content"`
	FactChecks              []FactCheckResult  `json:"fact_checks"`
	SourceCredibilityScores map[string]float64 `json:"source_credibility_scores"`
	BiasAnalysis            BiasProfile        `json:"bias_analysis"`
	OverallReliabilityScore float64            `json:"overall_reliability_score"`
	ConsensusRecommendation Recommendation     `json:"consensus_recommendation"`
	ValidationTimestamp     time.Time          `json:"validation_timestamp"`
	ContentHash             string             `json:"content_hash"`
	TheorySignature         string             `json:"theory_signature"`
	RecordCID               string             `json:"record_cid,omitempty"`
	Degraded                []string           `json:"degraded,omitempty"`
}
