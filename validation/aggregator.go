package validation

import (
	"context"
	"strings"
	"time"

	"github.com/while-basic/celaya-parachain-sub001/analysis"
	"github.com/while-basic/celaya-parachain-sub001/core"
	"github.com/while-basic/celaya-parachain-sub001/credibility"
	"github.com/while-basic/celaya-parachain-sub001/factcheck"
	"github.com/while-basic/celaya-parachain-sub001/internal/util"
	"github.com/while-basic/celaya-parachain-sub001/logging"
)

// RecordKind labels validation reports in the ledger.
const RecordKind = "validation_report"

// Aggregator produces validation reports.
type Aggregator struct {
	signer core.Signer
	opts   Options
}

// NewAggregator builds an Aggregator that signs reports with signer.
func NewAggregator(signer core.Signer, optFns ...func(o *Options)) *Aggregator {
	opts := Options{
		Weights:            DefaultWeights,
		StatusWeights:      DefaultStatusWeights(),
		Thresholds:         DefaultThresholds,
		NeutralReliability: 0.5,
		Backoff:            50 * time.Millisecond,
		Logger:             logging.NoOpLogger{},
		Now:                time.Now,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Checker == nil {
		opts.Checker = factcheck.NewChecker(func(o *factcheck.Options) { o.Now = opts.Now })
	}

	if opts.Scorer == nil {
		opts.Scorer = credibility.NewScorer()
	}

	if opts.Bias == nil {
		opts.Bias = analysis.NewBiasAnalyzer()
	}

	return &Aggregator{signer: signer, opts: opts}
}

// Validate builds, signs and records the report for insight. An empty summary
// is not an error: the report then carries no fact-checks, a neutral bias
// profile and a reliability derived from source credibility alone.
func (a *Aggregator) Validate(ctx context.Context, insight core.Insight) (*core.ValidationReport, error) {
	const op = "validation.validate"

	if a.signer == nil {
		return nil, core.Errorf(op, core.KindInternal, "no signer configured")
	}

	report := &core.ValidationReport{
		ReportID:                core.NewID(),
		AgentID:                 insight.AgentID,
		Topic:                   insight.Topic,
		OriginalContent:         insight.Summary,
		FactChecks:              []core.FactCheckResult{},
		SourceCredibilityScores: a.opts.Scorer.ScoreAll(insight.Sources),
		ValidationTimestamp:     a.opts.Now().UTC(),
	}

	if strings.TrimSpace(insight.Summary) == "" {
		report.BiasAnalysis = core.BiasProfile{BiasIndicatorsFound: []string{}}
		report.Degraded = []string{"fact_checks", "bias_analysis"}
		report.OverallReliabilityScore = a.credibilityOnly(report.SourceCredibilityScores)
	} else {
		claims := analysis.ExtractClaims(insight.Summary)
		report.FactChecks = a.opts.Checker.CheckAll(claims, insight.Sources)
		report.BiasAnalysis = a.opts.Bias.Analyze(insight.Summary)
		report.OverallReliabilityScore = a.Reliability(report.FactChecks, report.SourceCredibilityScores, report.BiasAnalysis)
	}

	report.ConsensusRecommendation = a.Recommend(report.OverallReliabilityScore, report.FactChecks)

	if xr := CrossReferenceSources(report.SourceCredibilityScores); len(xr.Conflicts) > 0 {
		a.opts.Logger.Warn("validation.sources.conflict",
			"report_id", report.ReportID,
			"conflicts", xr.Conflicts,
			"strength", xr.ConsensusStrength,
		)
	}

	if err := a.sign(ctx, report); err != nil {
		a.opts.Logger.Error("validation.sign.failed", "report_id", report.ReportID, "error", err.Error())
		return nil, core.E(op, core.KindInternal, err)
	}

	if a.opts.Recorder != nil {
		rec, err := a.opts.Recorder.Emit(ctx, recordAgent(insight.AgentID), RecordKind, report)
		if err != nil {
			return nil, core.E(op, core.KindInternal, err)
		}

		report.RecordCID = rec.CID
	}

	a.opts.Logger.Info("validation.report.created",
		"report_id", report.ReportID,
		"claims", len(report.FactChecks),
		"reliability", report.OverallReliabilityScore,
		"recommendation", string(report.ConsensusRecommendation),
	)

	return report, nil
}

// Reliability combines the three components into a score within [0,1].
func (a *Aggregator) Reliability(checks []core.FactCheckResult, credibility map[string]float64, bias core.BiasProfile) float64 {
	w := a.opts.Weights

	var sum, weight float64

	if len(checks) > 0 {
		vals := make([]float64, len(checks))
		for i, fc := range checks {
			vals[i] = core.Clamp01(fc.ConfidenceScore) * a.opts.StatusWeights[fc.VerificationStatus]
		}

		sum += w.Facts * core.Mean(vals)
		weight += w.Facts
	}

	if len(credibility) > 0 {
		sum += w.Sources * meanScore(credibility)
		weight += w.Sources
	}

	sum += w.Tone * (1 - core.Clamp01(bias.OverallBiasScore))
	weight += w.Tone

	if weight <= 0 {
		return core.Clamp01(a.opts.NeutralReliability)
	}

	return core.Clamp01(sum / weight)
}

// Recommend maps a reliability score and fact-checks to a verdict.
func (a *Aggregator) Recommend(reliability float64, checks []core.FactCheckResult) core.Recommendation {
	t := a.opts.Thresholds

	hasFalse := false
	for _, fc := range checks {
		if fc.VerificationStatus != core.StatusFalse {
			continue
		}

		hasFalse = true
		if fc.ConfidenceScore < t.FalseConfidence {
			return core.RecommendReject
		}
	}

	switch {
	case reliability < t.Reject:
		return core.RecommendReject
	case reliability >= t.Accept && !hasFalse:
		return core.RecommendAccept
	default:
		return core.RecommendAcceptWithCaution
	}
}

func (a *Aggregator) credibilityOnly(scores map[string]float64) float64 {
	if len(scores) == 0 {
		return core.Clamp01(a.opts.NeutralReliability)
	}

	return core.Clamp01(meanScore(scores))
}

// signedBody is the canonical portion of a report covered by its signature.
type signedBody struct {
	ReportID                string                 `json:"report_id"`
	AgentID                 string                 `json:"agent_id"`
	Topic                   string                 `json:"topic"`
	OriginalContent         string                 `json:"original_content"`
	FactChecks              []core.FactCheckResult `json:"fact_checks"`
	SourceCredibilityScores map[string]float64     `json:"source_credibility_scores"`
	BiasAnalysis            core.BiasProfile       `json:"bias_analysis"`
	OverallReliabilityScore float64                `json:"overall_reliability_score"`
	ConsensusRecommendation core.Recommendation    `json:"consensus_recommendation"`
	ValidationTimestamp     time.Time              `json:"validation_timestamp"`
}

// SignedBytes returns the canonical bytes covered by r's signature.
func SignedBytes(r *core.ValidationReport) ([]byte, error) {
	return util.CanonicalJSON(signedBody{
		ReportID:                r.ReportID,
		AgentID:                 r.AgentID,
		Topic:                   r.Topic,
		OriginalContent:         r.OriginalContent,
		FactChecks:              r.FactChecks,
		SourceCredibilityScores: r.SourceCredibilityScores,
		BiasAnalysis:            r.BiasAnalysis,
		OverallReliabilityScore: r.OverallReliabilityScore,
		ConsensusRecommendation: r.ConsensusRecommendation,
		ValidationTimestamp:     r.ValidationTimestamp,
	})
}

func (a *Aggregator) sign(ctx context.Context, r *core.ValidationReport) error {
	body, err := SignedBytes(r)
	if err != nil {
		return err
	}

	hash, err := util.RetryOnce(ctx, a.opts.Backoff, func() (string, error) { return a.signer.Hash(body) })
	if err != nil {
		return err
	}

	sig, err := util.RetryOnce(ctx, a.opts.Backoff, func() (string, error) { return a.signer.Sign(body) })
	if err != nil {
		return err
	}

	r.ContentHash = hash
	r.TheorySignature = sig

	return nil
}

func meanScore(scores map[string]float64) float64 {
	var sum float64
	for _, v := range scores {
		sum += core.Clamp01(v)
	}

	return sum / float64(len(scores))
}

func recordAgent(agentID string) string {
	if agentID == "" {
		return "validator"
	}

	return agentID
}
