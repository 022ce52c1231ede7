package validation

import (
	"time"

	"github.com/while-basic/celaya-parachain-sub001/analysis"
	"github.com/while-basic/celaya-parachain-sub001/core"
	"github.com/while-basic/celaya-parachain-sub001/credibility"
	"github.com/while-basic/celaya-parachain-sub001/factcheck"
	"github.com/while-basic/celaya-parachain-sub001/ledger"
	"github.com/while-basic/celaya-parachain-sub001/logging"
)

// Weights combine the reliability components. They must sum to 1.
type Weights struct {
	Facts   float64 `yaml:"facts" json:"facts"`
	Sources float64 `yaml:"sources" json:"sources"`
	Tone    float64 `yaml:"tone" json:"tone"`
}

// Thresholds drive the recommendation.
type Thresholds struct {
	Accept          float64 `yaml:"accept" json:"accept"`
	Reject          float64 `yaml:"reject" json:"reject"`
	FalseConfidence float64 `yaml:"false_confidence" json:"false_confidence"`
}

var (
	DefaultWeights    = Weights{Facts: 0.5, Sources: 0.3, Tone: 0.2}
	DefaultThresholds = Thresholds{Accept: 0.75, Reject: 0.35, FalseConfidence: 0.25}
)

// DefaultStatusWeights scales a fact-check's confidence by its verdict.
func DefaultStatusWeights() map[core.VerificationStatus]float64 {
	return map[core.VerificationStatus]float64{
		core.StatusVerified:   1,
		core.StatusDisputed:   0.5,
		core.StatusFalse:      0,
		core.StatusUnverified: 0.25,
	}
}

// Options configures an Aggregator.
type Options struct {
	Checker       *factcheck.Checker
	Scorer        *credibility.Scorer
	Bias          *analysis.BiasAnalyzer
	Weights       Weights
	StatusWeights map[core.VerificationStatus]float64
	Thresholds    Thresholds
	// NeutralReliability is used when a report has no component data at all.
	NeutralReliability float64
	// Recorder, when set, receives every report.
	Recorder *ledger.Recorder
	// Backoff is the pause before retrying a failed signing call.
	Backoff time.Duration
	Logger  logging.Logger
	Now     func() time.Time
}
