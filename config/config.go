// Package config holds the engine's policy constants and loads them from YAML.
//
// Every numeric coefficient the engine uses (bias weights, reliability weights,
// recommendation thresholds, credibility tables, quorum, trust deltas) lives in
// a Policy so deployments can tune them without code changes. Default returns
// the values the engine ships with.
package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/while-basic/celaya-parachain-sub001/analysis"
	"github.com/while-basic/celaya-parachain-sub001/core"
	"github.com/while-basic/celaya-parachain-sub001/credibility"
	"github.com/while-basic/celaya-parachain-sub001/validation"
)

const weightTolerance = 1e-9

// BiasPolicy configures the tone analyzer.
type BiasPolicy struct {
	Weights    analysis.BiasWeights `yaml:"weights"`
	Saturation float64              `yaml:"saturation"`
}

// ReliabilityPolicy configures the validation aggregator.
type ReliabilityPolicy struct {
	Weights       validation.Weights    `yaml:"weights"`
	StatusWeights map[string]float64    `yaml:"status_weights"`
	Thresholds    validation.Thresholds `yaml:"thresholds"`
	Neutral       float64               `yaml:"neutral"`
}

// CredibilityPolicy configures the source scorer.
type CredibilityPolicy struct {
	TypeScores map[string]float64             `yaml:"type_scores"`
	Domains    []credibility.DomainAdjustment `yaml:"domains"`
}

// VotePolicy configures quorum votes.
type VotePolicy struct {
	Quorum         float64       `yaml:"quorum"`
	DefaultTimeout time.Duration `yaml:"default_timeout"`
}

// TrustPolicy lists the trust deltas applied on engine events.
type TrustPolicy struct {
	Initial             float64 `yaml:"initial"`
	CoordinationSuccess float64 `yaml:"coordination_success"`
	CoordinationFailure float64 `yaml:"coordination_failure"`
	VoteParticipation   float64 `yaml:"vote_participation"`
}

// CoordinationPolicy bounds coordination runs.
type CoordinationPolicy struct {
	AgentTimeout  time.Duration `yaml:"agent_timeout"`
	ParallelLimit int           `yaml:"parallel_limit"`
}

// Policy is the complete engine configuration.
type Policy struct {
	Version          int                `yaml:"version"`
	Bias             BiasPolicy         `yaml:"bias"`
	Reliability      ReliabilityPolicy  `yaml:"reliability"`
	Credibility      CredibilityPolicy  `yaml:"credibility"`
	Vote             VotePolicy         `yaml:"vote"`
	Trust            TrustPolicy        `yaml:"trust"`
	Coordination     CoordinationPolicy `yaml:"coordination"`
	RegistryCapacity int                `yaml:"registry_capacity"`
	HistorySize      int                `yaml:"history_size"`
	RetryBackoff     time.Duration      `yaml:"retry_backoff"`
	NarrativeTimeout time.Duration      `yaml:"narrative_timeout"`
}

// Default returns the shipped policy.
func Default() *Policy {
	typeScores := make(map[string]float64, len(credibility.DefaultTypeScores))
	for t, s := range credibility.DefaultTypeScores {
		typeScores[string(t)] = s
	}

	statusWeights := map[string]float64{}
	for s, w := range validation.DefaultStatusWeights() {
		statusWeights[string(s)] = w
	}

	return &Policy{
		Version: 1,
		Bias: BiasPolicy{
			Weights:    analysis.DefaultBiasWeights,
			Saturation: analysis.DefaultSaturation,
		},
		Reliability: ReliabilityPolicy{
			Weights:       validation.DefaultWeights,
			StatusWeights: statusWeights,
			Thresholds:    validation.DefaultThresholds,
			Neutral:       0.5,
		},
		Credibility: CredibilityPolicy{
			TypeScores: typeScores,
			Domains:    append([]credibility.DomainAdjustment(nil), credibility.DefaultDomainAdjustments...),
		},
		Vote: VotePolicy{
			Quorum:         0.6,
			DefaultTimeout: 5 * time.Minute,
		},
		Trust: TrustPolicy{
			Initial:             0.8,
			CoordinationSuccess: 0.01,
			CoordinationFailure: -0.02,
			VoteParticipation:   0.005,
		},
		Coordination: CoordinationPolicy{
			AgentTimeout:  30 * time.Second,
			ParallelLimit: 8,
		},
		RegistryCapacity: 13,
		HistorySize:      256,
		RetryBackoff:     50 * time.Millisecond,
		NarrativeTimeout: 20 * time.Second,
	}
}

// Load reads and validates a YAML policy file. Fields missing from the file
// keep their default values.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		kind := core.KindInternal
		if os.IsNotExist(err) {
			kind = core.KindNotFound
		}

		return nil, core.E("config.load", kind, err)
	}

	return Parse(data)
}

// Parse decodes a YAML policy over the defaults and validates it.
func Parse(data []byte) (*Policy, error) {
	p := Default()

	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, core.E("config.parse", core.KindInvalidInput, err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Marshal encodes p as YAML.
func (p *Policy) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}

// Validate checks the policy's internal consistency.
func (p *Policy) Validate() error {
	const op = "config.validate"

	fail := func(format string, args ...any) error {
		return core.Errorf(op, core.KindInvalidInput, format, args...)
	}

	bw := p.Bias.Weights
	if !sumsToOne(bw.Emotional, bw.Absolute, bw.Conspiracy) {
		return fail("bias weights must sum to 1, got %.4f", bw.Emotional+bw.Absolute+bw.Conspiracy)
	}

	for _, r := range []struct {
		name   string
		v      float64
		lo, hi float64
	}{
		{"emotional", bw.Emotional, 0.3, 0.4},
		{"absolute", bw.Absolute, 0.3, 0.4},
		{"conspiracy", bw.Conspiracy, 0.2, 0.3},
	} {
		if r.v < r.lo-weightTolerance || r.v > r.hi+weightTolerance {
			return fail("%s bias weight %.3f outside [%.2f, %.2f]", r.name, r.v, r.lo, r.hi)
		}
	}

	if p.Bias.Saturation <= 0 || p.Bias.Saturation >= 1 {
		return fail("bias saturation must be in (0, 1), got %v", p.Bias.Saturation)
	}

	rw := p.Reliability.Weights
	if !sumsToOne(rw.Facts, rw.Sources, rw.Tone) {
		return fail("reliability weights must sum to 1, got %.4f", rw.Facts+rw.Sources+rw.Tone)
	}

	for s, w := range p.Reliability.StatusWeights {
		if !validStatus(core.VerificationStatus(s)) {
			return fail("unknown verification status %q", s)
		}

		if !unit(w) {
			return fail("status weight for %s must be in [0, 1]", s)
		}
	}

	th := p.Reliability.Thresholds
	if !unit(th.Reject) || !unit(th.Accept) || th.Reject >= th.Accept {
		return fail("thresholds must satisfy 0 <= reject < accept <= 1")
	}

	if !unit(th.FalseConfidence) || !unit(p.Reliability.Neutral) {
		return fail("false confidence and neutral reliability must be in [0, 1]")
	}

	for t, s := range p.Credibility.TypeScores {
		if !core.SourceType(t).Valid() {
			return fail("unknown source type %q", t)
		}

		if !unit(s) {
			return fail("credibility of %s must be in [0, 1]", t)
		}
	}

	if p.Vote.Quorum <= 0 || p.Vote.Quorum > 1 {
		return fail("vote quorum must be in (0, 1]")
	}

	if p.Vote.DefaultTimeout <= 0 {
		return fail("vote default timeout must be positive")
	}

	if !unit(p.Trust.Initial) {
		return fail("initial trust must be in [0, 1]")
	}

	if p.RegistryCapacity < 1 {
		return fail("registry capacity must be at least 1")
	}

	if p.Coordination.AgentTimeout < 0 || p.Coordination.ParallelLimit < 0 || p.RetryBackoff < 0 || p.NarrativeTimeout < 0 {
		return fail("timeouts, limits and backoff must not be negative")
	}

	return nil
}

// TypeScores returns the credibility table keyed by source type.
func (p *Policy) TypeScores() map[core.SourceType]float64 {
	out := make(map[core.SourceType]float64, len(p.Credibility.TypeScores))
	for t, s := range p.Credibility.TypeScores {
		out[core.SourceType(t)] = s
	}

	return out
}

// StatusWeights returns the fact-check verdict weights keyed by status.
func (p *Policy) StatusWeights() map[core.VerificationStatus]float64 {
	out := make(map[core.VerificationStatus]float64, len(p.Reliability.StatusWeights))
	for s, w := range p.Reliability.StatusWeights {
		out[core.VerificationStatus(s)] = w
	}

	return out
}

func (p *Policy) String() string {
	return fmt.Sprintf("policy v%d (bias %.2f/%.2f/%.2f, reliability %.2f/%.2f/%.2f, quorum %.2f)",
		p.Version,
		p.Bias.Weights.Emotional, p.Bias.Weights.Absolute, p.Bias.Weights.Conspiracy,
		p.Reliability.Weights.Facts, p.Reliability.Weights.Sources, p.Reliability.Weights.Tone,
		p.Vote.Quorum)
}

func sumsToOne(ws ...float64) bool {
	var sum float64
	for _, w := range ws {
		sum += w
	}

	return math.Abs(sum-1) <= weightTolerance
}

func unit(v float64) bool { return v >= 0 && v <= 1 }

func validStatus(s core.VerificationStatus) bool {
	switch s {
	case core.StatusVerified, core.StatusDisputed, core.StatusFalse, core.StatusUnverified:
		return true
	default:
		return false
	}
}
