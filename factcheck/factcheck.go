// Package factcheck classifies single claims into a verification status.
//
// Classification is a one-step rule cascade. Evidentiary markers win over
// refutation markers, which win over absolute terms, which win over emotional
// language. Claims matching none of them are unverified with a neutral confidence.
package factcheck

import (
	"fmt"
	"time"

	"github.com/while-basic/celaya-parachain-sub001/analysis"
	"github.com/while-basic/celaya-parachain-sub001/core"
)

var (
	evidentiaryMarkers = []string{
		"study", "studies", "research", "researchers", "evidence", "published",
		"peer-reviewed", "journal", "clinical trial", "meta-analysis", "data shows",
	}

	refutationMarkers = []string{
		"debunked", "hoax", "disproven", "myth", "fabricated", "falsified",
	}

	absoluteMarkers = []string{
		"always", "never", "all", "none", "every", "completely", "totally", "absolutely",
	}

	emotionalMarkers = []string{
		"shocking", "unbelievable", "mind-blowing", "outrageous", "incredible", "devastating",
	}
)

// Options configures the confidence assigned by each rule.
type Options struct {
	VerifiedConfidence   float64
	FalseConfidence      float64
	DisputedConfidence   float64
	EmotionalConfidence  float64
	DefaultConfidence    float64
	SpecificityBonus     float64 // added to verified claims longer than SpecificityWords
	SpecificityWords     int
	RelevanceThreshold   float64 // keyword overlap needed for a source title to support a claim
	SupportBonusPerMatch float64
	MaxSupportBonus      float64
	Now                  func() time.Time
}

// Checker is a stateless claim classifier.
type Checker struct {
	opts Options
}

// NewChecker builds a Checker with the default confidence bands.
func NewChecker(optFns ...func(o *Options)) *Checker {
	opts := Options{
		VerifiedConfidence:   0.8,
		FalseConfidence:      0.2,
		DisputedConfidence:   0.5,
		EmotionalConfidence:  0.3,
		DefaultConfidence:    0.5,
		SpecificityBonus:     0.05,
		SpecificityWords:     10,
		RelevanceThreshold:   0.3,
		SupportBonusPerMatch: 0.05,
		MaxSupportBonus:      0.1,
		Now:                  time.Now,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Checker{opts: opts}
}

// Check classifies claim without consulting any sources.
func (c *Checker) Check(claim string) core.FactCheckResult {
	tokens := analysis.Tokens(claim)
	res := core.FactCheckResult{
		Claim:                claim,
		SupportingSources:    []string{},
		ContradictingSources: []string{},
		CheckedAt:            c.opts.Now(),
	}

	switch {
	case analysis.ContainsAny(tokens, evidentiaryMarkers):
		res.VerificationStatus = core.StatusVerified
		res.ConfidenceScore = c.opts.VerifiedConfidence
		res.Reasoning = "claim cites research or published evidence"
		if len(tokens) > c.opts.SpecificityWords {
			res.ConfidenceScore += c.opts.SpecificityBonus
			res.Reasoning += "; specific wording"
		}
	case analysis.ContainsAny(tokens, refutationMarkers):
		res.VerificationStatus = core.StatusFalse
		res.ConfidenceScore = c.opts.FalseConfidence
		res.Reasoning = "claim is framed around a refuted or fabricated assertion"
	case analysis.ContainsAny(tokens, absoluteMarkers):
		res.VerificationStatus = core.StatusDisputed
		res.ConfidenceScore = c.opts.DisputedConfidence
		res.Reasoning = "claim uses absolute or universal terms"
	case analysis.ContainsAny(tokens, emotionalMarkers):
		res.VerificationStatus = core.StatusUnverified
		res.ConfidenceScore = c.opts.EmotionalConfidence
		res.Reasoning = "claim relies on emotional language"
	default:
		res.VerificationStatus = core.StatusUnverified
		res.ConfidenceScore = c.opts.DefaultConfidence
		res.Reasoning = "no verification markers found"
	}

	res.ConfidenceScore = core.Clamp01(res.ConfidenceScore)

	return res
}

// CheckWithSources classifies claim and cross-references it against the
// titles of sources. Sources whose title shares enough keywords with the claim
// are listed as supporting and raise confidence by a bounded bonus. Status is
// never changed by cross-referencing.
func (c *Checker) CheckWithSources(claim string, sources []core.KnowledgeSource) core.FactCheckResult {
	res := c.Check(claim)

	keywords := analysis.ExtractKeywords(claim)
	for _, src := range sources {
		if analysis.KeywordOverlap(keywords, src.Title) > c.opts.RelevanceThreshold {
			res.SupportingSources = append(res.SupportingSources, src.URL)
		}
	}

	if n := len(res.SupportingSources); n > 0 && res.VerificationStatus != core.StatusFalse {
		bonus := min(c.opts.MaxSupportBonus, c.opts.SupportBonusPerMatch*float64(n))
		res.ConfidenceScore = core.Clamp01(res.ConfidenceScore + bonus)
		res.Reasoning += fmt.Sprintf("; %d related source(s)", n)
	}

	return res
}

// CheckAll fact-checks every claim against sources, in order.
func (c *Checker) CheckAll(claims []core.Claim, sources []core.KnowledgeSource) []core.FactCheckResult {
	results := make([]core.FactCheckResult, 0, len(claims))

	for _, cl := range claims {
		results = append(results, c.CheckWithSources(cl.Text, sources))
	}

	return results
}
