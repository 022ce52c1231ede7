// Package credibility maps knowledge source descriptors to credibility scores.
//
// Scores come from a static table keyed by source type, nudged by a small
// deterministic adjustment for the source's domain. Scoring never performs I/O
// and two calls with identical input always return identical output.
package credibility

import (
	"net/url"
	"strings"

	"github.com/while-basic/celaya-parachain-sub001/core"
)

// DefaultTypeScores reflects editorial rigor: pubmed > wikipedia > news > wolfram > other.
var DefaultTypeScores = map[core.SourceType]float64{
	core.SourcePubMed:    0.90,
	core.SourceWikipedia: 0.80,
	core.SourceNews:      0.70,
	core.SourceWolfram:   0.65,
	core.SourceOther:     0.40,
}

// DomainAdjustment boosts or penalizes hosts ending in Suffix.
type DomainAdjustment struct {
	Suffix string  `yaml:"suffix" json:"suffix"`
	Delta  float64 `yaml:"delta" json:"delta"`
}

// DefaultDomainAdjustments are checked in order; the first matching suffix wins.
var DefaultDomainAdjustments = []DomainAdjustment{
	{Suffix: "ncbi.nlm.nih.gov", Delta: 0.05},
	{Suffix: "nature.com", Delta: 0.05},
	{Suffix: "science.org", Delta: 0.05},
	{Suffix: "nejm.org", Delta: 0.05},
	{Suffix: "who.int", Delta: 0.05},
	{Suffix: "apnews.com", Delta: 0.03},
	{Suffix: "reuters.com", Delta: 0.03},
	{Suffix: "bbc.co.uk", Delta: 0.03},
	{Suffix: ".gov", Delta: 0.05},
	{Suffix: ".edu", Delta: 0.05},
	{Suffix: ".org", Delta: 0.02},
	{Suffix: ".blogspot.com", Delta: -0.05},
}

// Options configures a Scorer.
type Options struct {
	TypeScores        map[core.SourceType]float64
	DomainAdjustments []DomainAdjustment
}

// Scorer is a pure source credibility function.
type Scorer struct {
	opts Options
}

// NewScorer builds a Scorer with the default tables.
func NewScorer(optFns ...func(o *Options)) *Scorer {
	opts := Options{
		TypeScores:        DefaultTypeScores,
		DomainAdjustments: DefaultDomainAdjustments,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Scorer{opts: opts}
}

// Score returns the credibility of a single source. Unknown source types are
// treated as other and receive the flat minimum with no domain adjustment.
func (s *Scorer) Score(src core.KnowledgeSource) float64 {
	if !src.SourceType.Valid() || src.SourceType == core.SourceOther {
		return s.base(core.SourceOther)
	}

	return core.Clamp01(s.base(src.SourceType) + s.domainDelta(src.URL))
}

// ScoreAll scores every source keyed by URL. Sources without a URL are skipped.
// When a URL repeats, the last occurrence wins.
func (s *Scorer) ScoreAll(sources []core.KnowledgeSource) map[string]float64 {
	scores := make(map[string]float64, len(sources))

	for _, src := range sources {
		if src.URL == "" {
			continue
		}

		scores[src.URL] = s.Score(src)
	}

	return scores
}

func (s *Scorer) base(t core.SourceType) float64 {
	if v, ok := s.opts.TypeScores[t]; ok {
		return core.Clamp01(v)
	}

	return DefaultTypeScores[core.SourceOther]
}

func (s *Scorer) domainDelta(rawURL string) float64 {
	host := hostOf(rawURL)
	if host == "" {
		return 0
	}

	for _, adj := range s.opts.DomainAdjustments {
		if matchesDomain(host, strings.ToLower(adj.Suffix)) {
			return adj.Delta
		}
	}

	return 0
}

// matchesDomain treats ".tld" entries as suffixes and bare domains as the
// domain itself or any of its subdomains.
func matchesDomain(host, suffix string) bool {
	if strings.HasPrefix(suffix, ".") {
		return strings.HasSuffix(host, suffix)
	}

	return host == suffix || strings.HasSuffix(host, "."+suffix)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}

	host := u.Hostname()
	if host == "" && u.Scheme == "" {
		// bare "example.org/path"
		host, _, _ = strings.Cut(u.Path, "/")
	}

	return strings.ToLower(strings.TrimPrefix(host, "www."))
}

// Class buckets a credibility score.
func Class(score float64) string {
	switch {
	case score >= 0.85:
		return "high"
	case score >= 0.7:
		return "medium"
	default:
		return "low"
	}
}
