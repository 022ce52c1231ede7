package analysis

import (
	"math"

	"github.com/while-basic/celaya-parachain-sub001/core"
)

// BiasWeights combine the component scores into the overall score.
// They must sum to 1.
type BiasWeights struct {
	Emotional  float64 `yaml:"emotional" json:"emotional"`
	Absolute   float64 `yaml:"absolute" json:"absolute"`
	Conspiracy float64 `yaml:"conspiracy" json:"conspiracy"`
}

// DefaultBiasWeights favours emotional and absolute language over the rarer
// conspiracy indicators.
var DefaultBiasWeights = BiasWeights{Emotional: 0.4, Absolute: 0.35, Conspiracy: 0.25}

// DefaultSaturation is the share of remaining headroom each extra match adds.
const DefaultSaturation = 0.5

// BiasOptions configures a BiasAnalyzer.
type BiasOptions struct {
	Weights BiasWeights
	// Saturation is the share of the remaining headroom each extra match adds:
	// score(n) = 1 - (1-Saturation)^n.
	Saturation float64
}

// BiasAnalyzer scores lexical bias with diminishing returns per match.
type BiasAnalyzer struct {
	opts BiasOptions
}

// NewBiasAnalyzer builds an analyzer with the default weights and a 0.5 saturation.
func NewBiasAnalyzer(optFns ...func(o *BiasOptions)) *BiasAnalyzer {
	opts := BiasOptions{Weights: DefaultBiasWeights, Saturation: DefaultSaturation}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &BiasAnalyzer{opts: opts}
}

// Analyze computes the bias profile of text. Empty text yields a zero profile.
func (a *BiasAnalyzer) Analyze(text string) core.BiasProfile {
	tokens := Tokens(text)
	found := []string{}
	seen := map[string]struct{}{}

	score := func(terms []string) float64 {
		n := 0
		for _, m := range CountTerms(tokens, terms) {
			n += m.Count
			if _, dup := seen[m.Term]; !dup {
				seen[m.Term] = struct{}{}
				found = append(found, m.Term)
			}
		}

		return a.saturate(n)
	}

	p := core.BiasProfile{
		EmotionalLanguageScore:    score(EmotionalTerms),
		AbsoluteTermsScore:        score(AbsoluteTerms),
		ConspiracyIndicatorsScore: score(ConspiracyTerms),
		LoadedLanguageScore:       score(LoadedTerms),
	}

	w := a.opts.Weights
	p.OverallBiasScore = core.Clamp01(w.Emotional*p.EmotionalLanguageScore +
		w.Absolute*p.AbsoluteTermsScore +
		w.Conspiracy*p.ConspiracyIndicatorsScore)
	p.BiasIndicatorsFound = found

	return p
}

func (a *BiasAnalyzer) saturate(n int) float64 {
	if n <= 0 {
		return 0
	}

	return core.Clamp01(1 - math.Pow(1-a.opts.Saturation, float64(n)))
}

var defaultBias = NewBiasAnalyzer()

// AnalyzeBias scores text with the default analyzer.
func AnalyzeBias(text string) core.BiasProfile { return defaultBias.Analyze(text) }
