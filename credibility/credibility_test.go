package credibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/while-basic/celaya-parachain-sub001/core"
)

func TestScorer_TypeOrdering(t *testing.T) {
	s := NewScorer()
	score := func(st core.SourceType) float64 {
		return s.Score(core.KnowledgeSource{URL: "https://example.com/x", SourceType: st})
	}

	assert.Greater(t, score(core.SourcePubMed), score(core.SourceWikipedia))
	assert.Greater(t, score(core.SourceWikipedia), score(core.SourceNews))
	assert.Greater(t, score(core.SourceNews), score(core.SourceWolfram))
	assert.Greater(t, score(core.SourceWolfram), score(core.SourceOther))
}

func TestScorer_DomainAdjustments(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		name string
		src  core.KnowledgeSource
		want float64
	}{
		{"gov boost", core.KnowledgeSource{URL: "https://www.cdc.gov/flu", SourceType: core.SourceNews}, 0.75},
		{"edu boost", core.KnowledgeSource{URL: "https://mit.edu/paper", SourceType: core.SourceWikipedia}, 0.85},
		{"pubmed host", core.KnowledgeSource{URL: "https://pubmed.ncbi.nlm.nih.gov/123", SourceType: core.SourcePubMed}, 0.95},
		{"org boost", core.KnowledgeSource{URL: "https://en.wikipedia.org/wiki/Go", SourceType: core.SourceWikipedia}, 0.82},
		{"no adjustment", core.KnowledgeSource{URL: "https://signature.com/a", SourceType: core.SourceNews}, 0.70},
		{"bare host", core.KnowledgeSource{URL: "reuters.com/world", SourceType: core.SourceNews}, 0.73},
		{"other ignores domain", core.KnowledgeSource{URL: "https://cdc.gov", SourceType: core.SourceOther}, 0.40},
		{"unknown type", core.KnowledgeSource{URL: "https://cdc.gov", SourceType: "arxiv"}, 0.40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.Score(tt.src), 1e-9)
		})
	}
}

func TestScorer_ScoreAllIsPure(t *testing.T) {
	s := NewScorer()
	sources := []core.KnowledgeSource{
		{URL: "https://pubmed.ncbi.nlm.nih.gov/1", SourceType: core.SourcePubMed},
		{URL: "https://news.example.com/a", SourceType: core.SourceNews},
		{URL: "", SourceType: core.SourceNews},
	}

	first := s.ScoreAll(sources)
	second := s.ScoreAll(sources)

	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestScorer_ClampsAdjustedScore(t *testing.T) {
	s := NewScorer(func(o *Options) {
		o.TypeScores = map[core.SourceType]float64{core.SourcePubMed: 0.99}
		o.DomainAdjustments = []DomainAdjustment{{Suffix: ".gov", Delta: 0.5}}
	})

	assert.Equal(t, 1.0, s.Score(core.KnowledgeSource{URL: "https://nih.gov", SourceType: core.SourcePubMed}))
}

func TestClass(t *testing.T) {
	assert.Equal(t, "high", Class(0.9))
	assert.Equal(t, "medium", Class(0.7))
	assert.Equal(t, "low", Class(0.69))
}
