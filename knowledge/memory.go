package knowledge

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/while-basic/celaya-parachain-sub001/analysis"
	"github.com/while-basic/celaya-parachain-sub001/core"
)

// Document is a stored knowledge item.
type Document struct {
	URL     string
	Title   string
	Content string
}

// Options configures a MemorySearcher.
type Options struct {
	// Limit caps the number of sources returned per provider. Zero means no cap.
	Limit int
	// MinOverlap is the share of topic keywords a document must contain.
	MinOverlap float64
	Now        func() time.Time
}

// MemorySearcher keeps documents per provider in insertion order.
//
// Concurrency: protected by RWMutex. Matching is a linear keyword scan.
type MemorySearcher struct {
	opts Options

	mu   sync.RWMutex
	docs map[string][]Document // provider -> documents
	seq  []string              // provider registration order
}

// NewMemorySearcher creates an empty searcher.
func NewMemorySearcher(optFns ...func(o *Options)) *MemorySearcher {
	opts := Options{
		Limit:      5,
		MinOverlap: 0.5,
		Now:        time.Now,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &MemorySearcher{opts: opts, docs: map[string][]Document{}}
}

// Add stores docs under provider. Provider names are case-insensitive.
func (m *MemorySearcher) Add(provider string, docs ...Document) {
	provider = strings.ToLower(strings.TrimSpace(provider))

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[provider]; !ok {
		m.seq = append(m.seq, provider)
	}

	m.docs[provider] = append(m.docs[provider], docs...)
}

// Search implements core.Searcher. An empty sources list searches every
// provider. Providers outside the fixed source types are reported as
// core.SourceOther.
func (m *MemorySearcher) Search(ctx context.Context, topic string, sources []string) ([]core.KnowledgeSource, error) {
	keywords := analysis.ExtractKeywords(topic)
	if len(keywords) == 0 {
		return nil, core.Errorf("knowledge.search", core.KindInvalidInput, "topic %q has no searchable keywords", topic)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	providers := m.seq
	if len(sources) > 0 {
		providers = make([]string, 0, len(sources))
		for _, s := range sources {
			providers = append(providers, strings.ToLower(strings.TrimSpace(s)))
		}
	}

	now := m.opts.Now().UTC()

	var out []core.KnowledgeSource

	for _, p := range providers {
		if err := ctx.Err(); err != nil {
			return nil, core.E("knowledge.search", core.KindTimeout, err)
		}

		found := 0

		for _, d := range m.docs[p] {
			if m.opts.Limit > 0 && found >= m.opts.Limit {
				break
			}

			if analysis.KeywordOverlap(keywords, d.Title+" "+d.Content) < m.opts.MinOverlap {
				continue
			}

			out = append(out, core.KnowledgeSource{
				URL:         d.URL,
				Title:       d.Title,
				SourceType:  core.ParseSourceType(p),
				RetrievedAt: now,
			})
			found++
		}
	}

	return out, nil
}
