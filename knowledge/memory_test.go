package knowledge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/while-basic/celaya-parachain-sub001/core"
)

func seeded() *MemorySearcher {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemorySearcher(func(o *Options) { o.Now = func() time.Time { return now } })

	m.Add("PubMed", Document{URL: "https://pubmed.ncbi.nlm.nih.gov/1", Title: "Coffee consumption and cardiovascular risk"})
	m.Add("wikipedia", Document{URL: "https://en.wikipedia.org/wiki/Coffee", Title: "Coffee", Content: "Coffee consumption worldwide"})
	m.Add("blogs", Document{URL: "https://coffee.blogspot.com/x", Title: "Coffee consumption myths"})
	m.Add("news", Document{URL: "https://apnews.com/tea", Title: "Tea prices rise"})

	return m
}

func TestMemorySearcher_Search(t *testing.T) {
	m := seeded()

	got, err := m.Search(context.Background(), "coffee consumption", nil)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, core.SourcePubMed, got[0].SourceType)
	assert.Equal(t, core.SourceWikipedia, got[1].SourceType)
	assert.Equal(t, core.SourceOther, got[2].SourceType)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), got[0].RetrievedAt)
}

func TestMemorySearcher_FiltersProviders(t *testing.T) {
	m := seeded()

	got, err := m.Search(context.Background(), "coffee consumption", []string{"pubmed", "unknown"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/1", got[0].URL)
}

func TestMemorySearcher_Limit(t *testing.T) {
	m := NewMemorySearcher(func(o *Options) { o.Limit = 1 })
	m.Add("news", Document{Title: "Solar output record"}, Document{Title: "Solar output falls"})

	got, err := m.Search(context.Background(), "solar output", nil)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMemorySearcher_Errors(t *testing.T) {
	m := seeded()

	_, err := m.Search(context.Background(), "of the", nil)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = m.Search(ctx, "coffee", nil)
	assert.ErrorIs(t, err, core.ErrTimeout)
}
