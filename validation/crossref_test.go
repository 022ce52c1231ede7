package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrossReferenceSources(t *testing.T) {
	xr := CrossReferenceSources(map[string]float64{
		"https://a.gov":  0.95,
		"https://b.org":  0.72,
		"https://c.blog": 0.40,
	})

	assert.Equal(t, "high", xr.Classes["https://a.gov"])
	assert.Equal(t, "medium", xr.Classes["https://b.org"])
	assert.Equal(t, "low", xr.Classes["https://c.blog"])
	assert.Equal(t, []string{"https://a.gov vs https://c.blog", "https://b.org vs https://c.blog"}, xr.Conflicts)
	assert.InDelta(t, 0.45, xr.ConsensusStrength, 1e-9)
}

func TestCrossReferenceSources_Empty(t *testing.T) {
	xr := CrossReferenceSources(nil)
	assert.Equal(t, 1.0, xr.ConsensusStrength)
	assert.Empty(t, xr.Conflicts)
}
