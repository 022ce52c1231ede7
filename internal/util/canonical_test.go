package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalJSON_SortsKeys(t *testing.T) {
	type body struct {
		Zeta  string  `json:"zeta"`
		Alpha float64 `json:"alpha"`
		HTML  string  `json:"html"`
	}

	got, err := CanonicalJSON(body{Zeta: "z", Alpha: 0.1, HTML: "<b>"})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":0.1,"html":"<b>","zeta":"z"}`, string(got))
}

func TestCanonicalJSON_MapOrderIndependent(t *testing.T) {
	a, err := CanonicalJSON(map[string]int{"b": 2, "a": 1, "c": 3})
	require.NoError(t, err)

	b, err := CanonicalJSON(map[string]int{"c": 3, "a": 1, "b": 2})
	require.NoError(t, err)

	assert.Equal(t, a, b)
}
