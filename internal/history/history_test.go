package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_EvictsLeastRecentlyUsed(t *testing.T) {
	s := New[int](2)
	s.Add("a", 1)
	s.Add("b", 2)

	_, _ = s.Get("a")
	s.Add("c", 3)

	_, ok := s.Get("b")
	assert.False(t, ok)

	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, s.Len())
}

func TestStore_DefaultSize(t *testing.T) {
	s := New[string](0)
	s.Add("x", "y")

	v, ok := s.Get("x")
	assert.True(t, ok)
	assert.Equal(t, "y", v)
}
