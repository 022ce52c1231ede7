package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimit(t *testing.T) {
	mock := NewMockCompleter("m")
	c := Limit(mock, 2)

	for i := 0; i < 2; i++ {
		_, err := c.Complete(context.Background(), Request{Prompt: "p"})
		require.NoError(t, err)
	}

	_, err := c.Complete(context.Background(), Request{Prompt: "p"})
	assert.ErrorIs(t, err, ErrCallLimit)
	assert.Equal(t, 2, mock.Calls())
	assert.Equal(t, 3, c.(*LimitedCompleter).Count())
	assert.Equal(t, "mock", c.Info().Provider)
}

func TestLimit_Unlimited(t *testing.T) {
	mock := NewMockCompleter("m")
	assert.Same(t, Completer(mock), Limit(mock, 0))
	assert.Nil(t, Limit(nil, 3))
}
