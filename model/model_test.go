package model

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockCompleter_CannedAndDefault(t *testing.T) {
	m := NewMockCompleter("mock-1")
	m.AddResponse("hi", "hello")

	out, err := m.Complete(context.Background(), Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	out, err = m.Complete(context.Background(), Request{Prompt: "other"})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: other", out)
	assert.Equal(t, 2, m.Calls())
	assert.Equal(t, "mock", m.Info().Provider)
}

func TestMockCompleter_FailureAndTimeout(t *testing.T) {
	m := NewMockCompleter("mock")
	m.FailWith(errors.New("quota"))

	_, err := m.Complete(context.Background(), Request{Prompt: "x"})
	assert.EqualError(t, err, "quota")

	slow := NewMockCompleter("slow")
	slow.Delay(time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = slow.Complete(ctx, Request{Prompt: "x"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
