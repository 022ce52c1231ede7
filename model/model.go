package model

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Request is a single-turn completion request.
type Request struct {
	Instructions string `json:"instructions,omitempty"` // system prompt
	Prompt       string `json:"prompt"`
}

// Info contains metadata about a completer implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "gemini", "mock"
}

// Completer returns free text for a prompt.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)

	// Info returns information about the completer implementation.
	Info() Info
}

// ErrEmptyCompletion is returned when a provider answers without text.
var ErrEmptyCompletion = errors.New("model: empty completion")

// MockCompleter is a deterministic in-memory Completer for tests and examples.
type MockCompleter struct {
	mu        sync.Mutex
	info      Info
	responses map[string]string
	err       error
	delay     time.Duration
	calls     int
}

// NewMockCompleter constructs a MockCompleter.
func NewMockCompleter(name string) *MockCompleter {
	return &MockCompleter{
		info:      Info{Name: name, Provider: "mock"},
		responses: map[string]string{},
	}
}

// AddResponse registers a canned completion for a prompt.
func (m *MockCompleter) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// FailWith makes every call return err.
func (m *MockCompleter) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Delay makes every call wait d or until the context ends.
func (m *MockCompleter) Delay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Calls returns how many times Complete was invoked.
func (m *MockCompleter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Complete implements Completer.
func (m *MockCompleter) Complete(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	m.calls++
	delay, err := m.delay, m.err
	resp, ok := m.responses[req.Prompt]
	m.mu.Unlock()

	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}
	}

	if err != nil {
		return "", err
	}

	if !ok {
		resp = fmt.Sprintf("Mock response to: %s", req.Prompt)
	}

	return resp, nil
}

// Info implements Completer.
func (m *MockCompleter) Info() Info { return m.info }
