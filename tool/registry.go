package tool

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/while-basic/celaya-parachain-sub001/logging"
)

// Declaration describes a tool for function calling.
type Declaration struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Registry maps operations to their handlers.
type Registry struct {
	mu     sync.RWMutex
	tools  map[Operation]Tool
	logger logging.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(logger logging.Logger) *Registry {
	return &Registry{tools: map[Operation]Tool{}, logger: logging.OrNoOp(logger)}
}

// Register adds t. Unknown operations and duplicates are rejected.
func (r *Registry) Register(t Tool) error {
	op := t.Operation()
	if !op.Valid() {
		return NewToolError(string(op), "cannot register unknown operation", CodeUnknownOperation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.tools[op]; dup {
		return NewToolError(string(op), "operation already registered", CodeValidation)
	}

	r.tools[op] = t

	return nil
}

// Lookup returns the tool registered for op.
func (r *Registry) Lookup(op Operation) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[op]

	return t, ok
}

// Dispatch runs the tool registered for op.
func (r *Registry) Dispatch(ctx context.Context, op Operation, args map[string]any) (any, error) {
	t, ok := r.Lookup(op)
	if !ok {
		r.logger.Warn("tool.call.unknown", "tool", string(op))
		return nil, NewToolError(string(op), "no handler for operation", CodeUnknownOperation)
	}

	start := time.Now()

	r.logger.Debug("tool.call.start", "tool", string(op))

	result, err := t.Call(ctx, args)
	if err != nil {
		r.logger.Error("tool.call.error", "tool", string(op), "error", err.Error())
		return nil, err
	}

	r.logger.Info("tool.call.success", "tool", string(op), "duration_ms", time.Since(start).Milliseconds())

	return result, nil
}

// Declarations lists registered tools sorted by name.
func (r *Registry) Declarations() []Declaration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Declaration, 0, len(r.tools))
	for op, t := range r.tools {
		out = append(out, Declaration{Name: string(op), Description: t.Description(), Parameters: t.Parameters()})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}
