package coordination

import (
	"context"
	"sort"
	"sync"

	"github.com/while-basic/celaya-parachain-sub001/core"
)

// Task is the unit of work handed to each required agent.
type Task struct {
	CoordinationID string `json:"coordination_id"`
	Description    string `json:"description"`
	AgentID        string `json:"agent_id"`
}

// Agent performs its share of a coordinated task. Run must honour ctx
// cancellation; the runner bounds each call with its own deadline.
type Agent interface {
	Name() string
	Run(ctx context.Context, task Task) (any, error)
}

// Func adapts a function to the Agent interface.
type Func struct {
	name string
	fn   func(ctx context.Context, task Task) (any, error)
}

// NewFunc creates an Agent named name backed by fn.
func NewFunc(name string, fn func(ctx context.Context, task Task) (any, error)) *Func {
	return &Func{name: name, fn: fn}
}

// Name implements Agent.
func (f *Func) Name() string { return f.name }

// Run implements Agent.
func (f *Func) Run(ctx context.Context, task Task) (any, error) { return f.fn(ctx, task) }

// Directory resolves agent ids to runnable agents. It is safe for concurrent use.
type Directory struct {
	mu     sync.RWMutex
	agents map[string]Agent
}

// NewDirectory creates a Directory holding agents under their names.
func NewDirectory(agents ...Agent) *Directory {
	d := &Directory{agents: make(map[string]Agent, len(agents))}
	for _, a := range agents {
		d.agents[a.Name()] = a
	}

	return d
}

// Add registers a, replacing any agent with the same name.
func (d *Directory) Add(a Agent) error {
	if a == nil || a.Name() == "" {
		return core.Errorf("coordination.directory.add", core.KindInvalidInput, "agent must have a name")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.agents[a.Name()] = a

	return nil
}

// Lookup returns the agent registered under id.
func (d *Directory) Lookup(id string) (Agent, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	a, ok := d.agents[id]

	return a, ok
}

// Names returns the sorted agent names.
func (d *Directory) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.agents))
	for n := range d.agents {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}
