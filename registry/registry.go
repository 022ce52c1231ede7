// Package registry keeps the roster of agents taking part in the network and
// their running trust scores.
//
// Trust is a counter moved by events (coordination outcomes, vote
// participation, operator adjustments), never recomputed from history. Updates
// for one agent are serialized by that agent's own lock, so concurrent
// adjustments from independent call paths never lose an increment.
package registry

import (
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/while-basic/celaya-parachain-sub001/core"
	"github.com/while-basic/celaya-parachain-sub001/logging"
)

// Defaults.
const (
	DefaultCapacity = 13
	DefaultTrust    = 0.8
)

// Health levels reported by Registry.Health.
const (
	HealthHealthy  = "healthy"
	HealthDegraded = "degraded"
	HealthCritical = "critical"
)

// Options configures a Registry.
type Options struct {
	Capacity     int
	DefaultTrust float64
	Logger       logging.Logger
	Now          func() time.Time
}

type slot struct {
	mu    sync.Mutex
	entry core.AgentRegistryEntry
}

// Registry is the single owner of agent registry entries.
type Registry struct {
	opts Options

	mu    sync.RWMutex
	slots map[string]*slot
}

// New creates an empty Registry.
func New(optFns ...func(o *Options)) *Registry {
	opts := Options{
		Capacity:     DefaultCapacity,
		DefaultTrust: DefaultTrust,
		Logger:       logging.NoOpLogger{},
		Now:          time.Now,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Registry{opts: opts, slots: map[string]*slot{}}
}

// Register adds an online agent with the default trust score.
func (r *Registry) Register(agentID, role string, capabilities []string) (core.AgentRegistryEntry, error) {
	const op = "registry.register"

	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return core.AgentRegistryEntry{}, core.Errorf(op, core.KindInvalidInput, "agent id is required")
	}

	now := r.opts.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.slots[agentID]; exists {
		return core.AgentRegistryEntry{}, core.Errorf(op, core.KindInvalidInput, "agent %q is already registered", agentID)
	}

	if r.opts.Capacity > 0 && len(r.slots) >= r.opts.Capacity {
		return core.AgentRegistryEntry{}, core.Errorf(op, core.KindInvalidInput, "registry is full (%d agents)", r.opts.Capacity)
	}

	s := &slot{entry: core.AgentRegistryEntry{
		AgentID:      agentID,
		Role:         role,
		Capabilities: slices.Clone(capabilities),
		TrustScore:   core.Clamp01(r.opts.DefaultTrust),
		Status:       core.AgentOnline,
		RegisteredAt: now,
		UpdatedAt:    now,
	}}
	r.slots[agentID] = s

	r.opts.Logger.Info("registry.agent.registered", "agent_id", agentID, "role", role)

	return copyEntry(s.entry), nil
}

// Get returns a copy of an entry.
func (r *Registry) Get(agentID string) (core.AgentRegistryEntry, error) {
	s, err := r.slot("registry.get", agentID)
	if err != nil {
		return core.AgentRegistryEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return copyEntry(s.entry), nil
}

// Has reports whether agentID is registered.
func (r *Registry) Has(agentID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.slots[agentID]

	return ok
}

// List returns every entry sorted by agent id.
func (r *Registry) List() []core.AgentRegistryEntry {
	r.mu.RLock()
	slots := make([]*slot, 0, len(r.slots))
	for _, s := range r.slots {
		slots = append(slots, s)
	}
	r.mu.RUnlock()

	out := make([]core.AgentRegistryEntry, 0, len(slots))
	for _, s := range slots {
		s.mu.Lock()
		out = append(out, copyEntry(s.entry))
		s.mu.Unlock()
	}

	sort.Slice(out, func(i, j int) bool { return out[i].AgentID < out[j].AgentID })

	return out
}

// SetStatus changes an agent's liveness state.
func (r *Registry) SetStatus(agentID string, status core.AgentStatus) (core.AgentRegistryEntry, error) {
	const op = "registry.set_status"

	switch status {
	case core.AgentOnline, core.AgentOffline, core.AgentError:
	default:
		return core.AgentRegistryEntry{}, core.Errorf(op, core.KindInvalidInput, "unknown agent status %q", status)
	}

	s, err := r.slot(op, agentID)
	if err != nil {
		return core.AgentRegistryEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entry.Status = status
	s.entry.UpdatedAt = r.opts.Now().UTC()

	return copyEntry(s.entry), nil
}

// AdjustTrust adds delta to the agent's trust score, clamped to [0, 1].
func (r *Registry) AdjustTrust(agentID string, delta float64, reason string) (core.AgentRegistryEntry, error) {
	s, err := r.slot("registry.adjust_trust", agentID)
	if err != nil {
		return core.AgentRegistryEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.entry.TrustScore
	s.entry.TrustScore = core.Clamp01(before + delta)
	s.entry.UpdatedAt = r.opts.Now().UTC()

	r.opts.Logger.Debug("registry.trust.adjusted",
		"agent_id", agentID,
		"delta", delta,
		"trust", s.entry.TrustScore,
		"reason", reason,
	)

	return copyEntry(s.entry), nil
}

// HealthReport summarizes roster liveness.
type HealthReport struct {
	Total       int     `json:"total"`
	Online      int     `json:"online"`
	OnlineShare float64 `json:"online_share"`
	MeanTrust   float64 `json:"mean_trust"`
	Level       string  `json:"level"`
}

// Health reports the share of online agents: healthy at 0.8 or more, degraded
// at 0.5 or more, critical below. An empty registry is critical.
func (r *Registry) Health() HealthReport {
	entries := r.List()
	rep := HealthReport{Total: len(entries), Level: HealthCritical}

	if len(entries) == 0 {
		return rep
	}

	trust := make([]float64, len(entries))

	for i, e := range entries {
		if e.Status == core.AgentOnline {
			rep.Online++
		}

		trust[i] = e.TrustScore
	}

	rep.OnlineShare = float64(rep.Online) / float64(rep.Total)
	rep.MeanTrust = core.Mean(trust)

	switch {
	case rep.OnlineShare >= 0.8:
		rep.Level = HealthHealthy
	case rep.OnlineShare >= 0.5:
		rep.Level = HealthDegraded
	}

	return rep
}

func (r *Registry) slot(op, agentID string) (*slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.slots[agentID]
	if !ok {
		return nil, core.Errorf(op, core.KindNotFound, "agent %q is not registered", agentID)
	}

	return s, nil
}

func copyEntry(e core.AgentRegistryEntry) core.AgentRegistryEntry {
	e.Capabilities = slices.Clone(e.Capabilities)
	return e
}
