// Package delegation records time-bounded privilege grants between agents.
//
// Grants are never renewed or merged: delegating again appends a fresh grant
// and the earlier one simply runs out.
package delegation

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/while-basic/celaya-parachain-sub001/core"
	"github.com/while-basic/celaya-parachain-sub001/ledger"
	"github.com/while-basic/celaya-parachain-sub001/logging"
)

// RecordKind labels delegations in the ledger.
const RecordKind = "delegation"

// Options configures a Ledger.
type Options struct {
	Recorder *ledger.Recorder
	Logger   logging.Logger
	Now      func() time.Time
}

// Ledger keeps every grant in the order it was made. It is safe for concurrent use.
type Ledger struct {
	opts Options

	mu     sync.RWMutex
	grants []core.Delegation
	byID   map[string]int
}

// New creates an empty Ledger.
func New(optFns ...func(o *Options)) *Ledger {
	opts := Options{
		Logger: logging.NoOpLogger{},
		Now:    time.Now,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Ledger{opts: opts, byID: map[string]int{}}
}

// Delegate grants privileges from delegator to target for duration.
func (l *Ledger) Delegate(ctx context.Context, delegator, target string, privileges []string, duration time.Duration) (core.Delegation, error) {
	const op = "delegation.delegate"

	if strings.TrimSpace(target) == "" {
		return core.Delegation{}, core.Errorf(op, core.KindInvalidInput, "target agent is required")
	}

	if duration <= 0 {
		return core.Delegation{}, core.Errorf(op, core.KindInvalidInput, "duration must be positive, got %s", duration)
	}

	privs := normalize(privileges)
	if len(privs) == 0 {
		return core.Delegation{}, core.Errorf(op, core.KindInvalidInput, "at least one privilege is required")
	}

	now := l.opts.Now().UTC()
	d := core.Delegation{
		DelegationID:    core.NewID(),
		DelegatorID:     delegator,
		DelegateAgentID: target,
		Privileges:      privs,
		GrantedAt:       now,
		ExpiresAt:       now.Add(duration),
	}

	if l.opts.Recorder != nil {
		agent := delegator
		if agent == "" {
			agent = "lyra"
		}

		if _, err := l.opts.Recorder.Emit(ctx, agent, RecordKind, d); err != nil {
			return core.Delegation{}, core.E(op, core.KindInternal, err)
		}
	}

	l.mu.Lock()
	l.byID[d.DelegationID] = len(l.grants)
	l.grants = append(l.grants, d)
	l.mu.Unlock()

	l.opts.Logger.Info("delegation.granted",
		"delegation_id", d.DelegationID,
		"delegator", delegator,
		"delegate", target,
		"privileges", privs,
		"expires_at", d.ExpiresAt,
	)

	return clone(d), nil
}

// Get returns a grant by id, active or not.
func (l *Ledger) Get(id string) (core.Delegation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i, ok := l.byID[id]
	if !ok {
		return core.Delegation{}, core.Errorf("delegation.get", core.KindNotFound, "delegation %q", id)
	}

	return clone(l.grants[i]), nil
}

// Active returns the grants held by agent that have not expired.
func (l *Ledger) Active(agent string) []core.Delegation {
	now := l.opts.Now()

	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []core.Delegation

	for _, d := range l.grants {
		if d.DelegateAgentID == agent && d.IsActive(now) {
			out = append(out, clone(d))
		}
	}

	return out
}

// HasPrivilege reports whether agent currently holds privilege through any active grant.
func (l *Ledger) HasPrivilege(agent, privilege string) bool {
	for _, d := range l.Active(agent) {
		if d.Has(privilege) {
			return true
		}
	}

	return false
}

// History returns every grant made to agent, oldest first.
func (l *Ledger) History(agent string) []core.Delegation {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []core.Delegation

	for _, d := range l.grants {
		if d.DelegateAgentID == agent {
			out = append(out, clone(d))
		}
	}

	return out
}

// Prune drops expired grants and returns how many were removed.
func (l *Ledger) Prune() int {
	now := l.opts.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.grants[:0]
	for _, d := range l.grants {
		if d.IsActive(now) {
			kept = append(kept, d)
		}
	}

	removed := len(l.grants) - len(kept)
	clear(l.grants[len(kept):])
	l.grants = kept

	l.byID = make(map[string]int, len(kept))
	for i, d := range kept {
		l.byID[d.DelegationID] = i
	}

	return removed
}

func normalize(privileges []string) []string {
	out := make([]string, 0, len(privileges))

	for _, p := range privileges {
		p = strings.TrimSpace(p)
		if p != "" && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}

	return out
}

func clone(d core.Delegation) core.Delegation {
	d.Privileges = slices.Clone(d.Privileges)
	return d
}
