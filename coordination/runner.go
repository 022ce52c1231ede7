// Package coordination runs one task across a set of required agents, either
// one after another or concurrently, and collects a per-agent outcome.
//
// A failing agent never aborts the run. Sequential runs keep going after a
// failure and record the caller's order; parallel runs join every agent and
// record the order in which they finished.
package coordination

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/while-basic/celaya-parachain-sub001/core"
	"github.com/while-basic/celaya-parachain-sub001/ledger"
	"github.com/while-basic/celaya-parachain-sub001/logging"
)

// RecordKind labels coordination results in the ledger.
const RecordKind = "coordination"

// Options configures a Runner.
type Options struct {
	// AgentTimeout bounds each agent call. Zero disables the bound.
	AgentTimeout time.Duration
	// ParallelLimit caps concurrently running agents. Zero means no cap.
	ParallelLimit int
	Recorder      *ledger.Recorder
	RecordAgent   string
	Logger        logging.Logger
	Now           func() time.Time
}

// Runner coordinates agents resolved through a Directory.
type Runner struct {
	dir  *Directory
	opts Options
}

// NewRunner creates a Runner.
func NewRunner(dir *Directory, optFns ...func(o *Options)) *Runner {
	opts := Options{
		AgentTimeout: 30 * time.Second,
		RecordAgent:  "core",
		Logger:       logging.NoOpLogger{},
		Now:          time.Now,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if dir == nil {
		dir = NewDirectory()
	}

	return &Runner{dir: dir, opts: opts}
}

// Directory returns the agent directory used by the runner.
func (r *Runner) Directory() *Directory { return r.dir }

// Coordinate runs taskDescription on every required agent. Per-agent failures
// are reported in the result's outcomes, not as an error. An empty or
// duplicated required set and an unknown coordination type are rejected.
func (r *Runner) Coordinate(ctx context.Context, taskDescription string, required []string, typ core.CoordinationType) (*core.CoordinationResult, error) {
	const op = "coordination.coordinate"

	if len(required) == 0 {
		return nil, core.Errorf(op, core.KindInvalidInput, "at least one required agent is needed")
	}

	seen := make(map[string]struct{}, len(required))
	for _, id := range required {
		if id == "" {
			return nil, core.Errorf(op, core.KindInvalidInput, "empty agent id")
		}

		if _, dup := seen[id]; dup {
			return nil, core.Errorf(op, core.KindInvalidInput, "agent %q listed twice", id)
		}

		seen[id] = struct{}{}
	}

	res := &core.CoordinationResult{
		CoordinationID:   core.NewID(),
		TaskDescription:  taskDescription,
		CoordinationType: typ,
		RequiredAgents:   append([]string(nil), required...),
		Outcomes:         make([]core.AgentOutcome, len(required)),
		StartedAt:        r.opts.Now().UTC(),
	}

	switch typ {
	case core.CoordinateSequential:
		res.OrderKind = core.OrderInsertion
		r.runSequential(ctx, res)
	case core.CoordinateParallel:
		res.OrderKind = core.OrderCompletion
		r.runParallel(ctx, res)
	default:
		return nil, core.Errorf(op, core.KindInvalidInput, "unknown coordination type %q", typ)
	}

	succeeded := 0
	for _, o := range res.Outcomes {
		if o.Success {
			succeeded++
		}
	}

	res.SuccessRate = float64(succeeded) / float64(len(required))
	res.CompletedAt = r.opts.Now().UTC()

	switch succeeded {
	case len(required):
		res.Status = core.CoordinationCompleted
	case 0:
		res.Status = core.CoordinationFailed
	default:
		res.Status = core.CoordinationPartialFailure
	}

	if r.opts.Recorder != nil {
		if _, err := r.opts.Recorder.Emit(ctx, r.opts.RecordAgent, RecordKind, res); err != nil {
			return nil, core.E(op, core.KindInternal, err)
		}
	}

	r.opts.Logger.Info("coordination.completed",
		"coordination_id", res.CoordinationID,
		"type", string(typ),
		"agents", len(required),
		"success_rate", res.SuccessRate,
		"status", string(res.Status),
	)

	return res, nil
}

func (r *Runner) runSequential(ctx context.Context, res *core.CoordinationResult) {
	for i, id := range res.RequiredAgents {
		res.Outcomes[i] = r.invoke(ctx, res, id)
		res.ExecutionOrder = append(res.ExecutionOrder, id)
	}
}

func (r *Runner) runParallel(ctx context.Context, res *core.CoordinationResult) {
	var (
		g  errgroup.Group
		mu sync.Mutex
	)

	if r.opts.ParallelLimit > 0 {
		g.SetLimit(r.opts.ParallelLimit)
	}

	res.ExecutionOrder = make([]string, 0, len(res.RequiredAgents))

	for i, id := range res.RequiredAgents {
		g.Go(func() error {
			outcome := r.invoke(ctx, res, id)

			mu.Lock()
			res.Outcomes[i] = outcome
			res.ExecutionOrder = append(res.ExecutionOrder, id)
			mu.Unlock()

			return nil
		})
	}

	_ = g.Wait()
}

// invoke runs one agent under the per-agent deadline and converts any failure,
// including a panic, into an item error.
func (r *Runner) invoke(ctx context.Context, res *core.CoordinationResult, id string) (outcome core.AgentOutcome) {
	outcome.AgentID = id
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			outcome.Success = false
			outcome.Output = nil
			outcome.Error = &core.ItemError{Kind: core.KindInternal, Message: fmt.Sprintf("agent %s panicked: %v", id, p)}

			if sl, ok := r.opts.Logger.(logging.StackLogger); ok {
				sl.ErrorWithStack(outcome.Error, "coordination.agent.panic", "agent_id", id)
			}
		}

		outcome.Duration = time.Since(start)

		if outcome.Error != nil {
			r.opts.Logger.Warn("coordination.agent.failed", "agent_id", id, "kind", outcome.Error.Kind.String(), "error", outcome.Error.Message)
		}
	}()

	agent, ok := r.dir.Lookup(id)
	if !ok {
		outcome.Error = &core.ItemError{Kind: core.KindNotFound, Message: fmt.Sprintf("agent %q is not available", id)}
		return outcome
	}

	actx := ctx
	if r.opts.AgentTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, r.opts.AgentTimeout)

		defer cancel()
	}

	out, err := agent.Run(actx, Task{CoordinationID: res.CoordinationID, Description: res.TaskDescription, AgentID: id})
	if err == nil && actx.Err() != nil {
		err = actx.Err()
	}

	if err != nil {
		outcome.Error = itemError(id, err)
		return outcome
	}

	outcome.Success = true
	outcome.Output = out

	return outcome
}

func itemError(id string, err error) *core.ItemError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &core.ItemError{Kind: core.KindTimeout, Message: fmt.Sprintf("agent %s timed out: %v", id, err)}
	}

	return core.NewItemError(err)
}
