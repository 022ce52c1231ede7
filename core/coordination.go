package core

import "time"

// CoordinationType selects how required agents are invoked.
type CoordinationType string

const (
	CoordinateSequential CoordinationType = "sequential"
	CoordinateParallel   CoordinationType = "parallel"
)

// OrderKind tells how ExecutionOrder was produced.
type OrderKind string

const (
	// OrderInsertion is the caller supplied order (sequential runs).
	OrderInsertion OrderKind = "insertion"
	// OrderCompletion is the order agents finished in (parallel runs).
	OrderCompletion OrderKind = "completion"
)

// CoordinationStatus is the aggregate outcome of a run.
type CoordinationStatus string

const (
	CoordinationCompleted      CoordinationStatus = "completed"
	CoordinationPartialFailure CoordinationStatus = "partial_failure"
	CoordinationFailed         CoordinationStatus = "failed"
)

// AgentOutcome records one agent's part in a coordination run.
type AgentOutcome struct {
	AgentID  string        `json:"agent_id"`
	Success  bool          `json:"success"`
	Output   any           `json:"output,omitempty"`
	Error    *ItemError    `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// CoordinationResult collects per-agent outcomes. Outcomes follow RequiredAgents
// order; ExecutionOrder follows OrderKind.
type CoordinationResult struct {
	CoordinationID   string             `json:"coordination_id"`
	TaskDescription  string             `json:"task_description"`
	CoordinationType CoordinationType   `json:"coordination_type"`
	RequiredAgents   []string           `json:"required_agents"`
	Outcomes         []AgentOutcome     `json:"outcomes"`
	ExecutionOrder   []string           `json:"execution_order"`
	OrderKind        OrderKind          `json:"order_kind"`
	SuccessRate      float64            `json:"success_rate"`
	Status           CoordinationStatus `json:"status"`
	StartedAt        time.Time          `json:"started_at"`
	CompletedAt      time.Time          `json:"completed_at"`
}

// Failed returns the outcomes that carry an error.
func (r *CoordinationResult) Failed() []AgentOutcome {
	var failed []AgentOutcome

	for _, o := range r.Outcomes {
		if !o.Success {
			failed = append(failed, o)
		}
	}

	return failed
}
