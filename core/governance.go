package core

import (
	"slices"
	"time"
)

// VoteStatus is the state of a vote session.
type VoteStatus string

const (
	VotePending  VoteStatus = "pending"
	VotePassed   VoteStatus = "passed"
	VoteFailed   VoteStatus = "failed"
	VoteTimedOut VoteStatus = "timed_out"
)

// Terminal reports whether s is a closed state.
func (s VoteStatus) Terminal() bool { return s != VotePending && s != "" }

// Ballot is a single required agent's vote.
type Ballot struct {
	Vote      bool      `json:"vote"`
	Reasoning string    `json:"reasoning,omitempty"`
	CastAt    time.Time `json:"cast_at"`
}

// VoteSession is mutable only by vote casting until it reaches a terminal status.
type VoteSession struct {
	SessionID      string            `json:"session_id"`
	Topic          string            `json:"topic"`
	Proposal       string            `json:"proposal"`
	RequiredAgents []string          `json:"required_agents"`
	Votes          map[string]Ballot `json:"votes"`
	Status         VoteStatus        `json:"status"`
	OpenedAt       time.Time         `json:"opened_at"`
	Timeout        time.Duration     `json:"timeout"`
	ClosedAt       time.Time         `json:"closed_at,omitzero"`
}

// Deadline returns the instant the session times out.
func (s *VoteSession) Deadline() time.Time { return s.OpenedAt.Add(s.Timeout) }

// Requires reports whether agentID belongs to the required set.
func (s *VoteSession) Requires(agentID string) bool {
	return slices.Contains(s.RequiredAgents, agentID)
}

// VoteResult is the tally of a session. Outcome is the majority verdict of the
// votes actually cast, also for timed out sessions.
type VoteResult struct {
	SessionID         string     `json:"session_id"`
	Topic             string     `json:"topic"`
	Status            VoteStatus `json:"status"`
	Outcome           VoteStatus `json:"outcome"`
	RequiredCount     int        `json:"required_count"`
	VotesCast         int        `json:"votes_cast"`
	VotesFor          int        `json:"votes_for"`
	VotesAgainst      int        `json:"votes_against"`
	ParticipationRate float64    `json:"participation_rate"`
	ConsensusRate     float64    `json:"consensus_rate"`
	QuorumReached     bool       `json:"quorum_reached"`
}

// Delegation is a time-bounded privilege grant. It is never partially updated.
type Delegation struct {
	DelegationID    string    `json:"delegation_id"`
	DelegatorID     string    `json:"delegator_id,omitempty"`
	DelegateAgentID string    `json:"delegate_agent_id"`
	Privileges      []string  `json:"privileges"`
	GrantedAt       time.Time `json:"granted_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// IsActive reports whether now is strictly before the expiry.
func (d Delegation) IsActive(now time.Time) bool { return now.Before(d.ExpiresAt) }

// Has reports whether the grant includes privilege.
func (d Delegation) Has(privilege string) bool { return slices.Contains(d.Privileges, privilege) }

// AgentStatus is the liveness state of a registered agent.
type AgentStatus string

const (
	AgentOnline  AgentStatus = "online"
	AgentOffline AgentStatus = "offline"
	AgentError   AgentStatus = "error"
)

// AgentRegistryEntry describes a roster member. TrustScore is a running
// counter adjusted by events, never recomputed.
type AgentRegistryEntry struct {
	AgentID      string      `json:"agent_id"`
	Role         string      `json:"role"`
	Capabilities []string    `json:"capabilities"`
	TrustScore   float64     `json:"trust_score"`
	Status       AgentStatus `json:"status"`
	RegisteredAt time.Time   `json:"registered_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
