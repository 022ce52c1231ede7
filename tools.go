package celaya

import (
	"context"
	"time"

	"github.com/while-basic/celaya-parachain-sub001/core"
	"github.com/while-basic/celaya-parachain-sub001/tool"
)

type sourceArgs struct {
	URL        string `json:"url"`
	Title      string `json:"title,omitempty"`
	SourceType string `json:"source_type,omitempty"`
}

type validateArgs struct {
	AgentID string       `json:"agent_id,omitempty" description:"Agent that produced the insight"`
	Topic   string       `json:"topic" description:"Insight topic"`
	Summary string       `json:"summary" description:"Insight text to fact-check"`
	Sources []sourceArgs `json:"sources,omitempty" description:"Cited knowledge sources"`
}

type consensusArgs struct {
	Topic  string                     `json:"topic"`
	Inputs map[string]core.AgentInput `json:"agent_inputs" description:"Agent inputs keyed by agent id"`
	Method string                     `json:"method,omitempty" description:"Consensus method label"`
}

type synthesizeArgs struct {
	Insights []core.Insight `json:"insights"`
	Method   string         `json:"synthesis_method,omitempty" enum:"weighted_average|simple_average"`
}

type coordinateArgs struct {
	Task     string   `json:"task_description"`
	Required []string `json:"required_agents"`
	Type     string   `json:"coordination_type" enum:"sequential|parallel"`
}

type openVoteArgs struct {
	Topic          string   `json:"topic"`
	Proposal       string   `json:"proposal"`
	Required       []string `json:"required_agents"`
	TimeoutMinutes float64  `json:"timeout_minutes,omitempty" minimum:"0" description:"Voting window, policy default when omitted"`
}

type castVoteArgs struct {
	SessionID string `json:"session_id"`
	AgentID   string `json:"agent_id"`
	Vote      bool   `json:"vote"`
	Reasoning string `json:"reasoning,omitempty"`
}

type voteResultArgs struct {
	SessionID string `json:"session_id"`
}

type delegateArgs struct {
	DelegatorID     string   `json:"delegator_id,omitempty"`
	Target          string   `json:"target_agent"`
	Privileges      []string `json:"privileges"`
	DurationMinutes float64  `json:"duration_minutes" minimum:"0"`
}

type registerArgs struct {
	AgentID      string   `json:"agent_id"`
	Role         string   `json:"role,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
}

func minutes(m float64) time.Duration { return time.Duration(m * float64(time.Minute)) }

func (o *Orchestrator) registerTools() error {
	tools := []tool.Tool{
		tool.Typed(tool.OpValidateInsight, "Fact-check, score and sign an agent insight",
			func(ctx context.Context, a validateArgs) (any, error) {
				in := core.Insight{AgentID: a.AgentID, Topic: a.Topic, Summary: a.Summary}
				for _, s := range a.Sources {
					in.Sources = append(in.Sources, core.KnowledgeSource{
						URL:        s.URL,
						Title:      s.Title,
						SourceType: core.ParseSourceType(s.SourceType),
					})
				}

				return o.ValidateInsight(ctx, in)
			}),
		tool.Typed(tool.OpManageConsensus, "Combine agent inputs into a consensus score",
			func(ctx context.Context, a consensusArgs) (any, error) {
				return o.ManageConsensus(ctx, a.Topic, a.Inputs, a.Method)
			}),
		tool.Typed(tool.OpSynthesizeInsights, "Merge several insights into one",
			func(ctx context.Context, a synthesizeArgs) (any, error) {
				return o.SynthesizeInsights(ctx, a.Insights, a.Method)
			}),
		tool.Typed(tool.OpCoordinateAgents, "Run a task across the required agents",
			func(ctx context.Context, a coordinateArgs) (any, error) {
				return o.CoordinateAgents(ctx, a.Task, a.Required, core.CoordinationType(a.Type))
			}),
		tool.Typed(tool.OpOpenVote, "Open a quorum vote",
			func(ctx context.Context, a openVoteArgs) (any, error) {
				return o.OpenVote(ctx, a.Topic, a.Proposal, a.Required, minutes(a.TimeoutMinutes))
			}),
		tool.Typed(tool.OpCastVote, "Cast a vote in an open session",
			func(ctx context.Context, a castVoteArgs) (any, error) {
				return o.CastVote(ctx, a.SessionID, a.AgentID, a.Vote, a.Reasoning)
			}),
		tool.Typed(tool.OpVoteResult, "Tally a vote session",
			func(ctx context.Context, a voteResultArgs) (any, error) {
				return o.VoteResult(ctx, a.SessionID)
			}),
		tool.Typed(tool.OpDelegateAuthority, "Grant time-bounded privileges to a registered agent",
			func(ctx context.Context, a delegateArgs) (any, error) {
				return o.DelegateAuthority(ctx, a.DelegatorID, a.Target, a.Privileges, minutes(a.DurationMinutes))
			}),
		tool.Typed(tool.OpRegisterAgent, "Add an agent to the registry",
			func(_ context.Context, a registerArgs) (any, error) {
				return o.RegisterAgent(a.AgentID, a.Role, a.Capabilities)
			}),
	}

	for _, t := range tools {
		if err := o.tools.Register(t); err != nil {
			return err
		}
	}

	return nil
}

// Dispatch runs op with JSON-shaped arguments. Failures are *tool.ToolError
// values that keep the underlying error kind.
func (o *Orchestrator) Dispatch(ctx context.Context, op tool.Operation, args map[string]any) (any, error) {
	return o.tools.Dispatch(ctx, op, args)
}

// Declarations describes every dispatchable operation.
func (o *Orchestrator) Declarations() []tool.Declaration {
	return o.tools.Declarations()
}
