// Package celaya is the entry point of the consensus and reliability engine.
//
// An Orchestrator wires the validation pipeline, the consensus engine, the
// insight synthesizer, the coordination runner, quorum votes, authority
// delegation and the agent registry behind one façade. Most applications:
//  1. Create an Orchestrator via New (optionally overriding the in-memory ledger,
//     signer, knowledge searcher, completion model or policy)
//  2. Register agents and add runnable agents for coordination
//  3. Call the typed operations, or Dispatch a tool.Operation with JSON arguments
//
// Every operation returns either a complete result or a single *core.Error
// whose Kind tells invalid input, not found, timeout, partial failure and
// internal failures apart.
package celaya

import (
	"context"
	"time"

	"github.com/while-basic/celaya-parachain-sub001/analysis"
	"github.com/while-basic/celaya-parachain-sub001/config"
	"github.com/while-basic/celaya-parachain-sub001/consensus"
	"github.com/while-basic/celaya-parachain-sub001/coordination"
	"github.com/while-basic/celaya-parachain-sub001/core"
	"github.com/while-basic/celaya-parachain-sub001/credibility"
	"github.com/while-basic/celaya-parachain-sub001/delegation"
	"github.com/while-basic/celaya-parachain-sub001/factcheck"
	"github.com/while-basic/celaya-parachain-sub001/ledger"
	"github.com/while-basic/celaya-parachain-sub001/logging"
	"github.com/while-basic/celaya-parachain-sub001/metrics"
	"github.com/while-basic/celaya-parachain-sub001/model"
	"github.com/while-basic/celaya-parachain-sub001/registry"
	"github.com/while-basic/celaya-parachain-sub001/signing"
	"github.com/while-basic/celaya-parachain-sub001/synthesis"
	"github.com/while-basic/celaya-parachain-sub001/tool"
	"github.com/while-basic/celaya-parachain-sub001/validation"
	"github.com/while-basic/celaya-parachain-sub001/vote"
)

// Options configures the Orchestrator.
type Options struct {
	// Policy holds every tunable coefficient (defaults to config.Default()).
	Policy *config.Policy

	// Collaborators (in-memory defaults when nil)
	Signer       core.Signer
	Ledger       core.Ledger
	ContentStore core.ContentAddresser
	Searcher     core.Searcher

	// Completer, when set, writes a narrative for every synthesis.
	Completer model.Completer
	// MaxModelCalls caps the completions made over the engine's lifetime.
	// Syntheses past the cap are degraded. Zero means unlimited.
	MaxModelCalls int

	// Agents are the runnable agents available to CoordinateAgents.
	Agents []coordination.Agent

	// SelfID is the agent name core records are written under.
	SelfID string
	// GovernanceID is the agent name vote and delegation records are written under.
	GovernanceID string

	// Metrics (nil records nothing)
	Metrics *metrics.Metrics

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	Now func() time.Time
}

// Orchestrator is the façade aggregating every engine component.
type Orchestrator struct {
	opts Options

	policy      *config.Policy
	ledger      core.Ledger
	recorder    *ledger.Recorder
	validator   *validation.Aggregator
	consensus   *consensus.Engine
	synthesizer *synthesis.Synthesizer
	runner      *coordination.Runner
	votes       *vote.Controller
	delegations *delegation.Ledger
	registry    *registry.Registry
	tools       *tool.Registry
	metrics     *metrics.Metrics
	logger      logging.Logger
}

// New creates an Orchestrator. Any unset collaborator is replaced by an
// in-memory implementation; without a Signer a fresh ed25519 key is generated.
func New(optFns ...func(o *Options)) (*Orchestrator, error) {
	opts := Options{
		Policy:       config.Default(),
		SelfID:       "core",
		GovernanceID: "lyra",
		Logger:       logging.NoOpLogger{},
		Now:          time.Now,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Policy == nil {
		opts.Policy = config.Default()
	}

	if err := opts.Policy.Validate(); err != nil {
		return nil, err
	}

	if opts.Signer == nil {
		signer, err := signing.GenerateEd25519Signer()
		if err != nil {
			return nil, core.E("celaya.new", core.KindInternal, err)
		}

		opts.Signer = signer
	}

	if opts.Ledger == nil {
		opts.Ledger = ledger.NewMemoryLedger()
	}

	if opts.ContentStore == nil {
		opts.ContentStore = ledger.NewContentStore()
	}

	opts.Logger = logging.OrNoOp(opts.Logger)

	p := opts.Policy

	o := &Orchestrator{
		opts:    opts,
		policy:  p,
		ledger:  opts.Ledger,
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}

	o.recorder = ledger.NewRecorder(opts.Ledger, func(r *ledger.RecorderOptions) {
		r.Addresser = opts.ContentStore
		r.Backoff = p.RetryBackoff
		r.Logger = o.component("ledger")
		r.Now = opts.Now
	})

	o.validator = validation.NewAggregator(opts.Signer, func(v *validation.Options) {
		v.Checker = factcheck.NewChecker(func(f *factcheck.Options) { f.Now = opts.Now })
		v.Scorer = credibility.NewScorer(func(c *credibility.Options) {
			c.TypeScores = p.TypeScores()
			c.DomainAdjustments = p.Credibility.Domains
		})
		v.Bias = analysis.NewBiasAnalyzer(func(b *analysis.BiasOptions) {
			b.Weights = p.Bias.Weights
			b.Saturation = p.Bias.Saturation
		})
		v.Weights = p.Reliability.Weights
		v.StatusWeights = p.StatusWeights()
		v.Thresholds = p.Reliability.Thresholds
		v.NeutralReliability = p.Reliability.Neutral
		v.Recorder = o.recorder
		v.Backoff = p.RetryBackoff
		v.Logger = o.component("validation")
		v.Now = opts.Now
	})

	o.consensus = consensus.NewEngine(func(c *consensus.Options) {
		c.HistorySize = p.HistorySize
		c.Recorder = o.recorder
		c.RecordAgent = opts.SelfID
		c.Logger = o.component("consensus")
		c.Now = opts.Now
	})

	o.synthesizer = synthesis.New(func(s *synthesis.Options) {
		s.Completer = model.Limit(opts.Completer, opts.MaxModelCalls)
		s.NarrativeTimeout = p.NarrativeTimeout
		s.HistorySize = p.HistorySize
		s.Recorder = o.recorder
		s.RecordAgent = opts.SelfID
		s.Logger = o.component("synthesis")
		s.Now = opts.Now
	})

	o.runner = coordination.NewRunner(coordination.NewDirectory(opts.Agents...), func(c *coordination.Options) {
		c.AgentTimeout = p.Coordination.AgentTimeout
		c.ParallelLimit = p.Coordination.ParallelLimit
		c.Recorder = o.recorder
		c.RecordAgent = opts.SelfID
		c.Logger = o.component("coordination")
		c.Now = opts.Now
	})

	o.registry = registry.New(func(r *registry.Options) {
		r.Capacity = p.RegistryCapacity
		r.DefaultTrust = p.Trust.Initial
		r.Logger = o.component("registry")
		r.Now = opts.Now
	})

	o.votes = vote.New(func(v *vote.Options) {
		v.Quorum = p.Vote.Quorum
		v.Recorder = o.recorder
		v.RecordAgent = opts.GovernanceID
		v.OnClose = o.onVoteClosed
		v.Logger = o.component("vote")
		v.Now = opts.Now
	})

	o.delegations = delegation.New(func(d *delegation.Options) {
		d.Recorder = o.recorder
		d.Logger = o.component("delegation")
		d.Now = opts.Now
	})

	o.tools = tool.NewRegistry(o.component("tool"))
	if err := o.registerTools(); err != nil {
		return nil, err
	}

	return o, nil
}

// component scopes the logger to a component when it supports it.
func (o *Orchestrator) component(name string) logging.Logger {
	if el, ok := o.logger.(*logging.EngineLogger); ok {
		return el.WithComponent(name)
	}

	return o.logger
}

// track returns a func recording the latency and outcome of op.
func (o *Orchestrator) track(op string) func(err error) {
	start := time.Now()

	logDone := func(err error) {
		if err != nil {
			o.logger.Warn("operation.failed", "op", op, "kind", core.KindOf(err).String(), "error", err.Error())
		}
	}

	if ol, ok := o.logger.(logging.OperationLogger); ok {
		logDone = ol.StartTimer(op)
	}

	return func(err error) {
		o.metrics.Observe(op, start, err)
		logDone(err)
	}
}

// Policy returns the active policy.
func (o *Orchestrator) Policy() *config.Policy { return o.policy }

// Ledger returns the persistence collaborator records are written to.
func (o *Orchestrator) Ledger() core.Ledger { return o.ledger }

// GatherInsight builds an insight for topic with sources retrieved from providers.
func (o *Orchestrator) GatherInsight(ctx context.Context, agentID, topic, summary string, providers []string) (core.Insight, error) {
	done := o.track("knowledge.gather")

	if o.opts.Searcher == nil {
		err := core.Errorf("knowledge.gather", core.KindInternal, "no knowledge searcher configured")
		done(err)

		return core.Insight{}, err
	}

	sources, err := o.opts.Searcher.Search(ctx, topic, providers)
	done(err)

	if err != nil {
		return core.Insight{}, err
	}

	return core.Insight{AgentID: agentID, Topic: topic, Summary: summary, Sources: sources}, nil
}

// ValidateInsight fact-checks, scores, signs and records insight.
func (o *Orchestrator) ValidateInsight(ctx context.Context, insight core.Insight) (*core.ValidationReport, error) {
	done := o.track("validation.validate")

	report, err := o.validator.Validate(ctx, insight)
	done(err)

	if err != nil {
		return nil, err
	}

	o.metrics.Validation(report.ConsensusRecommendation)

	return report, nil
}

// CrossReference reports how far the sources of a validated insight agree.
func (o *Orchestrator) CrossReference(report *core.ValidationReport) validation.CrossReference {
	return validation.CrossReferenceSources(report.SourceCredibilityScores)
}

// ManageConsensus combines agent inputs keyed by agent id.
func (o *Orchestrator) ManageConsensus(ctx context.Context, topic string, inputs map[string]core.AgentInput, method string) (*core.ConsensusResult, error) {
	done := o.track("consensus.manage")

	res, err := o.consensus.Manage(ctx, topic, inputs, method)
	done(err)

	if err != nil {
		return nil, err
	}

	o.metrics.Consensus(res.ConsensusType)

	return res, nil
}

// GetConsensus returns a recent consensus result.
func (o *Orchestrator) GetConsensus(id string) (*core.ConsensusResult, error) {
	return o.consensus.Get(id)
}

// SynthesizeInsights merges insights into one payload.
func (o *Orchestrator) SynthesizeInsights(ctx context.Context, insights []core.Insight, method string) (*core.SynthesizedInsight, error) {
	done := o.track("synthesis.synthesize")

	res, err := o.synthesizer.Synthesize(ctx, insights, method)
	done(err)

	if err != nil {
		return nil, err
	}

	o.metrics.Synthesis(res.Degraded)

	return res, nil
}

// GetSynthesis returns a recent synthesis.
func (o *Orchestrator) GetSynthesis(id string) (*core.SynthesizedInsight, error) {
	return o.synthesizer.Get(id)
}

// AddAgent makes a runnable agent available to CoordinateAgents.
func (o *Orchestrator) AddAgent(a coordination.Agent) error {
	return o.runner.Directory().Add(a)
}

// CoordinateAgents runs a task across the required agents and applies the
// configured trust deltas to every registered participant.
func (o *Orchestrator) CoordinateAgents(ctx context.Context, taskDescription string, required []string, typ core.CoordinationType) (*core.CoordinationResult, error) {
	done := o.track("coordination.coordinate")

	res, err := o.runner.Coordinate(ctx, taskDescription, required, typ)
	done(err)

	if err != nil {
		return nil, err
	}

	o.metrics.Coordination(res)

	for _, out := range res.Outcomes {
		delta, reason := o.policy.Trust.CoordinationSuccess, "coordination.success"
		if !out.Success {
			delta, reason = o.policy.Trust.CoordinationFailure, "coordination.failure"
		}

		o.adjustIfRegistered(out.AgentID, delta, reason)
	}

	return res, nil
}

// OpenVote opens a quorum vote. A zero timeout uses the policy default.
func (o *Orchestrator) OpenVote(ctx context.Context, topic, proposal string, required []string, timeout time.Duration) (core.VoteSession, error) {
	if timeout == 0 {
		timeout = o.policy.Vote.DefaultTimeout
	}

	done := o.track("vote.open")

	s, err := o.votes.Open(ctx, topic, proposal, required, timeout)
	done(err)

	return s, err
}

// CastVote records a vote. Votes arriving after the timeout fail with
// vote.ErrLateVote.
func (o *Orchestrator) CastVote(ctx context.Context, sessionID, agentID string, approve bool, reasoning string) (core.VoteResult, error) {
	done := o.track("vote.cast")

	res, err := o.votes.Cast(ctx, sessionID, agentID, approve, reasoning)
	done(err)

	if err == vote.ErrLateVote {
		o.metrics.LateVote()
	}

	return res, err
}

// VoteResult returns the tally of a session, closing it if it timed out.
func (o *Orchestrator) VoteResult(ctx context.Context, sessionID string) (core.VoteResult, error) {
	return o.votes.Result(ctx, sessionID)
}

// WaitVote blocks until the session closes or ctx ends.
func (o *Orchestrator) WaitVote(ctx context.Context, sessionID string) (core.VoteResult, error) {
	return o.votes.Wait(ctx, sessionID)
}

// SweepVotes closes every expired session.
func (o *Orchestrator) SweepVotes(ctx context.Context) []core.VoteResult {
	return o.votes.Sweep(ctx)
}

func (o *Orchestrator) onVoteClosed(session core.VoteSession, res core.VoteResult) {
	o.metrics.VoteClosed(res.Status)

	for agentID := range session.Votes {
		o.adjustIfRegistered(agentID, o.policy.Trust.VoteParticipation, "vote.participation")
	}
}

// DelegateAuthority grants privileges to a registered agent for duration.
func (o *Orchestrator) DelegateAuthority(ctx context.Context, delegator, target string, privileges []string, duration time.Duration) (core.Delegation, error) {
	const op = "delegation.delegate"

	done := o.track(op)

	if !o.registry.Has(target) {
		err := core.Errorf(op, core.KindNotFound, "agent %q is not registered", target)
		done(err)

		return core.Delegation{}, err
	}

	d, err := o.delegations.Delegate(ctx, delegator, target, privileges, duration)
	done(err)

	if err != nil {
		return core.Delegation{}, err
	}

	o.metrics.Delegation()

	return d, nil
}

// ActiveDelegations returns the unexpired grants held by agentID.
func (o *Orchestrator) ActiveDelegations(agentID string) []core.Delegation {
	return o.delegations.Active(agentID)
}

// HasPrivilege reports whether agentID currently holds privilege.
func (o *Orchestrator) HasPrivilege(agentID, privilege string) bool {
	return o.delegations.HasPrivilege(agentID, privilege)
}

// RegisterAgent adds an agent to the registry.
func (o *Orchestrator) RegisterAgent(agentID, role string, capabilities []string) (core.AgentRegistryEntry, error) {
	done := o.track("registry.register")

	e, err := o.registry.Register(agentID, role, capabilities)
	done(err)

	if err == nil {
		o.metrics.Agents(len(o.registry.List()))
	}

	return e, err
}

// Agent returns a registry entry.
func (o *Orchestrator) Agent(agentID string) (core.AgentRegistryEntry, error) {
	return o.registry.Get(agentID)
}

// Agents lists the registry.
func (o *Orchestrator) Agents() []core.AgentRegistryEntry { return o.registry.List() }

// SetAgentStatus updates an agent's liveness state.
func (o *Orchestrator) SetAgentStatus(agentID string, status core.AgentStatus) (core.AgentRegistryEntry, error) {
	return o.registry.SetStatus(agentID, status)
}

// AdjustTrust moves an agent's trust score by delta.
func (o *Orchestrator) AdjustTrust(agentID string, delta float64, reason string) (core.AgentRegistryEntry, error) {
	return o.registry.AdjustTrust(agentID, delta, reason)
}

// Health summarizes roster liveness.
func (o *Orchestrator) Health() registry.HealthReport { return o.registry.Health() }

func (o *Orchestrator) adjustIfRegistered(agentID string, delta float64, reason string) {
	if delta == 0 || !o.registry.Has(agentID) {
		return
	}

	if _, err := o.registry.AdjustTrust(agentID, delta, reason); err != nil {
		o.logger.Warn("registry.trust.adjust_failed", "agent_id", agentID, "error", err.Error())
	}
}
