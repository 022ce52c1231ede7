// Package vote implements bounded-time quorum votes among a required set of
// agents.
//
// A session stays pending until every required agent has voted, at which point
// it closes as passed or failed on a simple majority, or until its timeout
// elapses, at which point it closes as timed_out with the tally of whatever
// votes were cast. Expiry is evaluated against the injected clock whenever a
// session is touched, so no background goroutine is needed.
package vote

import (
	"context"
	"sync"
	"time"

	"github.com/while-basic/celaya-parachain-sub001/core"
	"github.com/while-basic/celaya-parachain-sub001/ledger"
	"github.com/while-basic/celaya-parachain-sub001/logging"
)

// RecordKind labels closed vote sessions in the ledger.
const RecordKind = "vote"

// DefaultQuorum is the participation rate at which a quorum is reached.
const DefaultQuorum = 0.6

var (
	// ErrLateVote is returned for a vote arriving after the session timed out.
	ErrLateVote = &core.Error{Kind: core.KindTimeout, Op: "vote.cast", Err: errLate}
	// ErrSessionClosed is returned for a vote on a session that already closed
	// on full participation.
	ErrSessionClosed = &core.Error{Kind: core.KindInvalidInput, Op: "vote.cast", Err: errClosed}
	// ErrDuplicateVote is returned when a required agent votes twice.
	ErrDuplicateVote = &core.Error{Kind: core.KindInvalidInput, Op: "vote.cast", Err: errDuplicate}
)

// Options configures a Controller.
type Options struct {
	Quorum      float64
	Recorder    *ledger.Recorder
	RecordAgent string
	// OnClose is called once per session, outside the controller lock, after
	// the session reaches a terminal status.
	OnClose func(session core.VoteSession, result core.VoteResult)
	Logger  logging.Logger
	Now     func() time.Time
}

type entry struct {
	session core.VoteSession
	done    chan struct{}
}

// Controller owns every vote session. It is safe for concurrent use.
type Controller struct {
	opts Options

	mu       sync.Mutex
	sessions map[string]*entry
}

// New creates a Controller.
func New(optFns ...func(o *Options)) *Controller {
	opts := Options{
		Quorum:      DefaultQuorum,
		RecordAgent: "lyra",
		Logger:      logging.NoOpLogger{},
		Now:         time.Now,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Controller{opts: opts, sessions: map[string]*entry{}}
}

// Open starts a pending session among required agents.
func (c *Controller) Open(_ context.Context, topic, proposal string, required []string, timeout time.Duration) (core.VoteSession, error) {
	const op = "vote.open"

	if len(required) == 0 {
		return core.VoteSession{}, core.Errorf(op, core.KindInvalidInput, "at least one required agent is needed")
	}

	if timeout <= 0 {
		return core.VoteSession{}, core.Errorf(op, core.KindInvalidInput, "timeout must be positive, got %s", timeout)
	}

	seen := make(map[string]struct{}, len(required))
	for _, id := range required {
		if id == "" {
			return core.VoteSession{}, core.Errorf(op, core.KindInvalidInput, "empty agent id")
		}

		if _, dup := seen[id]; dup {
			return core.VoteSession{}, core.Errorf(op, core.KindInvalidInput, "agent %q listed twice", id)
		}

		seen[id] = struct{}{}
	}

	e := &entry{
		session: core.VoteSession{
			SessionID:      core.NewID(),
			Topic:          topic,
			Proposal:       proposal,
			RequiredAgents: append([]string(nil), required...),
			Votes:          map[string]core.Ballot{},
			Status:         core.VotePending,
			OpenedAt:       c.opts.Now().UTC(),
			Timeout:        timeout,
		},
		done: make(chan struct{}),
	}

	c.mu.Lock()
	c.sessions[e.session.SessionID] = e
	c.mu.Unlock()

	c.opts.Logger.Info("vote.session.opened",
		"session_id", e.session.SessionID,
		"topic", topic,
		"required", len(required),
		"timeout", timeout.String(),
	)

	return snapshot(&e.session), nil
}

// Cast records agentID's vote. Votes from agents outside the required set are
// ignored and leave the session untouched. A vote arriving after the timeout
// returns ErrLateVote and is not recorded.
func (c *Controller) Cast(ctx context.Context, sessionID, agentID string, vote bool, reasoning string) (core.VoteResult, error) {
	c.mu.Lock()

	e, ok := c.sessions[sessionID]
	if !ok {
		c.mu.Unlock()
		return core.VoteResult{}, core.Errorf("vote.cast", core.KindNotFound, "vote session %q", sessionID)
	}

	now := c.opts.Now().UTC()
	closed := c.expireLocked(e, now)

	var err error

	switch {
	case !e.session.Requires(agentID):
		c.opts.Logger.Warn("vote.cast.ignored", "session_id", sessionID, "agent_id", agentID)
	case e.session.Status == core.VoteTimedOut:
		err = ErrLateVote
	case e.session.Status.Terminal():
		err = ErrSessionClosed
	default:
		if _, dup := e.session.Votes[agentID]; dup {
			err = ErrDuplicateVote
			break
		}

		e.session.Votes[agentID] = core.Ballot{Vote: vote, Reasoning: reasoning, CastAt: now}

		if len(e.session.Votes) == len(e.session.RequiredAgents) {
			res := c.tally(&e.session)
			c.closeLocked(e, res.Outcome, now)
			closed = true
		}
	}

	session := snapshot(&e.session)
	c.mu.Unlock()

	res := c.tally(&session)

	if closed {
		c.finish(ctx, session, res)
	}

	if err != nil {
		if err == ErrLateVote {
			c.opts.Logger.Warn("vote.cast.late", "session_id", sessionID, "agent_id", agentID)
		}

		return res, err
	}

	return res, nil
}

// Result returns the current tally of a session, closing it first when its
// timeout has elapsed.
func (c *Controller) Result(ctx context.Context, sessionID string) (core.VoteResult, error) {
	session, err := c.Session(ctx, sessionID)
	if err != nil {
		return core.VoteResult{}, err
	}

	return c.tally(&session), nil
}

// Session returns a copy of a session, closing it first when its timeout has
// elapsed.
func (c *Controller) Session(ctx context.Context, sessionID string) (core.VoteSession, error) {
	c.mu.Lock()

	e, ok := c.sessions[sessionID]
	if !ok {
		c.mu.Unlock()
		return core.VoteSession{}, core.Errorf("vote.session", core.KindNotFound, "vote session %q", sessionID)
	}

	closed := c.expireLocked(e, c.opts.Now().UTC())
	session := snapshot(&e.session)
	c.mu.Unlock()

	if closed {
		c.finish(ctx, session, c.tally(&session))
	}

	return session, nil
}

// Wait blocks until the session closes or ctx ends.
func (c *Controller) Wait(ctx context.Context, sessionID string) (core.VoteResult, error) {
	for {
		session, err := c.Session(ctx, sessionID)
		if err != nil {
			return core.VoteResult{}, err
		}

		if session.Status.Terminal() {
			return c.tally(&session), nil
		}

		c.mu.Lock()
		done := c.sessions[sessionID].done
		c.mu.Unlock()

		t := time.NewTimer(session.Deadline().Sub(c.opts.Now()))

		select {
		case <-ctx.Done():
			t.Stop()
			return core.VoteResult{}, core.E("vote.wait", core.KindTimeout, ctx.Err())
		case <-done:
		case <-t.C:
		}

		t.Stop()
	}
}

// Sweep closes every pending session whose timeout has elapsed and returns
// their results.
func (c *Controller) Sweep(ctx context.Context) []core.VoteResult {
	now := c.opts.Now().UTC()

	var closed []core.VoteSession

	c.mu.Lock()
	for _, e := range c.sessions {
		if c.expireLocked(e, now) {
			closed = append(closed, snapshot(&e.session))
		}
	}
	c.mu.Unlock()

	results := make([]core.VoteResult, 0, len(closed))

	for i := range closed {
		res := c.tally(&closed[i])
		c.finish(ctx, closed[i], res)
		results = append(results, res)
	}

	return results
}

// Tally computes the vote result of s without changing it.
func Tally(s *core.VoteSession, quorum float64) core.VoteResult {
	res := core.VoteResult{
		SessionID:     s.SessionID,
		Topic:         s.Topic,
		Status:        s.Status,
		RequiredCount: len(s.RequiredAgents),
		VotesCast:     len(s.Votes),
	}

	for _, b := range s.Votes {
		if b.Vote {
			res.VotesFor++
		} else {
			res.VotesAgainst++
		}
	}

	if res.RequiredCount > 0 {
		res.ParticipationRate = float64(res.VotesCast) / float64(res.RequiredCount)
	}

	if res.VotesCast > 0 {
		res.ConsensusRate = float64(res.VotesFor) / float64(res.VotesCast)
	}

	res.Outcome = core.VoteFailed
	if res.ConsensusRate > 0.5 {
		res.Outcome = core.VotePassed
	}

	res.QuorumReached = res.ParticipationRate >= quorum

	return res
}

func (c *Controller) tally(s *core.VoteSession) core.VoteResult { return Tally(s, c.opts.Quorum) }

// expireLocked closes e as timed out when its deadline has passed. It reports
// whether this call closed the session.
func (c *Controller) expireLocked(e *entry, now time.Time) bool {
	if e.session.Status != core.VotePending || now.Before(e.session.Deadline()) {
		return false
	}

	c.closeLocked(e, core.VoteTimedOut, now)

	return true
}

func (c *Controller) closeLocked(e *entry, status core.VoteStatus, now time.Time) {
	e.session.Status = status
	e.session.ClosedAt = now
	close(e.done)
}

func (c *Controller) finish(ctx context.Context, session core.VoteSession, res core.VoteResult) {
	c.opts.Logger.Info("vote.session.closed",
		"session_id", session.SessionID,
		"status", string(res.Status),
		"outcome", string(res.Outcome),
		"participation", res.ParticipationRate,
		"quorum", res.QuorumReached,
	)

	if c.opts.Recorder != nil {
		payload := struct {
			Session core.VoteSession `json:"session"`
			Result  core.VoteResult  `json:"result"`
		}{session, res}

		if _, err := c.opts.Recorder.Emit(ctx, c.opts.RecordAgent, RecordKind, payload); err != nil {
			c.opts.Logger.Error("vote.record.failed", "session_id", session.SessionID, "error", err.Error())
		}
	}

	if c.opts.OnClose != nil {
		c.opts.OnClose(session, res)
	}
}

func snapshot(s *core.VoteSession) core.VoteSession {
	cp := *s
	cp.RequiredAgents = append([]string(nil), s.RequiredAgents...)
	cp.Votes = make(map[string]core.Ballot, len(s.Votes))

	for k, v := range s.Votes {
		cp.Votes[k] = v
	}

	return cp
}
