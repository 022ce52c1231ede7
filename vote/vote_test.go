package vote

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/while-basic/celaya-parachain-sub001/core"
	"github.com/while-basic/celaya-parachain-sub001/ledger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock { return &clock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newController(clk *clock, optFns ...func(o *Options)) *Controller {
	return New(append([]func(o *Options){func(o *Options) { o.Now = clk.Now }}, optFns...)...)
}

func TestVote_ClosesOnFullParticipation(t *testing.T) {
	clk := newClock()
	var closed []core.VoteResult
	c := newController(clk, func(o *Options) {
		o.OnClose = func(_ core.VoteSession, r core.VoteResult) { closed = append(closed, r) }
	})
	ctx := context.Background()

	s, err := c.Open(ctx, "upgrade", "adopt v2", []string{"A", "B", "C"}, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, core.VotePending, s.Status)

	_, err = c.Cast(ctx, s.SessionID, "A", true, "")
	require.NoError(t, err)
	res, err := c.Cast(ctx, s.SessionID, "B", false, "too risky")
	require.NoError(t, err)
	assert.Equal(t, core.VotePending, res.Status)

	res, err = c.Cast(ctx, s.SessionID, "C", true, "")
	require.NoError(t, err)

	assert.Equal(t, core.VotePassed, res.Status)
	assert.Equal(t, core.VotePassed, res.Outcome)
	assert.Equal(t, 2, res.VotesFor)
	assert.Equal(t, 1, res.VotesAgainst)
	assert.Equal(t, 1.0, res.ParticipationRate)
	assert.InDelta(t, 2.0/3.0, res.ConsensusRate, 1e-9)
	assert.True(t, res.QuorumReached)
	require.Len(t, closed, 1)

	_, err = c.Cast(ctx, s.SessionID, "A", true, "")
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestVote_TieFails(t *testing.T) {
	c := newController(newClock())
	ctx := context.Background()

	s, err := c.Open(ctx, "t", "p", []string{"A", "B"}, time.Minute)
	require.NoError(t, err)

	_, _ = c.Cast(ctx, s.SessionID, "A", true, "")
	res, err := c.Cast(ctx, s.SessionID, "B", false, "")
	require.NoError(t, err)

	assert.Equal(t, core.VoteFailed, res.Status)
	assert.Equal(t, 0.5, res.ConsensusRate)
}

func TestVote_TimeoutWithPartialQuorum(t *testing.T) {
	clk := newClock()
	c := newController(clk)
	ctx := context.Background()

	s, err := c.Open(ctx, "t", "p", []string{"A", "B", "C"}, time.Minute)
	require.NoError(t, err)

	_, err = c.Cast(ctx, s.SessionID, "A", true, "")
	require.NoError(t, err)
	clk.Advance(30 * time.Second)
	_, err = c.Cast(ctx, s.SessionID, "B", true, "")
	require.NoError(t, err)

	clk.Advance(31 * time.Second)

	res, err := c.Result(ctx, s.SessionID)
	require.NoError(t, err)

	assert.Equal(t, core.VoteTimedOut, res.Status)
	assert.Equal(t, core.VotePassed, res.Outcome)
	assert.InDelta(t, 2.0/3.0, res.ParticipationRate, 1e-9)
	assert.Equal(t, 1.0, res.ConsensusRate)
	assert.True(t, res.QuorumReached)

	late, err := c.Cast(ctx, s.SessionID, "C", false, "")
	assert.ErrorIs(t, err, ErrLateVote)
	assert.ErrorIs(t, err, core.ErrTimeout)
	assert.Equal(t, 2, late.VotesCast)

	session, err := c.Session(ctx, s.SessionID)
	require.NoError(t, err)
	assert.NotContains(t, session.Votes, "C")
	assert.Equal(t, clk.Now(), session.ClosedAt)
}

func TestVote_LateVoteClosesExpiredSession(t *testing.T) {
	clk := newClock()
	calls := 0
	c := newController(clk, func(o *Options) { o.OnClose = func(core.VoteSession, core.VoteResult) { calls++ } })
	ctx := context.Background()

	s, err := c.Open(ctx, "t", "p", []string{"A"}, time.Minute)
	require.NoError(t, err)

	clk.Advance(time.Minute)

	res, err := c.Cast(ctx, s.SessionID, "A", true, "")
	assert.ErrorIs(t, err, ErrLateVote)
	assert.Equal(t, core.VoteTimedOut, res.Status)
	assert.Zero(t, res.ConsensusRate)
	assert.Equal(t, core.VoteFailed, res.Outcome)
	assert.False(t, res.QuorumReached)
	assert.Equal(t, 1, calls)
}

func TestVote_NonRequiredAndDuplicateVotes(t *testing.T) {
	c := newController(newClock())
	ctx := context.Background()

	s, err := c.Open(ctx, "t", "p", []string{"A", "B"}, time.Minute)
	require.NoError(t, err)

	res, err := c.Cast(ctx, s.SessionID, "Z", true, "")
	require.NoError(t, err)
	assert.Zero(t, res.VotesCast)
	assert.Equal(t, 2, res.RequiredCount)

	_, err = c.Cast(ctx, s.SessionID, "A", true, "")
	require.NoError(t, err)

	_, err = c.Cast(ctx, s.SessionID, "A", false, "")
	assert.ErrorIs(t, err, ErrDuplicateVote)

	session, err := c.Session(ctx, s.SessionID)
	require.NoError(t, err)
	assert.True(t, session.Votes["A"].Vote)
	assert.Equal(t, []string{"A", "B"}, session.RequiredAgents)
}

func TestVote_NonRequiredVoteIgnoredAfterClose(t *testing.T) {
	clk := newClock()
	c := newController(clk)
	ctx := context.Background()

	closed, err := c.Open(ctx, "t", "p", []string{"A", "B"}, time.Minute)
	require.NoError(t, err)
	_, err = c.Cast(ctx, closed.SessionID, "A", true, "")
	require.NoError(t, err)
	_, err = c.Cast(ctx, closed.SessionID, "B", true, "")
	require.NoError(t, err)

	res, err := c.Cast(ctx, closed.SessionID, "Z", false, "")
	require.NoError(t, err)
	assert.Equal(t, core.VotePassed, res.Status)
	assert.Equal(t, 2, res.VotesCast)

	expired, err := c.Open(ctx, "t", "p", []string{"A", "B"}, time.Minute)
	require.NoError(t, err)
	clk.Advance(2 * time.Minute)

	res, err = c.Cast(ctx, expired.SessionID, "Z", true, "")
	require.NoError(t, err)
	assert.Equal(t, core.VoteTimedOut, res.Status)
	assert.Zero(t, res.VotesCast)

	_, err = c.Cast(ctx, expired.SessionID, "A", true, "")
	assert.ErrorIs(t, err, ErrLateVote)
}

func TestVote_Errors(t *testing.T) {
	c := newController(newClock())
	ctx := context.Background()

	_, err := c.Open(ctx, "t", "p", nil, time.Minute)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = c.Open(ctx, "t", "p", []string{"A"}, 0)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = c.Open(ctx, "t", "p", []string{"A", "A"}, time.Minute)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = c.Cast(ctx, "nope", "A", true, "")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = c.Result(ctx, "nope")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestVote_SweepAndRecord(t *testing.T) {
	clk := newClock()
	mem := ledger.NewMemoryLedger()
	c := newController(clk, func(o *Options) { o.Recorder = ledger.NewRecorder(mem) })
	ctx := context.Background()

	s1, _ := c.Open(ctx, "a", "p", []string{"A"}, time.Minute)
	_, _ = c.Open(ctx, "b", "p", []string{"A"}, time.Hour)

	clk.Advance(2 * time.Minute)

	results := c.Sweep(ctx)
	require.Len(t, results, 1)
	assert.Equal(t, s1.SessionID, results[0].SessionID)
	assert.Empty(t, c.Sweep(ctx))

	files, err := mem.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	recs, err := mem.ReadFile(ctx, files[0])
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, RecordKind, recs[0].Kind)
}

func TestVote_WaitReturnsWhenClosed(t *testing.T) {
	c := New()
	ctx := context.Background()

	s, err := c.Open(ctx, "t", "p", []string{"A"}, time.Minute)
	require.NoError(t, err)

	done := make(chan core.VoteResult)
	go func() {
		res, _ := c.Wait(ctx, s.SessionID)
		done <- res
	}()

	_, err = c.Cast(ctx, s.SessionID, "A", true, "")
	require.NoError(t, err)

	select {
	case res := <-done:
		assert.Equal(t, core.VotePassed, res.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("wait did not return")
	}
}

func TestVote_WaitHonoursTimeout(t *testing.T) {
	c := New()

	s, err := c.Open(context.Background(), "t", "p", []string{"A"}, 30*time.Millisecond)
	require.NoError(t, err)

	res, err := c.Wait(context.Background(), s.SessionID)
	require.NoError(t, err)
	assert.Equal(t, core.VoteTimedOut, res.Status)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	s2, err := c.Open(context.Background(), "t", "p", []string{"A"}, time.Hour)
	require.NoError(t, err)

	_, err = c.Wait(ctx, s2.SessionID)
	assert.ErrorIs(t, err, core.ErrTimeout)
}
