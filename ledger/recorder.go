package ledger

import (
	"context"
	"time"

	"github.com/while-basic/celaya-parachain-sub001/core"
	"github.com/while-basic/celaya-parachain-sub001/internal/util"
	"github.com/while-basic/celaya-parachain-sub001/logging"
)

// RecorderOptions configures a Recorder.
type RecorderOptions struct {
	// Addresser, when set, assigns a CID to every payload before it is appended.
	Addresser core.ContentAddresser
	// Backoff is the pause before the single retry of a failed collaborator call.
	Backoff time.Duration
	Logger  logging.Logger
	Now     func() time.Time
}

// Recorder emits domain records to a sink. Collaborator failures are retried
// once and then surfaced as internal errors.
type Recorder struct {
	sink core.RecordSink
	opts RecorderOptions
}

// NewRecorder wraps sink.
func NewRecorder(sink core.RecordSink, optFns ...func(o *RecorderOptions)) *Recorder {
	opts := RecorderOptions{
		Backoff: 50 * time.Millisecond,
		Logger:  logging.NoOpLogger{},
		Now:     time.Now,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Recorder{sink: sink, opts: opts}
}

// Emit serializes payload canonically, addresses it and appends it under agent.
func (r *Recorder) Emit(ctx context.Context, agent, kind string, payload any) (core.Record, error) {
	const op = "ledger.emit"

	body, err := util.CanonicalJSON(payload)
	if err != nil {
		return core.Record{}, core.E(op, core.KindInternal, err)
	}

	rec := core.Record{Agent: agent, Kind: kind, Timestamp: r.opts.Now(), Payload: body}

	if r.opts.Addresser != nil {
		cid, err := util.RetryOnce(ctx, r.opts.Backoff, func() (string, error) {
			return r.opts.Addresser.Put(ctx, body)
		})
		if err != nil {
			r.opts.Logger.Error("ledger.cas.failed", "agent", agent, "kind", kind, "error", err.Error())
			return core.Record{}, core.E(op, core.KindInternal, err)
		}

		rec.CID = cid
	}

	out, err := util.RetryOnce(ctx, r.opts.Backoff, func() (core.Record, error) {
		return r.sink.Append(ctx, rec)
	})
	if err != nil {
		r.opts.Logger.Error("ledger.append.failed", "agent", agent, "kind", kind, "error", err.Error())
		return core.Record{}, core.E(op, core.KindInternal, err)
	}

	r.opts.Logger.Debug("ledger.record.appended", "agent", agent, "kind", kind, "id", out.ID, "cid", out.CID)

	return out, nil
}
