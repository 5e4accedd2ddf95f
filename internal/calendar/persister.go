package calendar

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/applog"
	"github.com/hawkeyecrm/hawkeye/internal/observability"
)

// Persistence operations, used as metric and log labels.
const (
	OpMove   = "move"
	OpResize = "resize"
	OpCreate = "create"
	OpSave   = "save"
)

// Result reports the outcome of a fire-and-forget write.
type Result struct {
	Op         string
	ActivityID int64
	Activity   *activity.Activity // stored copy on success
	Err        error
	Superseded bool
}

// Persister turns gesture steps and form submissions into store calls.
// Gesture writes are fire-and-forget; form writes are synchronous.
type Persister struct {
	store     activity.Store
	log       *applog.Logger
	metrics   *observability.Metrics
	supersede bool
	minDur    time.Duration
	notify    func(Result)

	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	inflight map[int64]*pending
	seq      uint64
}

type pending struct {
	seq    uint64
	cancel context.CancelFunc
}

// PersisterOption configures a Persister.
type PersisterOption func(*Persister)

// WithLogger sets the event logger.
func WithLogger(l *applog.Logger) PersisterOption {
	return func(p *Persister) { p.log = l }
}

// WithMetrics sets the counters.
func WithMetrics(m *observability.Metrics) PersisterOption {
	return func(p *Persister) { p.metrics = m }
}

// WithSupersede makes a newer gesture write for an activity cancel the
// outstanding one. Off by default: overlapping writes race and the store
// keeps the last one it receives.
func WithSupersede(enabled bool) PersisterOption {
	return func(p *Persister) { p.supersede = enabled }
}

// WithMinDuration rejects form submissions shorter than one interval.
func WithMinDuration(axis Axis) PersisterOption {
	return func(p *Persister) { p.minDur = axis.IntervalDuration() }
}

// WithNotify registers a callback for gesture write results. It runs on the
// writer goroutine.
func WithNotify(fn func(Result)) PersisterOption {
	return func(p *Persister) { p.notify = fn }
}

// NewPersister creates a persister over store.
func NewPersister(store activity.Store, opts ...PersisterOption) *Persister {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Persister{
		store:    store,
		base:     ctx,
		cancel:   cancel,
		inflight: make(map[int64]*pending),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Submit writes a gesture step in the background. Errors are logged and
// counted; the caller's optimistic state is never rolled back.
func (p *Persister) Submit(step Step) {
	op := OpMove
	if step.Kind == StepResize {
		op = OpResize
	}
	id := step.Activity.ID
	ctx, done := p.track(id)

	p.metrics.RecordStep(op)
	p.metrics.TrackInFlight(1)
	p.log.Debug("PERSIST_SUBMIT", applog.Fields{
		"op":     op,
		"id":     id,
		"start":  step.Activity.StartAt.Format("2006-01-02 15:04"),
		"end":    step.Activity.EndAt.Format("2006-01-02 15:04"),
		"fields": step.Update.Changed(),
	})

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.metrics.TrackInFlight(-1)
		defer done()

		stored, err := p.store.Update(ctx, id, step.Update)
		res := Result{Op: op, ActivityID: id, Activity: stored, Err: err}
		switch {
		case err == nil:
			p.metrics.RecordPersist(op, observability.OutcomeOK)
			p.log.Debug("PERSIST_OK", applog.Fields{"op": op, "id": id})
		case errors.Is(err, context.Canceled) && ctx.Err() != nil && p.base.Err() == nil:
			res.Superseded = true
			p.metrics.RecordPersist(op, observability.OutcomeSuperseded)
			p.log.Debug("PERSIST_SUPERSEDED", applog.Fields{"op": op, "id": id})
		default:
			p.metrics.RecordPersist(op, observability.OutcomeError)
			p.log.Error("PERSIST_FAILED", err, applog.Fields{"op": op, "id": id})
		}
		if p.notify != nil {
			p.notify(res)
		}
	}()
}

// track returns the context for a write on id and a release func.
// With supersede enabled an older write on the same id is cancelled.
func (p *Persister) track(id int64) (context.Context, func()) {
	if !p.supersede {
		return p.base, func() {}
	}

	ctx, cancel := context.WithCancel(p.base)

	p.mu.Lock()
	p.seq++
	seq := p.seq
	if prev, ok := p.inflight[id]; ok {
		prev.cancel()
	}
	p.inflight[id] = &pending{seq: seq, cancel: cancel}
	p.mu.Unlock()

	return ctx, func() {
		p.mu.Lock()
		if cur, ok := p.inflight[id]; ok && cur.seq == seq {
			delete(p.inflight, id)
		}
		p.mu.Unlock()
		cancel()
	}
}

// Create validates and stores a new activity from a form.
func (p *Persister) Create(ctx context.Context, a *activity.Activity) (*activity.Activity, error) {
	if err := p.validate(a); err != nil {
		return nil, err
	}
	stored, err := p.store.Create(ctx, a)
	p.record(OpCreate, a.ID, err)
	return stored, err
}

// Save validates and replaces an existing activity from a form. before is the
// copy the form was opened on; when the form changed nothing the store is not
// called and before is returned. A nil before always writes.
func (p *Persister) Save(ctx context.Context, before, a *activity.Activity) (*activity.Activity, error) {
	if err := p.validate(a); err != nil {
		return nil, err
	}
	if before != nil && activity.Diff(before, a).Empty() {
		p.log.Debug("FORM_UNCHANGED", applog.Fields{"id": a.ID})
		return before.Clone(), nil
	}
	stored, err := p.store.Update(ctx, a.ID, activity.Replace(a))
	p.record(OpSave, a.ID, err)
	return stored, err
}

func (p *Persister) validate(a *activity.Activity) error {
	return activity.Validate(a, p.minDur)
}

func (p *Persister) record(op string, id int64, err error) {
	if err != nil {
		p.metrics.RecordPersist(op, observability.OutcomeError)
		p.log.Error("FORM_SUBMIT_FAILED", err, applog.Fields{"op": op, "id": id})
		return
	}
	p.metrics.RecordPersist(op, observability.OutcomeOK)
	p.log.Info("FORM_SUBMIT", applog.Fields{"op": op, "id": id})
}

// Wait blocks until every background write has finished.
func (p *Persister) Wait() {
	p.wg.Wait()
}

// Close cancels outstanding background writes and waits for them.
func (p *Persister) Close() {
	p.cancel()
	p.wg.Wait()
}
