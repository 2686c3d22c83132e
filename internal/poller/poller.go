// Package poller reads device status on a timer and hands each result to the
// store. At most one status call is in flight at any time.
package poller

import (
	"context"
	"sync"
	"time"

	sb "smart_breeder"
	"smart_breeder/internal/logger"
)

type State int32

const (
	Idle State = iota
	Scheduled
	Running
)

func (s State) String() string {
	switch s {
	case Scheduled:
		return "scheduled"
	case Running:
		return "running"
	default:
		return "idle"
	}
}

// StatusReader is the part of the device client the poller needs.
type StatusReader interface {
	GetStatus(ctx context.Context) sb.Result
}

type Options struct {
	Reader   StatusReader
	Apply    func(sb.Result)      // folds a result into client state
	Interval func() time.Duration // read again before every reschedule
}

type Poller struct {
	reader   StatusReader
	apply    func(sb.Result)
	interval func() time.Duration
	log      *logger.Logger

	calls sync.WaitGroup

	mu       sync.Mutex
	state    State
	gen      uint64
	loopCtx  context.Context
	cancel   context.CancelFunc
	loopDone chan struct{}
	kick     chan struct{}

	// busyGen is the generation of the call in flight, valid while busy.
	// pending is a generation whose tick was skipped behind an older call.
	busy    bool
	busyGen uint64
	pending uint64
}

func New(opts Options, log *logger.Logger) *Poller {
	if opts.Interval == nil {
		opts.Interval = func() time.Duration { return 5 * time.Second }
	}
	if opts.Apply == nil {
		opts.Apply = func(sb.Result) {}
	}
	return &Poller{
		reader:   opts.Reader,
		apply:    opts.Apply,
		interval: opts.Interval,
		log:      log,
	}
}

func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Start polls once immediately and then every Interval until Stop or until
// ctx is done. Starting a running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Idle {
		return
	}
	p.gen++
	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.loopCtx = loopCtx
	p.loopDone = make(chan struct{})
	p.kick = make(chan struct{}, 1)
	p.state = Scheduled

	go p.loop(loopCtx, p.gen, p.kick, p.loopDone)
}

// Stop cancels the pending timer and returns once the loop has exited. A call
// still in flight is left to finish; its result is dropped.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.state == Idle {
		p.mu.Unlock()
		return
	}
	p.gen++
	p.state = Idle
	p.cancel()
	done := p.loopDone
	p.mu.Unlock()

	<-done
	if p.log != nil {
		p.log.Infow("poller_stopped")
	}
}

// Wait blocks until no status call is in flight.
func (p *Poller) Wait() {
	p.calls.Wait()
}

// Reschedule restarts the pending timer with a fresh interval, so a shorter
// interval does not wait out the old one.
func (p *Poller) Reschedule() {
	p.mu.Lock()
	kick := p.kick
	idle := p.state == Idle
	p.mu.Unlock()
	if idle {
		return
	}
	select {
	case kick <- struct{}{}:
	default:
	}
}

func (p *Poller) loop(ctx context.Context, gen uint64, kick <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	p.tick(ctx, gen)

	t := time.NewTimer(p.interval())
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			p.mu.Lock()
			if p.gen == gen {
				// parent context ended without Stop
				p.gen++
				p.state = Idle
			}
			p.mu.Unlock()
			return
		case <-kick:
			if !t.Stop() {
				select {
				case <-t.C:
				default:
				}
			}
			t.Reset(p.interval())
		case <-t.C:
			p.tick(ctx, gen)
			t.Reset(p.interval())
		}
	}
}

// tick starts one status call unless one is still running. A tick skipped
// behind a call from before a restart runs as soon as that call returns.
func (p *Poller) tick(ctx context.Context, gen uint64) {
	p.mu.Lock()
	if p.gen != gen {
		p.mu.Unlock()
		return
	}
	if p.busy {
		if p.busyGen != gen {
			p.pending = gen
		}
		p.mu.Unlock()
		if p.log != nil {
			p.log.Debugw("poll_skipped", "reason", "previous call in flight")
		}
		return
	}
	p.busy = true
	p.busyGen = gen
	p.state = Running
	p.calls.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.calls.Done()

		// teardown must not abort a call already on the wire
		res := p.reader.GetStatus(context.WithoutCancel(ctx))

		p.mu.Lock()
		p.busy = false
		if p.gen == gen {
			p.apply(res)
			p.state = Scheduled
		} else if p.log != nil {
			p.log.Debugw("poll_discarded", "success", res.Success)
		}

		retry := p.pending != 0 && p.pending == p.gen && p.state != Idle
		retryCtx, retryGen := p.loopCtx, p.gen
		if retry {
			p.pending = 0
		}
		p.mu.Unlock()

		if retry {
			p.tick(retryCtx, retryGen)
		}
	}()
}
