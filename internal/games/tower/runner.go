package tower

import (
	"context"
	"sync"
	"time"
)

// DefaultRiseCheck is how often the rise driver asks the session whether a
// rise is due.
const DefaultRiseCheck = 50 * time.Millisecond

// Runner drives a session with three tickers (gravity, input poll, rise)
// from a single goroutine.
type Runner struct {
	session   *Session
	gravity   time.Duration
	poll      time.Duration
	riseCheck time.Duration
	now       func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a runner using the session's timing configuration.
func NewRunner(s *Session) *Runner {
	t := s.Config().Timing
	return &Runner{
		session:   s,
		gravity:   t.Gravity,
		poll:      t.InputPoll,
		riseCheck: DefaultRiseCheck,
		now:       time.Now,
	}
}

// Start launches the drive loop in the background. Calling Start on a
// running runner does nothing.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.Run(ctx)
	}()
}

// Stop cancels the drive loop and waits for it to exit. No tick reaches
// the session after Stop returns.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
}

// Run drives the session until ctx is cancelled or the session ends.
// Tickers drop ticks that the loop could not take, so a slow or paused
// session never replays a backlog.
func (r *Runner) Run(ctx context.Context) {
	gravity := time.NewTicker(r.gravity)
	defer gravity.Stop()
	poll := time.NewTicker(r.poll)
	defer poll.Stop()
	rise := time.NewTicker(r.riseCheck)
	defer rise.Stop()

	done := r.session.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-gravity.C:
			r.session.Tick(r.now())
		case <-poll.C:
			r.session.ProcessInput(r.now())
		case <-rise.C:
			r.session.RiseStep(r.now())
		}
	}
}
