package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// ClockScheduler runs engine ticks on a fixed interval in one goroutine
// The scheduler goroutine is the only writer of the board; other goroutines
// go through Engine.RunSafe
type ClockScheduler struct {
	engine *Engine
	log    zerolog.Logger

	// Tick configuration
	tickInterval     time.Duration
	nextTickDeadline time.Time // Next tick deadline for drift correction

	tickCount atomic.Uint64
	paused    atomic.Bool

	// Control
	cancel   context.CancelFunc
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	// updateDone signals a completed tick to the renderer, dropped when full
	updateDone chan struct{}
}

// NewClockScheduler creates a scheduler for e ticking every tickInterval
func NewClockScheduler(e *Engine, tickInterval time.Duration, log zerolog.Logger) *ClockScheduler {
	return &ClockScheduler{
		engine:       e,
		log:          log.With().Str("component", "scheduler").Logger(),
		tickInterval: tickInterval,
		updateDone:   make(chan struct{}, 1),
	}
}

// Updates returns the channel signalled after each tick
func (cs *ClockScheduler) Updates() <-chan struct{} {
	return cs.updateDone
}

// Start begins the scheduler loop; cancelling ctx stops it
func (cs *ClockScheduler) Start(ctx context.Context) {
	if !cs.running.CompareAndSwap(false, true) {
		return
	}
	ctx, cs.cancel = context.WithCancel(ctx)
	cs.wg.Add(1)
	go cs.schedulerLoop(ctx)
}

// Stop halts the scheduler loop and waits for the running tick
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		if cs.running.CompareAndSwap(true, false) {
			cs.cancel()
			cs.wg.Wait()
			cs.log.Debug().Uint64("ticks", cs.tickCount.Load()).Msg("scheduler stopped")
		}
	})
}

// Pause suspends ticking without stopping the loop
func (cs *ClockScheduler) Pause() {
	cs.paused.Store(true)
}

// Resume continues ticking after Pause
func (cs *ClockScheduler) Resume() {
	cs.paused.Store(false)
}

// IsPaused returns current pause state
func (cs *ClockScheduler) IsPaused() bool {
	return cs.paused.Load()
}

// TickCount returns the number of ticks run
func (cs *ClockScheduler) TickCount() uint64 {
	return cs.tickCount.Load()
}

// schedulerLoop runs ticks against a drifting deadline
func (cs *ClockScheduler) schedulerLoop(ctx context.Context) {
	defer cs.wg.Done()

	cs.nextTickDeadline = time.Now().Add(cs.tickInterval)

	timer := time.NewTimer(cs.tickInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		now := time.Now()
		if !cs.paused.Load() {
			cs.processTick()
		}

		cs.nextTickDeadline = cs.nextTickDeadline.Add(cs.tickInterval)

		// Skip missed ticks instead of bursting to catch up
		maxBehind := cs.tickInterval * 2
		if now.Sub(cs.nextTickDeadline) > maxBehind {
			cs.nextTickDeadline = now.Add(cs.tickInterval)
		}

		sleepDuration := time.Until(cs.nextTickDeadline)
		if sleepDuration < 0 {
			sleepDuration = 0
		}
		timer.Reset(sleepDuration)
	}
}

// processTick executes one clock cycle
func (cs *ClockScheduler) processTick() {
	cs.engine.RunSafe(func(e *Engine) {
		e.Tick()
	})
	cs.tickCount.Add(1)

	select {
	case cs.updateDone <- struct{}{}:
	default:
	}
}
