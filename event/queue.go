package event

import (
	"sync/atomic"

	"github.com/lixenwraith/match3/parameter"
)

// EventQueue is a fixed ring of engine events with many producers and one consumer
// Producers reserve slots with an atomic add and publish them once written;
// the tick loop drains the published prefix. A full ring drops its oldest events
type EventQueue struct {
	events    [parameter.EventQueueSize]GameEvent
	published [parameter.EventQueueSize]atomic.Bool
	head      atomic.Uint64 // Next slot to read
	tail      atomic.Uint64 // Next slot to reserve
	tick      atomic.Uint64
}

// NewEventQueue returns an empty queue stamping tick 0
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Emit appends an event stamped with the current tick
func (eq *EventQueue) Emit(t EventType, payload any) {
	end := eq.tail.Add(1)
	i := (end - 1) & parameter.EventBufferMask
	eq.events[i] = GameEvent{Type: t, Payload: payload, Tick: eq.tick.Load()}
	eq.published[i].Store(true)

	if head := eq.head.Load(); end-head > parameter.EventQueueSize {
		eq.head.CompareAndSwap(head, end-parameter.EventQueueSize)
	}
}

// SetTick sets the tick stamped onto subsequently emitted events
func (eq *EventQueue) SetTick(tick uint64) {
	eq.tick.Store(tick)
}

// Consume drains published events in FIFO order
// Stops at the first reserved slot that is still being written
func (eq *EventQueue) Consume() []GameEvent {
	from, tail := eq.head.Load(), eq.tail.Load()
	if tail-from > parameter.EventQueueSize {
		from = tail - parameter.EventQueueSize
	}

	var out []GameEvent
	for pos := from; pos < tail; pos++ {
		i := pos & parameter.EventBufferMask
		if !eq.published[i].Load() {
			break
		}
		out = append(out, eq.events[i])
		eq.published[i].Store(false)
	}

	// Producers may have pushed head past us on overflow; head only moves forward
	next := from + uint64(len(out))
	for {
		cur := eq.head.Load()
		if cur >= next || eq.head.CompareAndSwap(cur, next) {
			break
		}
	}
	return out
}

// Len returns the number of unread events, at most the ring size
func (eq *EventQueue) Len() int {
	head, tail := eq.head.Load(), eq.tail.Load()
	if tail <= head {
		return 0
	}
	return int(min(tail-head, parameter.EventQueueSize))
}
