package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/match3/board"
	"github.com/lixenwraith/match3/parameter"
)

// TestEventQueueBasic tests basic push and consume operations
func TestEventQueueBasic(t *testing.T) {
	eq := NewEventQueue()

	eq.SetTick(1)
	eq.Emit(EventMovementSettled, board.Point{X: 1, Y: 2})
	eq.SetTick(2)
	eq.Emit(EventColumnDirty, &ColumnDirtyPayload{Column: 3})
	eq.SetTick(3)
	eq.Emit(EventMatchCompleted, &MatchCompletedPayload{Count: 3})

	events := eq.Consume()
	require.Len(t, events, 3)

	// FIFO order
	assert.Equal(t, EventMovementSettled, events[0].Type)
	assert.Equal(t, board.Point{X: 1, Y: 2}, events[0].Payload)
	assert.Equal(t, EventColumnDirty, events[1].Type)
	assert.Equal(t, 3, events[1].Payload.(*ColumnDirtyPayload).Column)
	assert.Equal(t, uint64(3), events[2].Tick)

	assert.Empty(t, eq.Consume())
	assert.Equal(t, 0, eq.Len())
}

// TestEventQueueConcurrent tests concurrent push operations from multiple goroutines
func TestEventQueueConcurrent(t *testing.T) {
	eq := NewEventQueue()
	numGoroutines := 10
	eventsPerGoroutine := 10

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < eventsPerGoroutine; j++ {
				eq.Emit(EventMovementSettled, board.Point{X: id, Y: j})
			}
		}(i)
	}
	wg.Wait()

	events := eq.Consume()
	require.Len(t, events, numGoroutines*eventsPerGoroutine)

	seen := make(map[board.Point]bool)
	for _, ev := range events {
		p := ev.Payload.(board.Point)
		assert.False(t, seen[p], "duplicate payload %v", p)
		seen[p] = true
	}
}

// TestEventQueueOverflow tests that the oldest events are overwritten when full
func TestEventQueueOverflow(t *testing.T) {
	eq := NewEventQueue()
	total := parameter.EventQueueSize + 10
	for i := 0; i < total; i++ {
		eq.Emit(EventColumnDirty, i)
	}

	events := eq.Consume()
	require.Len(t, events, parameter.EventQueueSize)
	assert.Equal(t, 10, events[0].Payload)
	assert.Equal(t, total-1, events[len(events)-1].Payload)
}

// TestRouterDispatch tests routing by type in registration order
func TestRouterDispatch(t *testing.T) {
	eq := NewEventQueue()
	r := NewRouter[*[]string](eq)

	r.Register(HandlerFunc[*[]string]{
		Types: []EventType{EventColumnDirty},
		Fn:    func(log *[]string, ev GameEvent) { *log = append(*log, "a:"+ev.Type.String()) },
	})
	r.Register(HandlerFunc[*[]string]{
		Types: []EventType{EventColumnDirty, EventBoardShuffled},
		Fn:    func(log *[]string, ev GameEvent) { *log = append(*log, "b:"+ev.Type.String()) },
	})

	eq.Emit(EventColumnDirty, nil)
	eq.Emit(EventBoardShuffled, nil)
	eq.Emit(EventMatchReady, nil)

	var log []string
	n := r.DispatchAll(&log)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"a:ColumnDirty", "b:ColumnDirty", "b:BoardShuffled"}, log)
	assert.Zero(t, r.DispatchAll(&log))
}

// TestEventQueueLenCapped tests the pending count before and after a wrap
func TestEventQueueLenCapped(t *testing.T) {
	eq := NewEventQueue()
	eq.Emit(EventColumnDirty, 0)
	eq.Emit(EventColumnDirty, 1)
	assert.Equal(t, 2, eq.Len())

	for i := 0; i < parameter.EventQueueSize; i++ {
		eq.Emit(EventColumnDirty, i)
	}
	assert.Equal(t, parameter.EventQueueSize, eq.Len())

	eq.SetTick(9)
	eq.Emit(EventBoardShuffled, nil)
	events := eq.Consume()
	require.Len(t, events, parameter.EventQueueSize)
	assert.Equal(t, uint64(9), events[len(events)-1].Tick)
	assert.Equal(t, 0, eq.Len())
}
