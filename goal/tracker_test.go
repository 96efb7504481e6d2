package goal

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/match3/board"
	"github.com/lixenwraith/match3/event"
	"github.com/lixenwraith/match3/level"
	"github.com/lixenwraith/match3/parameter"
)

func pt(x, y int) board.Point {
	return board.Point{X: x, Y: y}
}

func consumed(typeID int, p board.Point, generator bool) event.GameEvent {
	return event.GameEvent{
		Type: event.EventTokenConsumed,
		Payload: &event.TokenConsumedPayload{
			Pos:       p,
			TypeID:    typeID,
			Generator: generator,
		},
	}
}

// TestTrackerFromBoard tests goal seeding from every layer
func TestTrackerFromBoard(t *testing.T) {
	pool := board.NewTokenPool(nil)
	b := board.New(3, 3)
	obstacle := parameter.ObstacleTypeBase
	b.Place(pt(0, 0), pool.Get(obstacle))
	b.Place(pt(1, 1), pool.Get(2))
	b.Cell(pt(2, 2)).SetUnderlay(pool.Get(obstacle))
	b.Cell(pt(1, 1)).SetOverlay(pool.Get(obstacle))

	tr := NewTracker([]level.Goal{{TypeID: obstacle}, {TypeID: 4}}, 10, nil, zerolog.Nop())
	tr.InitFromBoard(b)

	assert.Equal(t, 3, tr.Remaining(obstacle))
	assert.Equal(t, 0, tr.Remaining(4))
	assert.Equal(t, []board.Point{pt(0, 0), pt(1, 1), pt(2, 2)}, tr.Positions(obstacle))

	tr.SetAmounts([]level.Goal{{TypeID: obstacle, Amount: 2}, {TypeID: 99, Amount: 5}})
	assert.Equal(t, 2, tr.Remaining(obstacle))
	assert.Equal(t, 0, tr.Remaining(99))
}

// TestTrackerCountsDown tests decrement, events and completion
func TestTrackerCountsDown(t *testing.T) {
	eq := event.NewEventQueue()
	tr := NewTracker([]level.Goal{{TypeID: 1, Amount: 2}, {TypeID: 3, Amount: 1}}, 5, eq, zerolog.Nop())

	tr.HandleEvent(consumed(1, pt(0, 0), false))
	tr.HandleEvent(consumed(2, pt(1, 0), false))
	tr.HandleEvent(event.GameEvent{Type: event.EventMatchCompleted})
	assert.Equal(t, 1, tr.Remaining(1))
	assert.False(t, tr.Completed())

	tr.HandleEvent(consumed(1, pt(0, 1), false))
	tr.HandleEvent(consumed(1, pt(0, 2), false))
	assert.Equal(t, 0, tr.Remaining(1), "never below zero")

	tr.HandleEvent(consumed(3, pt(2, 2), false))
	assert.True(t, tr.Completed())
	assert.Equal(t, []level.Goal{{TypeID: 1}, {TypeID: 3}}, tr.Goals())

	var updates, completions int
	for _, ev := range eq.Consume() {
		switch ev.Type {
		case event.EventGoalUpdated:
			updates++
		case event.EventLevelCompleted:
			completions++
		}
	}
	assert.Equal(t, 3, updates)
	assert.Equal(t, 1, completions)
}

// TestGeneratorStaysTracked tests that generator hits keep the generator position
func TestGeneratorStaysTracked(t *testing.T) {
	gen := parameter.GeneratorTypeBase
	pool := board.NewTokenPool(nil)
	b := board.New(2, 2)
	b.Place(pt(1, 1), pool.Get(gen))

	tr := NewTracker([]level.Goal{{TypeID: gen}}, 5, nil, zerolog.Nop())
	tr.InitFromBoard(b)
	tr.SetAmounts([]level.Goal{{TypeID: gen, Amount: 2}})

	tr.OnConsumed(&event.TokenConsumedPayload{Pos: pt(1, 1), TypeID: gen, Generator: true})
	assert.Equal(t, []board.Point{pt(1, 1)}, tr.Positions(gen))

	tr.OnConsumed(&event.TokenConsumedPayload{Pos: pt(1, 1), TypeID: gen, Generator: true})
	assert.Empty(t, tr.Positions(gen))
	assert.True(t, tr.Completed())
}

// TestMoveBudget tests move spending and the out-of-moves signal
func TestMoveBudget(t *testing.T) {
	eq := event.NewEventQueue()
	tr := NewTracker([]level.Goal{{TypeID: 1, Amount: 1}}, 2, eq, zerolog.Nop())

	require.True(t, tr.UseMove())
	assert.False(t, tr.OutOfMoves())
	require.True(t, tr.UseMove())
	assert.True(t, tr.OutOfMoves())
	assert.False(t, tr.UseMove())

	evs := eq.Consume()
	require.Len(t, evs, 1)
	assert.Equal(t, event.EventOutOfMoves, evs[0].Type)
	assert.Equal(t, 0, tr.Moves())
}

// TestNoGoalsNeverCompletes tests endless levels
func TestNoGoalsNeverCompletes(t *testing.T) {
	tr := NewTracker(nil, 1, nil, zerolog.Nop())
	tr.OnConsumed(&event.TokenConsumedPayload{TypeID: 1})
	assert.False(t, tr.Completed())
}

// TestPositionsFollowTokens tests that tracked goals report the cell a token fell into
func TestPositionsFollowTokens(t *testing.T) {
	pool := board.NewTokenPool(nil)
	b := board.New(3, 3)
	gem := pool.Get(5)
	b.Place(pt(1, 2), gem)
	b.Place(pt(2, 2), pool.Get(5))

	tr := NewTracker([]level.Goal{{TypeID: 5}}, 5, nil, zerolog.Nop())
	tr.InitFromBoard(b)
	require.Equal(t, []board.Point{pt(1, 2), pt(2, 2)}, tr.Positions(5))

	b.Cell(pt(1, 1)).SetToken(b.Cell(pt(1, 2)).TakeToken())
	b.Place(pt(1, 2), pool.Get(6))
	assert.Equal(t, []board.Point{pt(1, 1), pt(2, 2)}, tr.Positions(5))

	// A consumed token leaves the board before its event arrives
	b.Cell(pt(1, 1)).TakeToken()
	assert.Equal(t, []board.Point{pt(2, 2)}, tr.Positions(5))

	tr.OnConsumed(&event.TokenConsumedPayload{Pos: pt(1, 1), TypeID: 5, Token: gem})
	assert.Equal(t, 1, tr.Remaining(5))
	assert.Equal(t, []board.Point{pt(2, 2)}, tr.Positions(5))

	// Without identity the token is matched by cell
	b.Cell(pt(2, 2)).TakeToken()
	tr.OnConsumed(&event.TokenConsumedPayload{Pos: pt(2, 2), TypeID: 5})
	assert.Empty(t, tr.Positions(5))
	assert.True(t, tr.Completed())
}

// TestTargetPrefersOpenGoals tests goal selection in level order, skipping finished goals
func TestTargetPrefersOpenGoals(t *testing.T) {
	pool := board.NewTokenPool(nil)
	b := board.New(4, 4)
	obstacle := parameter.ObstacleTypeBase
	b.Place(pt(0, 0), pool.Get(obstacle))
	b.Place(pt(3, 3), pool.Get(2))
	b.Place(pt(1, 3), pool.Get(2))

	tr := NewTracker([]level.Goal{{TypeID: obstacle}, {TypeID: 2}}, 5, nil, zerolog.Nop())
	tr.InitFromBoard(b)

	first := func(int) int { return 0 }
	last := func(n int) int { return n - 1 }

	p, ok := tr.Target(first)
	require.True(t, ok)
	assert.Equal(t, pt(0, 0), p)

	// Explicit amounts can finish a goal while its tokens remain on the board
	tr.SetAmounts([]level.Goal{{TypeID: obstacle, Amount: 0}})
	p, ok = tr.Target(last)
	require.True(t, ok)
	assert.Equal(t, pt(3, 3), p)

	tr.SetAmounts([]level.Goal{{TypeID: 2, Amount: 0}})
	_, ok = tr.Target(first)
	assert.False(t, ok)
}
