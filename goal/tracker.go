package goal

import (
	"slices"

	"github.com/rs/zerolog"
	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/match3/board"
	"github.com/lixenwraith/match3/event"
	"github.com/lixenwraith/match3/level"
)

// Tracker counts down level goals and the move budget
type Tracker struct {
	events *event.EventQueue
	log    zerolog.Logger

	board     *board.Board
	order     []int // Goal type ids in level order
	remaining map[int]int
	tokens    map[int]mapset.Set[*board.Token] // Follows tokens as they fall

	moves     int
	completed bool
	exhausted bool
}

// NewTracker creates a tracker for the given goals and move budget
func NewTracker(goals []level.Goal, moves int, events *event.EventQueue, log zerolog.Logger) *Tracker {
	t := &Tracker{
		events:    events,
		log:       log.With().Str("component", "goal").Logger(),
		remaining: make(map[int]int, len(goals)),
		tokens:    make(map[int]mapset.Set[*board.Token], len(goals)),
		moves:     moves,
	}
	for _, g := range goals {
		if _, ok := t.remaining[g.TypeID]; !ok {
			t.order = append(t.order, g.TypeID)
		}
		t.remaining[g.TypeID] = g.Amount
		t.tokens[g.TypeID] = mapset.New[*board.Token]()
	}
	return t
}

// InitFromBoard records every goal token on b and sets each amount to the count found
// Explicit amounts from the level can be applied afterwards with SetAmounts
func (t *Tracker) InitFromBoard(b *board.Board) {
	t.board = b
	for _, id := range t.order {
		t.remaining[id] = 0
		t.tokens[id] = mapset.New[*board.Token]()
	}

	track := func(tok *board.Token) {
		if tok == nil {
			return
		}
		set, ok := t.tokens[tok.TypeID]
		if !ok {
			return
		}
		set.Put(tok)
		t.remaining[tok.TypeID]++
	}
	b.Each(func(c *board.Cell) {
		track(c.Token())
		track(c.Underlay())
		track(c.Overlay())
	})
}

// SetAmounts overrides the remaining amount of the listed goals
func (t *Tracker) SetAmounts(goals []level.Goal) {
	for _, g := range goals {
		if _, ok := t.remaining[g.TypeID]; !ok {
			continue
		}
		t.remaining[g.TypeID] = g.Amount
	}
}

// HandleEvent consumes TokenConsumed events
func (t *Tracker) HandleEvent(ev event.GameEvent) {
	if ev.Type != event.EventTokenConsumed {
		return
	}
	if p, ok := ev.Payload.(*event.TokenConsumedPayload); ok {
		t.OnConsumed(p)
	}
}

// OnConsumed counts a consumed token toward its goal
// Generator hits count but the generator stays tracked until its goal is done
func (t *Tracker) OnConsumed(p *event.TokenConsumedPayload) {
	left, ok := t.remaining[p.TypeID]
	if !ok || left <= 0 {
		return
	}

	left--
	t.remaining[p.TypeID] = left
	if !p.Generator {
		t.untrack(p)
	} else if left == 0 {
		t.tokens[p.TypeID] = mapset.New[*board.Token]()
	}

	t.log.Debug().Int("type", p.TypeID).Int("remaining", left).Msg("goal progress")
	t.emit(event.EventGoalUpdated, &event.GoalPayload{TypeID: p.TypeID, Remaining: left})

	if left == 0 && !t.completed && t.allDone() {
		t.completed = true
		t.log.Info().Int("moves_left", t.moves).Msg("level completed")
		t.emit(event.EventLevelCompleted, nil)
	}
}

// UseMove spends one move; returns false when none were left
func (t *Tracker) UseMove() bool {
	if t.moves <= 0 {
		return false
	}
	t.moves--
	if t.moves == 0 && !t.completed && !t.exhausted {
		t.exhausted = true
		t.emit(event.EventOutOfMoves, nil)
	}
	return true
}

func (t *Tracker) Moves() int { return t.moves }

// Remaining returns the amount left for a goal type, 0 for unknown types
func (t *Tracker) Remaining(typeID int) int {
	return t.remaining[typeID]
}

// Goals returns the current goal amounts in level order
func (t *Tracker) Goals() []level.Goal {
	out := make([]level.Goal, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, level.Goal{TypeID: id, Amount: t.remaining[id]})
	}
	return out
}

// Positions returns the current cells of the tracked tokens of a goal type in row-major order
func (t *Tracker) Positions(typeID int) []board.Point {
	set, ok := t.tokens[typeID]
	if !ok {
		return nil
	}
	var out []board.Point
	set.Each(func(tok *board.Token) {
		if tok.TypeID == typeID && t.onBoard(tok) {
			out = append(out, tok.Cell)
		}
	})
	slices.SortFunc(out, func(a, b board.Point) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
	return out
}

// Target picks a tracked cell of the first unfinished goal with one on the board
// intn draws the index among that goal's cells
func (t *Tracker) Target(intn func(n int) int) (board.Point, bool) {
	for _, id := range t.order {
		if t.Remaining(id) == 0 {
			continue
		}
		if cells := t.Positions(id); len(cells) > 0 {
			return cells[intn(len(cells))], true
		}
	}
	return board.Point{}, false
}

// untrack drops the consumed token, matching by cell when the payload carries no identity
func (t *Tracker) untrack(p *event.TokenConsumedPayload) {
	set := t.tokens[p.TypeID]
	if p.Token != nil {
		set.Remove(p.Token)
		return
	}
	var found *board.Token
	set.Each(func(tok *board.Token) {
		if found == nil && tok.Cell == p.Pos {
			found = tok
		}
	})
	if found != nil {
		set.Remove(found)
	}
}

// onBoard reports whether tok still sits in one of the layers of its cell
// Consumed tokens linger in the set until their event is dispatched, and the
// pool may already have handed them out again
func (t *Tracker) onBoard(tok *board.Token) bool {
	if t.board == nil {
		return true
	}
	c := t.board.Cell(tok.Cell)
	return c != nil && (c.Token() == tok || c.Underlay() == tok || c.Overlay() == tok)
}

// Completed reports whether every goal reached zero
func (t *Tracker) Completed() bool {
	return t.completed || t.allDone()
}

// OutOfMoves reports whether the budget is spent
func (t *Tracker) OutOfMoves() bool {
	return t.moves <= 0
}

// allDone is false for goal-free levels, which only end on moves
func (t *Tracker) allDone() bool {
	if len(t.order) == 0 {
		return false
	}
	for _, id := range t.order {
		if t.remaining[id] > 0 {
			return false
		}
	}
	return true
}

func (t *Tracker) emit(typ event.EventType, payload any) {
	if t.events != nil {
		t.events.Emit(typ, payload)
	}
}
