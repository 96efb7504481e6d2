package resolve

import (
	"github.com/rs/zerolog"

	"github.com/lixenwraith/match3/board"
	"github.com/lixenwraith/match3/event"
	"github.com/lixenwraith/match3/match"
	"github.com/lixenwraith/match3/parameter"
	"github.com/lixenwraith/match3/vmath"
)

// Spawner places requested tokens and tracks columns needing settling
// Implemented by spawn.Synthesizer
type Spawner interface {
	RequestSpawn(p board.Point, typeID int) bool
	MarkDirty(column int)
}

var (
	convergeStep      = vmath.FromFloat(parameter.ConvergeStep)
	convergeTolerance = vmath.FromFloat(parameter.ConvergeTolerance)
)

// Resolver owns the pending match queue and turns matches into board mutations
// Normal matches resolve in the tick they are handled; special kinds converge
// onto their target over several ticks before spawning a booster
type Resolver struct {
	board   *board.Board
	pool    board.Pool
	spawner Spawner
	events  *event.EventQueue
	log     zerolog.Logger

	pending []*match.Data
	frame   []*match.Data // Snapshot reused across ticks
	closed  bool
}

// NewResolver creates a resolver; events may be nil
func NewResolver(b *board.Board, pool board.Pool, spawner Spawner, events *event.EventQueue, log zerolog.Logger) *Resolver {
	return &Resolver{
		board:   b,
		pool:    pool,
		spawner: spawner,
		events:  events,
		log:     log.With().Str("component", "resolver").Logger(),
	}
}

// Enqueue adds a match to the pending queue
// Rejected and logged once the resolver is closed
func (r *Resolver) Enqueue(d *match.Data) {
	if r.closed {
		r.log.Warn().Stringer("kind", d.Kind).Msg("match rejected, resolver closed")
		return
	}
	if len(d.Positions) == 0 {
		r.log.Warn().Stringer("kind", d.Kind).Msg("match without positions dropped")
		return
	}
	r.pending = append(r.pending, d)
}

// Pending returns the number of matches not yet completed
func (r *Resolver) Pending() int {
	return len(r.pending)
}

// HandleMatches advances every pending match once
// Returns true while matches remain pending
func (r *Resolver) HandleMatches() bool {
	if r.closed {
		r.log.Warn().Msg("handle skipped, resolver closed")
		return false
	}

	r.frame = append(r.frame[:0], r.pending...)
	for _, d := range r.frame {
		if r.advance(d) {
			r.remove(d)
		}
	}
	clear(r.frame)
	r.frame = r.frame[:0]
	return len(r.pending) > 0
}

// Close drops pending matches and rejects further work
func (r *Resolver) Close() {
	r.closed = true
	r.pending = nil
	r.frame = nil
}

// advance runs one step of a match, returning true when it completed
func (r *Resolver) advance(d *match.Data) bool {
	switch {
	case d.Kind == match.None:
		return true
	case d.Kind == match.Normal:
		r.resolveImmediate(d)
		return true
	default:
		return r.converge(d)
	}
}

// remove deletes d from pending by identity
func (r *Resolver) remove(d *match.Data) {
	for i, p := range r.pending {
		if p == d {
			last := len(r.pending) - 1
			copy(r.pending[i:], r.pending[i+1:])
			r.pending[last] = nil
			r.pending = r.pending[:last]
			return
		}
	}
}

// live returns the token at p if it is still part of a pending match
func (r *Resolver) live(p board.Point) *board.Token {
	t := r.board.Token(p)
	if t == nil || !t.Matching() {
		return nil
	}
	return t
}

func (r *Resolver) resolveImmediate(d *match.Data) {
	for _, p := range d.Positions {
		if r.live(p) == nil {
			continue
		}
		r.explodeNeighbors(p, len(d.Positions))
		r.consume(p, event.ConsumeMatched, len(d.Positions))
	}
	r.complete(d)
}

// converge moves live tokens toward the target; returns true once merged and resolved
func (r *Resolver) converge(d *match.Data) bool {
	if !d.Initialized() {
		for _, p := range d.Positions {
			t := r.board.Token(p)
			if t == nil {
				continue
			}
			t.Set(board.FlagMatching | board.FlagConverging)
			t.Clear(board.FlagActive)
		}
		d.MarkInitialized()
	}

	target := d.Target().Vec()
	merged := true
	for _, p := range d.Positions {
		t := r.live(p)
		if t == nil {
			continue
		}
		t.Pos = vmath.V2MoveTowards(t.Pos, target, convergeStep)
		if !vmath.V2Within(t.Pos, target, convergeTolerance) {
			merged = false
		}
	}
	if !merged {
		return false
	}

	for _, p := range d.Positions {
		if r.live(p) == nil {
			continue
		}
		r.explodeNeighbors(p, len(d.Positions))
		r.consume(p, event.ConsumeRemoved, len(d.Positions))
	}

	typeID := d.Kind.TokenType()
	if r.spawner != nil {
		r.spawner.RequestSpawn(d.Target(), typeID)
	}
	r.emit(event.EventSpawnSpecial, &event.PlaceTokenPayload{Pos: d.Target(), TypeID: typeID})
	r.complete(d)
	return true
}

func (r *Resolver) complete(d *match.Data) {
	r.log.Debug().
		Stringer("kind", d.Kind).
		Int("type", d.TypeID).
		Int("x", d.Target().X).Int("y", d.Target().Y).
		Int("count", len(d.Positions)).
		Msg("match completed")

	r.emit(event.EventMatchCompleted, &event.MatchCompletedPayload{
		Target: d.Target(),
		Kind:   int(d.Kind),
		TypeID: d.TypeID,
		Count:  len(d.Positions),
	})
}

// explodeNeighbors hits the four orthogonal neighbours eligible for adjacency explosions
func (r *Resolver) explodeNeighbors(p board.Point, shapeSize int) {
	for _, n := range p.Neighbors() {
		c := r.board.Cell(n)
		if c == nil {
			continue
		}
		t := c.Token()
		if t != nil && (t.Exploding() || t.Matching()) {
			continue
		}
		if !c.HasOverlay() && (t == nil || !t.Has(board.FlagExplodeByAdjacency)) {
			continue
		}
		r.explode(c, shapeSize)
	}
}

// Hit explodes the single cell at p regardless of adjacency flags
// Returns false when there was nothing to hit or the token is busy
func (r *Resolver) Hit(p board.Point) bool {
	c := r.board.Cell(p)
	if r.closed || c == nil || c.Locked() {
		return false
	}
	if t := c.Token(); !c.HasOverlay() && (t == nil || t.Busy()) {
		return false
	}
	r.explode(c, 1)
	return true
}

// explode applies one explosion hit to c
// An overlay absorbs the hit and shields the token beneath
func (r *Resolver) explode(c *board.Cell, shapeSize int) {
	if c.HasOverlay() {
		r.consumeOverlay(c, event.ConsumeExploded, shapeSize)
		return
	}

	t := c.Token()
	// Generators emit a hit but stay on the board
	if t.Has(board.FlagGenerator) {
		r.emit(event.EventTokenConsumed, &event.TokenConsumedPayload{
			Pos:       c.Pos,
			Anchor:    t.Pos,
			TypeID:    t.TypeID,
			ShapeSize: shapeSize,
			Reason:    event.ConsumeExploded,
			Generator: true,
			Token:     t,
		})
		return
	}

	t.Set(board.FlagExploding)
	r.consume(c.Pos, event.ConsumeExploded, shapeSize)
}

// consume removes the token at p, reports it and returns it to the pool
// Layers go top down: overlay, primary, then the underlay for matches
func (r *Resolver) consume(p board.Point, reason event.ConsumeReason, shapeSize int) {
	c := r.board.Cell(p)
	r.consumeOverlay(c, reason, shapeSize)

	t := c.TakeToken()
	if t == nil {
		return
	}
	r.release(p, t, reason, shapeSize)
	if r.spawner != nil {
		r.spawner.MarkDirty(p.X)
	}

	// Explosions only hit the primary layer
	if reason != event.ConsumeExploded && c.HasUnderlay() {
		u := c.Underlay()
		c.SetUnderlay(nil)
		r.release(p, u, reason, shapeSize)
	}
}

// consumeOverlay strips the overlay of c, if any
func (r *Resolver) consumeOverlay(c *board.Cell, reason event.ConsumeReason, shapeSize int) {
	o := c.Overlay()
	if o == nil {
		return
	}
	c.SetOverlay(nil)
	r.release(c.Pos, o, reason, shapeSize)
}

// release reports a token that left the board and returns it to the pool
func (r *Resolver) release(p board.Point, t *board.Token, reason event.ConsumeReason, shapeSize int) {
	r.emit(event.EventTokenConsumed, &event.TokenConsumedPayload{
		Pos:       p,
		Anchor:    t.Pos,
		TypeID:    t.TypeID,
		ShapeSize: shapeSize,
		Reason:    reason,
		Token:     t,
	})
	if r.pool != nil {
		r.pool.Put(t)
	}
}

func (r *Resolver) emit(t event.EventType, payload any) {
	if r.events != nil {
		r.events.Emit(t, payload)
	}
}
