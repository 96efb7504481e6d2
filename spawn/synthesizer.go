package spawn

import (
	"github.com/rs/zerolog"
	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/match3/board"
	"github.com/lixenwraith/match3/event"
)

// IntNSource is the randomness needed for fill draws
// *rand.Rand from math/rand/v2 satisfies it; tests inject fixed sequences
type IntNSource interface {
	IntN(int) int
}

// Config holds the fill parameters of a level
type Config struct {
	// FillTypes are the type ids drawn uniformly for refills
	FillTypes []int
	// SpawnCells are the cells refilled from above when empty
	SpawnCells []board.Point
	Rand       IntNSource
}

type request struct {
	pos    board.Point
	typeID int
}

// Synthesizer refills emptied spawn cells and places requested tokens
// Both duties are idempotent per tick; they are the only writers of new tokens
type Synthesizer struct {
	board  *board.Board
	pool   board.Pool
	events *event.EventQueue
	log    zerolog.Logger
	cfg    Config

	requests  []request
	requested mapset.Set[board.Point]
	dirty     []bool
}

// NewSynthesizer creates a synthesizer over b; events may be nil
func NewSynthesizer(b *board.Board, pool board.Pool, cfg Config, events *event.EventQueue, log zerolog.Logger) *Synthesizer {
	return &Synthesizer{
		board:     b,
		pool:      pool,
		events:    events,
		log:       log.With().Str("component", "spawn").Logger(),
		cfg:       cfg,
		requested: mapset.New[board.Point](),
		dirty:     make([]bool, b.Width),
	}
}

// RequestSpawn queues a token of typeID for placement at p
// A second request for a coordinate already pending in the batch is dropped
func (s *Synthesizer) RequestSpawn(p board.Point, typeID int) bool {
	if !s.board.InBounds(p) {
		s.log.Warn().Int("x", p.X).Int("y", p.Y).Int("type", typeID).Msg("spawn request out of bounds")
		return false
	}
	if s.requested.Has(p) {
		return false
	}
	s.requested.Put(p)
	s.requests = append(s.requests, request{pos: p, typeID: typeID})
	return true
}

// PendingRequests returns the number of queued placements
func (s *Synthesizer) PendingRequests() int {
	return len(s.requests)
}

// HandleBoosterSpawn places every queued request and clears the batch
// Returns true if anything was placed
func (s *Synthesizer) HandleBoosterSpawn() bool {
	if len(s.requests) == 0 {
		return false
	}

	for _, req := range s.requests {
		c := s.board.Cell(req.pos)
		c.Lock()

		if old := c.TakeToken(); old != nil {
			s.pool.Put(old)
		}
		c.SetEmptying(false)
		c.SetFilling(false)
		s.board.Place(req.pos, s.pool.Get(req.typeID))
		s.MarkDirty(req.pos.X)

		c.Unlock()

		s.log.Debug().Int("x", req.pos.X).Int("y", req.pos.Y).Int("type", req.typeID).Msg("token placed")
	}

	clear(s.requests)
	s.requests = s.requests[:0]
	s.requested = mapset.New[board.Point]()
	return true
}

// HandleFillSpawn drops a fresh token into every empty, unlocked spawn cell
// The token starts one row above its cell and moves in
// Returns true if any cell was filled
func (s *Synthesizer) HandleFillSpawn() bool {
	if len(s.cfg.FillTypes) == 0 || s.cfg.Rand == nil {
		return false
	}

	filled := false
	for _, p := range s.cfg.SpawnCells {
		c := s.board.Cell(p)
		if c == nil || c.HasToken() || c.Locked() {
			continue
		}

		typeID := s.cfg.FillTypes[s.cfg.Rand.IntN(len(s.cfg.FillTypes))]
		t := s.pool.Get(typeID)
		c.SetToken(t)
		t.Target = p
		t.Pos = p.Add(board.Up).Vec()
		t.Set(board.FlagMoving)

		c.SetEmptying(false)
		c.SetFilling(true)
		s.MarkDirty(p.X)
		filled = true
	}
	return filled
}

// MarkDirty flags a column for a settling pass
func (s *Synthesizer) MarkDirty(column int) {
	if column < 0 || column >= len(s.dirty) {
		return
	}
	s.dirty[column] = true
}

// DrainDirty returns the dirty columns in order, clears them and publishes ColumnDirty for each
func (s *Synthesizer) DrainDirty() []int {
	var cols []int
	for x, d := range s.dirty {
		if !d {
			continue
		}
		s.dirty[x] = false
		cols = append(cols, x)
		if s.events != nil {
			s.events.Emit(event.EventColumnDirty, &event.ColumnDirtyPayload{Column: x})
		}
	}
	return cols
}

// SpawnCells returns the configured spawn cells
func (s *Synthesizer) SpawnCells() []board.Point {
	return s.cfg.SpawnCells
}
