package match

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/match3/board"
	"github.com/lixenwraith/match3/event"
	"github.com/lixenwraith/match3/parameter"
)

// Sink receives classified matches, implemented by the resolver
type Sink interface {
	Enqueue(d *Data)
}

// scratch holds the per-pass run buffers
// Borrowed for one detection pass and truncated on release
type scratch struct {
	h, v   []board.Point
	he, ve []board.Point
	probe  []board.Point
}

var scratchPool = sync.Pool{
	New: func() any {
		return &scratch{
			h:     make([]board.Point, 0, parameter.RunCapacity),
			v:     make([]board.Point, 0, parameter.RunCapacity),
			he:    make([]board.Point, 0, parameter.RunCapacity),
			ve:    make([]board.Point, 0, parameter.RunCapacity),
			probe: make([]board.Point, 0, parameter.RunCapacity),
		}
	},
}

func borrowScratch() *scratch {
	return scratchPool.Get().(*scratch)
}

func (s *scratch) release() {
	s.h = s.h[:0]
	s.v = s.v[:0]
	s.he = s.he[:0]
	s.ve = s.ve[:0]
	s.probe = s.probe[:0]
	scratchPool.Put(s)
}

// Detector scans candidate cells for match shapes and forwards classified matches
// Reads the board; the only writes are matching flags on consumed tokens
type Detector struct {
	board  *board.Board
	sink   Sink
	events *event.EventQueue
	log    zerolog.Logger

	pending mapset.Set[board.Point]
	queue   []board.Point
	closed  bool
}

// NewDetector creates a detector over b forwarding matches to sink
// events may be nil when no observer needs MatchReady
func NewDetector(b *board.Board, sink Sink, events *event.EventQueue, log zerolog.Logger) *Detector {
	return &Detector{
		board:   b,
		sink:    sink,
		events:  events,
		log:     log.With().Str("component", "detector").Logger(),
		pending: mapset.New[board.Point](),
	}
}

// Add enqueues a candidate cell; duplicates of a queued cell are dropped
func (d *Detector) Add(p board.Point) {
	if d.closed {
		d.log.Warn().Int("x", p.X).Int("y", p.Y).Msg("candidate rejected, detector closed")
		return
	}
	if d.pending.Has(p) {
		return
	}
	d.pending.Put(p)
	d.queue = append(d.queue, p)
}

// Pending returns the number of queued candidates
func (d *Detector) Pending() int {
	return len(d.queue)
}

// CheckForMatches runs detection once for every candidate queued at call time
// Returns true if any candidate produced a match
func (d *Detector) CheckForMatches() bool {
	if d.closed {
		return false
	}
	n := len(d.queue)
	found := false
	for i := 0; i < n; i++ {
		p := d.queue[i]
		d.pending.Remove(p)
		if _, ok := d.CheckMatch(p); ok {
			found = true
		}
	}
	d.queue = append(d.queue[:0], d.queue[n:]...)
	return found
}

// Scan computes the run topology around p without touching the board
// Returns false when p holds no token eligible to trigger a match
func (d *Detector) Scan(p board.Point) (Result, bool) {
	t := d.trigger(p)
	if t == nil {
		return Result{}, false
	}

	s := borrowScratch()
	defer s.release()

	d.scan(s, p, t.TypeID)
	return Result{
		Trigger:       p,
		TypeID:        t.TypeID,
		Horizontal:    append([]board.Point(nil), s.h...),
		Vertical:      append([]board.Point(nil), s.v...),
		HorizontalExt: append([]board.Point(nil), s.he...),
		VerticalExt:   append([]board.Point(nil), s.ve...),
	}, true
}

// CheckMatch detects and classifies the shape at p
// On success every consumed token is flagged matching, the match goes to the
// sink and MatchReady is published; on failure the trigger's flag is cleared
func (d *Detector) CheckMatch(p board.Point) (*Data, bool) {
	t := d.trigger(p)
	if t == nil {
		return nil, false
	}

	s := borrowScratch()
	defer s.release()

	d.scan(s, p, t.TypeID)

	r := Result{
		Trigger:       p,
		TypeID:        t.TypeID,
		Horizontal:    s.h,
		Vertical:      s.v,
		HorizontalExt: s.he,
		VerticalExt:   s.ve,
	}

	t.Set(board.FlagMatching)
	kind := r.Kind()
	if kind == None {
		t.Clear(board.FlagMatching)
		return nil, false
	}

	positions := r.Positions(kind)
	for _, pos := range positions {
		if tok := d.board.Token(pos); tok != nil {
			tok.Set(board.FlagMatching)
		}
	}

	data := &Data{
		Kind:      kind,
		TypeID:    t.TypeID,
		Positions: positions,
	}

	d.log.Debug().
		Stringer("kind", kind).
		Int("type", t.TypeID).
		Int("x", p.X).Int("y", p.Y).
		Int("cells", len(positions)).
		Msg("match")

	if d.sink != nil {
		d.sink.Enqueue(data)
	}
	if d.events != nil {
		d.events.Emit(event.EventMatchReady, &event.MatchReadyPayload{
			Kind:      int(kind),
			TypeID:    t.TypeID,
			Positions: positions,
		})
	}
	return data, true
}

// Close rejects further candidates and drops the queue
func (d *Detector) Close() {
	d.closed = true
	d.queue = nil
	d.pending = mapset.New[board.Point]()
}

// trigger returns the token at p if it may start a match
func (d *Detector) trigger(p board.Point) *board.Token {
	t := d.board.Token(p)
	if t == nil || !t.Matchable() || t.Busy() {
		return nil
	}
	return t
}

// scan fills the scratch runs and arms for a trigger at p
func (d *Detector) scan(s *scratch, p board.Point, typeID int) {
	s.h = d.walk(s.h[:0], p, board.Right, typeID)
	s.v = d.walk(s.v[:0], p, board.Up, typeID)
	s.ve = d.extension(s, s.ve[:0], s.h, board.Up, typeID)
	s.he = d.extension(s, s.he[:0], s.v, board.Right, typeID)
}

// walk appends the walkable cells from p along dir, positive side then negative
func (d *Detector) walk(dst []board.Point, p, dir board.Point, typeID int) []board.Point {
	for _, sign := range [2]int{1, -1} {
		step := dir.Mul(sign)
		for q := p.Add(step); ; q = q.Add(step) {
			c := d.board.Cell(q)
			if c == nil || !walkable(c, typeID) {
				break
			}
			dst = append(dst, q)
		}
	}
	return dst
}

// extension keeps the longest perpendicular run off any member of run
// Ties keep the first found
func (d *Detector) extension(s *scratch, dst, run []board.Point, dir board.Point, typeID int) []board.Point {
	for _, p := range run {
		s.probe = d.walk(s.probe[:0], p, dir, typeID)
		if len(s.probe) > len(dst) {
			dst = append(dst[:0], s.probe...)
		}
	}
	return dst
}

// walkable reports whether the cell's token may join a run of typeID
func walkable(c *board.Cell, typeID int) bool {
	t := c.Token()
	if t == nil || t.TypeID != typeID {
		return false
	}
	if t.Busy() || !t.Matchable() {
		return false
	}
	return !c.Transient() && !c.Locked()
}
