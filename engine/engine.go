package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/match3/board"
	"github.com/lixenwraith/match3/event"
	"github.com/lixenwraith/match3/generator"
	"github.com/lixenwraith/match3/goal"
	"github.com/lixenwraith/match3/level"
	"github.com/lixenwraith/match3/match"
	"github.com/lixenwraith/match3/parameter"
	"github.com/lixenwraith/match3/resolve"
	"github.com/lixenwraith/match3/spawn"
	"github.com/lixenwraith/match3/status"
	"github.com/lixenwraith/match3/vmath"
)

var (
	// ErrInvalidSwap is returned for swaps the board cannot perform
	ErrInvalidSwap = errors.New("invalid swap")
	// ErrShuffleExhausted is returned when no playable arrangement was found
	ErrShuffleExhausted = errors.New("shuffle exhausted")
	// ErrInvalidHit is returned when a single-cell hit has nothing to explode
	ErrInvalidHit = errors.New("invalid hit")
)

var fallStep = vmath.FromFloat(parameter.FallStep)

// Config configures an engine for one level
type Config struct {
	Level   *level.Data
	Catalog *board.Catalog   // Optional (nil = board.DefaultCatalog)
	Seed    int64            // Optional (0 = Random), drives refills and shuffles
	Stats   *status.Counters // Optional (nil = private counters)
	Log     zerolog.Logger
}

// swap is a player swap waiting for both tokens to arrive
type swap struct {
	a, b      board.Point
	first     *board.Token // Token moved from a to b
	second    *board.Token // Token moved from b to a
	reverting bool
}

// Engine runs the match pipeline of one level on a fixed tick
// Methods are not safe for concurrent use; wrap calls in RunSafe while a
// ClockScheduler is running
type Engine struct {
	mu sync.Mutex

	board    *board.Board
	pool     *board.TokenPool
	events   *event.EventQueue
	router   *event.Router[*Engine]
	detector *match.Detector
	resolver *resolve.Resolver
	spawner  *spawn.Synthesizer
	goals    *goal.Tracker
	stats    *status.Counters
	rng      *rand.Rand
	log      zerolog.Logger

	level   *level.Data
	limited bool // Move budget enforced

	tick   uint64
	swaps  []*swap
	active bool // Board changed since the last move check
	closed bool
}

// New builds the board of cfg.Level and wires the pipeline
func New(cfg Config) (*Engine, error) {
	if cfg.Level == nil {
		return nil, fmt.Errorf("%w: no level", level.ErrInvalidLevel)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))

	pool := board.NewTokenPool(cfg.Catalog)
	b, spawnCells, err := level.Build(cfg.Level, pool)
	if err != nil {
		return nil, fmt.Errorf("build level: %w", err)
	}

	log := cfg.Log.With().Str("level", cfg.Level.ID).Logger()
	events := event.NewEventQueue()

	e := &Engine{
		board:   b,
		pool:    pool,
		events:  events,
		router:  event.NewRouter[*Engine](events),
		stats:   cfg.Stats,
		rng:     rng,
		log:     log.With().Str("component", "engine").Logger(),
		level:   cfg.Level,
		limited: cfg.Level.Moves > 0,
		active:  true,
	}

	if e.stats == nil {
		e.stats = status.NewCounters()
	}

	e.spawner = spawn.NewSynthesizer(b, pool, spawn.Config{
		FillTypes:  cfg.Level.FillTypes,
		SpawnCells: spawnCells,
		Rand:       rng,
	}, events, log)
	e.resolver = resolve.NewResolver(b, pool, e.spawner, events, log)
	e.detector = match.NewDetector(b, e.resolver, events, log)

	e.goals = goal.NewTracker(cfg.Level.Goals, cfg.Level.Moves, events, log)
	e.goals.InitFromBoard(b)
	var explicit []level.Goal
	for _, g := range cfg.Level.Goals {
		if g.Amount > 0 {
			explicit = append(explicit, g)
		}
	}
	e.goals.SetAmounts(explicit)

	e.registerHandlers()

	// Loaded boards may carry matches and holes; every token is a first-tick
	// candidate and every column settles once
	b.Each(func(c *board.Cell) {
		if c.HasToken() {
			e.detector.Add(c.Pos)
		}
	})
	for x := 0; x < b.Width; x++ {
		e.spawner.MarkDirty(x)
	}

	e.log.Info().
		Int("width", b.Width).
		Int("height", b.Height).
		Int("spawn_cells", len(spawnCells)).
		Int("moves", cfg.Level.Moves).
		Int64("seed", seed).
		Msg("engine ready")

	return e, nil
}

func (e *Engine) registerHandlers() {
	e.router.Register(event.HandlerFunc[*Engine]{
		Types: []event.EventType{event.EventMovementSettled},
		Fn: func(e *Engine, ev event.GameEvent) {
			if p, ok := ev.Payload.(board.Point); ok {
				e.detector.Add(p)
			}
		},
	})
	e.router.Register(event.HandlerFunc[*Engine]{
		Types: []event.EventType{event.EventPlaceToken},
		Fn: func(e *Engine, ev event.GameEvent) {
			if p, ok := ev.Payload.(*event.PlaceTokenPayload); ok {
				e.spawner.RequestSpawn(p.Pos, p.TypeID)
			}
		},
	})
	e.router.Register(event.HandlerFunc[*Engine]{
		Types: []event.EventType{event.EventTokenConsumed},
		Fn: func(e *Engine, ev event.GameEvent) {
			e.goals.HandleEvent(ev)
		},
	})
	e.router.Register(event.HandlerFunc[*Engine]{
		Types: []event.EventType{
			event.EventMatchCompleted,
			event.EventTokenConsumed,
			event.EventSwapRejected,
			event.EventBoardShuffled,
		},
		Fn: (*Engine).count,
	})
}

// count feeds outcome events into the stats counters
func (e *Engine) count(ev event.GameEvent) {
	switch ev.Type {
	case event.EventMatchCompleted:
		e.stats.Inc(status.Matches)
		if p, ok := ev.Payload.(*event.MatchCompletedPayload); ok && match.Kind(p.Kind).Special() {
			e.stats.Inc(status.SpecialMatches)
		}
	case event.EventTokenConsumed:
		e.stats.Inc(status.Consumed)
		if p, ok := ev.Payload.(*event.TokenConsumedPayload); ok && p.Reason == event.ConsumeExploded {
			e.stats.Inc(status.Exploded)
		}
	case event.EventSwapRejected:
		e.stats.Inc(status.SwapsRejected)
	case event.EventBoardShuffled:
		e.stats.Inc(status.Shuffles)
	}
}

// Register adds an observer; handlers run during the dispatch step of Tick
func (e *Engine) Register(h event.Handler[*Engine]) {
	e.router.Register(h)
}

// RunSafe runs fn while holding the engine lock
func (e *Engine) RunSafe(fn func(e *Engine)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e)
}

// Board returns the live board; read it under RunSafe while the scheduler runs
func (e *Engine) Board() *board.Board {
	return e.board
}

func (e *Engine) Events() *event.EventQueue {
	return e.events
}

func (e *Engine) Goals() *goal.Tracker {
	return e.goals
}

func (e *Engine) Level() *level.Data {
	return e.level
}

func (e *Engine) TickCount() uint64 {
	return e.tick
}

func (e *Engine) Detector() *match.Detector {
	return e.detector
}

func (e *Engine) Resolver() *resolve.Resolver {
	return e.resolver
}

// Stats returns the outcome counters; safe to read without RunSafe
func (e *Engine) Stats() *status.Counters {
	return e.stats
}

// Tick advances the pipeline by one step
func (e *Engine) Tick() {
	if e.closed {
		return
	}
	e.tick++
	e.events.SetTick(e.tick)
	e.stats.Inc(status.Ticks)

	// 1. Events published during the previous tick
	dispatched := e.router.DispatchAll(e)

	// 2. Motion
	moved := e.stepMotion()

	// 3. Detection
	found := e.detector.CheckForMatches()

	// 4. Resolution
	resolving := e.resolver.HandleMatches()

	// 5. Booster placement
	placed := e.spawner.HandleBoosterSpawn()

	// 6. Column settling
	settled := e.settle(e.spawner.DrainDirty())

	// 7. Refill
	filled := e.spawner.HandleFillSpawn()

	// 8. Swap-back
	swapping := e.checkSwaps()

	if dispatched > 0 || moved || found || resolving || placed || settled || filled || swapping {
		e.active = true
	}

	// 9. Deadlock
	e.checkMoves()
}

// Idle reports whether nothing is moving, matching or pending
func (e *Engine) Idle() bool {
	return len(e.swaps) == 0 &&
		e.detector.Pending() == 0 &&
		e.resolver.Pending() == 0 &&
		e.spawner.PendingRequests() == 0 &&
		e.events.Len() == 0 &&
		e.Moving() == 0
}

// Moving returns the number of tokens still travelling to their cell
func (e *Engine) Moving() int {
	n := 0
	e.board.Each(func(c *board.Cell) {
		if t := c.Token(); t != nil && t.Moving() {
			n++
		}
	})
	return n
}

// stepMotion advances every moving token toward its cell
// Arrivals clear the moving and filling state and publish MovementSettled
func (e *Engine) stepMotion() bool {
	moving := 0
	arrived := false
	e.board.Each(func(c *board.Cell) {
		t := c.Token()
		if t == nil || !t.Moving() {
			return
		}
		target := t.Target.Vec()
		t.Pos = vmath.V2MoveTowards(t.Pos, target, fallStep)
		if t.Pos != target {
			moving++
			return
		}
		t.Clear(board.FlagMoving)
		c.SetFilling(false)
		e.events.Emit(event.EventMovementSettled, c.Pos)
		arrived = true
	})
	return moving > 0 || arrived
}

// settle compacts each column toward y=0
// Blank cells, locked cells and tokens that cannot fall split a column into
// independent segments
func (e *Engine) settle(columns []int) bool {
	moved := false
	for _, x := range columns {
		free := -1
		for y := 0; y < e.board.Height; y++ {
			p := board.Point{X: x, Y: y}
			c := e.board.Cell(p)
			if !c.Playable() || c.Locked() {
				free = -1
				continue
			}
			t := c.Token()
			if t == nil {
				if free < 0 {
					free = y
				}
				continue
			}
			if !falls(t) {
				free = -1
				continue
			}
			if free < 0 {
				continue
			}

			dst := e.board.Cell(board.Point{X: x, Y: free})
			c.TakeToken()
			c.SetFilling(false)
			dst.SetToken(t)
			dst.SetFilling(true)
			t.Target = dst.Pos
			t.Set(board.FlagMoving)
			free++
			moved = true
		}
	}
	return moved
}

func falls(t *board.Token) bool {
	return t.Has(board.FlagShuffleable) && !t.Matching() && !t.Exploding()
}

// Swap exchanges two adjacent tokens
// When neither cell produces a match once both arrive, the tokens swap back
func (e *Engine) Swap(a, b board.Point) error {
	switch {
	case e.closed:
		return fmt.Errorf("%w: engine closed", ErrInvalidSwap)
	case e.goals.Completed():
		return fmt.Errorf("%w: level completed", ErrInvalidSwap)
	case e.limited && e.goals.OutOfMoves():
		return fmt.Errorf("%w: out of moves", ErrInvalidSwap)
	case !a.Adjacent(b):
		return fmt.Errorf("%w: %v and %v are not adjacent", ErrInvalidSwap, a, b)
	}

	ca, cb := e.board.Cell(a), e.board.Cell(b)
	if ca == nil || cb == nil {
		return fmt.Errorf("%w: %v or %v out of bounds", ErrInvalidSwap, a, b)
	}
	if !swappable(ca) || !swappable(cb) {
		return fmt.Errorf("%w: %v or %v not swappable", ErrInvalidSwap, a, b)
	}
	for _, s := range e.swaps {
		if s.a == a || s.a == b || s.b == a || s.b == b {
			return fmt.Errorf("%w: swap in progress", ErrInvalidSwap)
		}
	}

	ta, tb := ca.Token(), cb.Token()
	e.exchange(ca, cb)
	e.swaps = append(e.swaps, &swap{a: a, b: b, first: ta, second: tb})
	e.active = true
	e.stats.Inc(status.Swaps)

	e.log.Debug().Int("ax", a.X).Int("ay", a.Y).Int("bx", b.X).Int("by", b.Y).Msg("swap")
	return nil
}

func swappable(c *board.Cell) bool {
	t := c.Token()
	return t != nil && !c.Locked() && !c.Transient() && !t.Busy() && t.Has(board.FlagShuffleable)
}

// exchange swaps the tokens of two cells and starts them moving
func (e *Engine) exchange(ca, cb *board.Cell) {
	ta, tb := ca.TakeToken(), cb.TakeToken()
	ca.SetToken(tb)
	cb.SetToken(ta)
	for _, t := range []*board.Token{ta, tb} {
		t.Target = t.Cell
		t.Set(board.FlagMoving)
	}
}

// checkSwaps settles swaps whose tokens both arrived
// A swap that produced no match at either cell is reverted once
func (e *Engine) checkSwaps() bool {
	if len(e.swaps) == 0 {
		return false
	}

	kept := e.swaps[:0]
	for _, s := range e.swaps {
		if s.first.Moving() || s.second.Moving() {
			kept = append(kept, s)
			continue
		}
		if s.reverting {
			continue
		}

		if e.matched(s) {
			if e.limited {
				e.goals.UseMove()
			}
			continue
		}

		e.exchange(e.board.Cell(s.a), e.board.Cell(s.b))
		s.reverting = true
		kept = append(kept, s)
		e.events.Emit(event.EventSwapRejected, &event.SwapPayload{A: s.a, B: s.b})
		e.log.Debug().Int("ax", s.a.X).Int("ay", s.a.Y).Int("bx", s.b.X).Int("by", s.b.Y).Msg("swap rejected")
	}
	clear(e.swaps[len(kept):])
	e.swaps = kept
	return len(e.swaps) > 0
}

// matched reports whether either swapped token joined a match
func (e *Engine) matched(s *swap) bool {
	if e.board.Token(s.b) != s.first || e.board.Token(s.a) != s.second {
		return true
	}
	if s.first.Matching() || s.second.Matching() {
		return true
	}
	_, okA := e.detector.CheckMatch(s.a)
	_, okB := e.detector.CheckMatch(s.b)
	return okA || okB
}

// checkMoves reshuffles an idle board that has no productive swap
func (e *Engine) checkMoves() {
	if !e.active || !e.Idle() {
		return
	}
	e.active = false

	if e.goals.Completed() || (e.limited && e.goals.OutOfMoves()) {
		return
	}
	if e.HasMove() {
		return
	}
	if err := e.Shuffle(); err != nil {
		e.log.Warn().Err(err).Msg("no moves left")
	}
}

// HasMove reports whether some swap of matchable tokens completes a run
func (e *Engine) HasMove() bool {
	return generator.HasMatchableSwap(e.matchGrid(), e.board.Width, e.board.Height)
}

// matchGrid returns the type grid of matchable tokens, everything else empty
func (e *Engine) matchGrid() []int {
	grid := make([]int, e.board.Width*e.board.Height)
	e.board.Each(func(c *board.Cell) {
		i := c.Pos.Y*e.board.Width + c.Pos.X
		grid[i] = parameter.EmptyType
		if t := c.Token(); t != nil && t.Matchable() && t.Has(board.FlagShuffleable) {
			grid[i] = t.TypeID
		}
	})
	return grid
}

// Shuffle rearranges the shuffleable tokens until the board has no match and
// at least one productive swap; on failure the original arrangement is restored
func (e *Engine) Shuffle() error {
	var cells []*board.Cell
	var tokens []*board.Token
	e.board.Each(func(c *board.Cell) {
		t := c.Token()
		if t == nil || c.Locked() || c.Transient() || t.Busy() || !t.Has(board.FlagShuffleable) {
			return
		}
		cells = append(cells, c)
		tokens = append(tokens, t)
	})
	if len(tokens) < 2 {
		return fmt.Errorf("%w: %d shuffleable tokens", ErrShuffleExhausted, len(tokens))
	}

	orig := slices.Clone(tokens)
	w, h := e.board.Width, e.board.Height
	for attempt := 1; attempt <= parameter.ShuffleMaxAttempts; attempt++ {
		e.rng.Shuffle(len(tokens), func(i, j int) {
			tokens[i], tokens[j] = tokens[j], tokens[i]
		})
		for i, c := range cells {
			e.board.Place(c.Pos, tokens[i])
		}

		grid := e.matchGrid()
		if !generator.HasRun(grid, w, h) && !generator.HasBlock(grid, w, h) && generator.HasMatchableSwap(grid, w, h) {
			e.events.Emit(event.EventBoardShuffled, nil)
			e.log.Info().Int("attempts", attempt).Int("tokens", len(tokens)).Msg("board shuffled")
			return nil
		}
	}
	for i, c := range cells {
		e.board.Place(c.Pos, orig[i])
	}
	return fmt.Errorf("%w: %d attempts", ErrShuffleExhausted, parameter.ShuffleMaxAttempts)
}

// Hit explodes the single cell at p without spending a move
// An overlay takes the hit first; generators report the hit and stay
func (e *Engine) Hit(p board.Point) error {
	switch {
	case e.closed:
		return fmt.Errorf("%w: engine closed", ErrInvalidHit)
	case e.goals.Completed():
		return fmt.Errorf("%w: level completed", ErrInvalidHit)
	}
	if !e.resolver.Hit(p) {
		return fmt.Errorf("%w: nothing to hit at %v", ErrInvalidHit, p)
	}
	e.active = true
	e.log.Debug().Int("x", p.X).Int("y", p.Y).Msg("hit")
	return nil
}

// GoalTarget picks a cell for a targeting booster
// Prefers a random token of the first open goal, then the first occupied cell
func (e *Engine) GoalTarget() (board.Point, bool) {
	if p, ok := e.goals.Target(e.rng.IntN); ok {
		return p, true
	}
	for y := 0; y < e.board.Height; y++ {
		for x := 0; x < e.board.Width; x++ {
			p := board.Point{X: x, Y: y}
			if e.board.Token(p) != nil {
				return p, true
			}
		}
	}
	return board.Point{X: -1, Y: -1}, false
}

// SpawnableTargets draws up to n distinct random cells holding a plain,
// idle, uncovered token; fewer are returned when the retry budget runs out
func (e *Engine) SpawnableTargets(n int) []board.Point {
	if n <= 0 {
		return nil
	}
	seen := mapset.New[board.Point]()
	out := make([]board.Point, 0, n)
	for tries := parameter.SpawnableTriesPerTarget * n; tries > 0 && len(out) < n; tries-- {
		p := board.Point{X: e.rng.IntN(e.board.Width), Y: e.rng.IntN(e.board.Height)}
		if seen.Has(p) || !spawnable(e.board.Cell(p)) {
			continue
		}
		seen.Put(p)
		out = append(out, p)
	}
	if len(out) < n {
		e.log.Warn().Int("wanted", n).Int("found", len(out)).Msg("not enough spawnable cells")
	}
	return out
}

func spawnable(c *board.Cell) bool {
	t := c.Token()
	return t != nil && !c.HasOverlay() && !c.Locked() &&
		!t.Busy() && !t.Has(board.FlagBooster) &&
		t.Has(board.FlagShuffleable|board.FlagActive)
}

// PlaceBoosters replaces random spawnable tokens with the given booster types
// Returns the cells placed, in typeIDs order
func (e *Engine) PlaceBoosters(typeIDs []int) []board.Point {
	cells := e.SpawnableTargets(len(typeIDs))
	for i, p := range cells {
		e.PlaceToken(p, typeIDs[i])
	}
	if len(cells) > 0 {
		e.active = true
	}
	return cells
}

// PlaceToken queues a token placement for the next booster spawn step
func (e *Engine) PlaceToken(p board.Point, typeID int) {
	e.events.Emit(event.EventPlaceToken, &event.PlaceTokenPayload{Pos: p, TypeID: typeID})
}

// Snapshot captures the board together with the level-wide fields
func (e *Engine) Snapshot() *level.Data {
	d := level.Snapshot(e.board)
	d.FillTypes = append([]int(nil), e.level.FillTypes...)
	d.Goals = e.goals.Goals()
	d.Moves = e.goals.Moves()
	d.Seed = e.level.Seed
	return d
}

// Close tears down detection and resolution; later work is rejected and logged
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.detector.Close()
	e.resolver.Close()
	e.swaps = nil
	e.log.Info().Uint64("ticks", e.tick).Msg("engine closed")
}
