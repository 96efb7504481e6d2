package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/match3/board"
	"github.com/lixenwraith/match3/level"
	"github.com/lixenwraith/match3/parameter"
)

// ErrGenerationExhausted is returned when no acceptable board was found within the attempt budget
var ErrGenerationExhausted = errors.New("board generation exhausted")

// LayerConfig requests Count tokens drawn from Types at unique random cells
type LayerConfig struct {
	Types []int
	Count int
}

type Config struct {
	Width, Height int

	// Types are the piece type ids of the primary layer; at least three
	// keep rejection sampling productive
	Types []int

	Underlay LayerConfig
	Overlay  LayerConfig

	// GoalTypes become level goals; amounts are the number placed, or
	// parameter.DefaultPieceGoal for types not placed by a layer
	GoalTypes []int
	Moves     int // Optional (0 = parameter.DefaultMoveCount)
	SpriteID  int

	Seed        int64 // Optional (0 = Random)
	MaxAttempts int   // Optional (0 = parameter.GenerateMaxAttempts)
	MaxDraws    int   // Optional (0 = parameter.GenerateMaxDraws)

	Log zerolog.Logger
}

// Generate synthesizes a board with no pre-existing match and at least one
// matchable swap, then scatters the layer tokens
func Generate(cfg Config) (*level.Data, error) {
	// 1. Defaults
	if cfg.Width <= 0 {
		cfg.Width = parameter.DefaultBoardWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = parameter.DefaultBoardHeight
	}
	if len(cfg.Types) == 0 {
		for id := 0; id < parameter.PieceTypeCount; id++ {
			cfg.Types = append(cfg.Types, id)
		}
	}
	if cfg.Moves <= 0 {
		cfg.Moves = parameter.DefaultMoveCount
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = parameter.GenerateMaxAttempts
	}
	if cfg.MaxDraws <= 0 {
		cfg.MaxDraws = parameter.GenerateMaxDraws
	}

	// 2. RNG Setup
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))

	log := cfg.Log.With().Str("component", "generator").Int64("seed", seed).Logger()

	// 3. Generate and verify, restarting from scratch on failure
	grid := make([]int, cfg.Width*cfg.Height)
	accepted := false
	attempt := 0
	for ; attempt < cfg.MaxAttempts; attempt++ {
		if !FillNoMatches(grid, cfg.Width, cfg.Height, cfg.Types, rng, cfg.MaxDraws) {
			continue
		}
		if HasMatchableSwap(grid, cfg.Width, cfg.Height) {
			accepted = true
			break
		}
	}
	if !accepted {
		log.Error().Int("attempts", cfg.MaxAttempts).Msg("generation exhausted")
		return nil, fmt.Errorf("%w: %dx%d with %d types after %d attempts",
			ErrGenerationExhausted, cfg.Width, cfg.Height, len(cfg.Types), cfg.MaxAttempts)
	}

	// 4. Layers
	underlay := PlaceLayer(cfg.Width, cfg.Height, cfg.Underlay, rng, log)
	overlay := PlaceLayer(cfg.Width, cfg.Height, cfg.Overlay, rng, log)

	d := &level.Data{
		ID:        uuid.NewString(),
		SpriteID:  cfg.SpriteID,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Seed:      seed,
		Primary:   grid,
		Underlay:  underlay,
		Overlay:   overlay,
		FillTypes: append([]int(nil), cfg.Types...),
		Goals:     goals(cfg.GoalTypes, underlay, overlay),
		Moves:     cfg.Moves,
	}

	log.Debug().Int("attempts", attempt+1).Int("underlay", len(underlay)).Int("overlay", len(overlay)).Msg("board generated")
	return d, nil
}

// FillNoMatches fills grid row-major, re-drawing any type that would complete
// a 2x2 block or a 3-run with cells already placed
// Returns false when a cell exhausts maxDraws
func FillNoMatches(grid []int, width, height int, types []int, rng *rand.Rand, maxDraws int) bool {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			placed := false
			for draw := 0; draw < maxDraws; draw++ {
				grid[i] = types[rng.IntN(len(types))]
				if !closesShape(grid, width, x, y) {
					placed = true
					break
				}
			}
			if !placed {
				return false
			}
		}
	}
	return true
}

// closesShape checks the cell at (x,y) against its left and lower neighbours
func closesShape(grid []int, width, x, y int) bool {
	v := grid[y*width+x]
	at := func(x, y int) int { return grid[y*width+x] }

	if x >= 1 && y >= 1 && at(x-1, y) == v && at(x, y-1) == v && at(x-1, y-1) == v {
		return true
	}
	if x >= 2 && at(x-1, y) == v && at(x-2, y) == v {
		return true
	}
	if y >= 2 && at(x, y-1) == v && at(x, y-2) == v {
		return true
	}
	return false
}

// HasMatchableSwap reports whether swapping some cell with a neighbour creates a 3-run
// The grid is restored after every probe
func HasMatchableSwap(grid []int, width, height int) bool {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := board.Point{X: x, Y: y}
			for _, n := range p.Neighbors() {
				if n.X < 0 || n.X >= width || n.Y < 0 || n.Y >= height {
					continue
				}
				a, b := y*width+x, n.Y*width+n.X
				if grid[a] == parameter.EmptyType || grid[b] == parameter.EmptyType || grid[a] == grid[b] {
					continue
				}

				grid[a], grid[b] = grid[b], grid[a]
				found := HasTriplet(grid, width, height, x, y) || HasTriplet(grid, width, height, n.X, n.Y)
				grid[a], grid[b] = grid[b], grid[a]

				if found {
					return true
				}
			}
		}
	}
	return false
}

// HasTriplet reports whether the cell at (x,y) is part of a 3-run on either axis,
// including runs centred on it
func HasTriplet(grid []int, width, height, x, y int) bool {
	v := grid[y*width+x]
	if v == parameter.EmptyType {
		return false
	}
	same := func(x, y int) bool {
		return x >= 0 && x < width && y >= 0 && y < height && grid[y*width+x] == v
	}

	run := 1
	for i := x - 1; same(i, y); i-- {
		run++
	}
	for i := x + 1; same(i, y); i++ {
		run++
	}
	if run >= 3 {
		return true
	}

	run = 1
	for j := y - 1; same(x, j); j-- {
		run++
	}
	for j := y + 1; same(x, j); j++ {
		run++
	}
	return run >= 3
}

// HasRun reports whether any 3-run exists on the grid
func HasRun(grid []int, width, height int) bool {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if HasTriplet(grid, width, height, x, y) {
				return true
			}
		}
	}
	return false
}

// HasBlock reports whether any 2x2 block of one type exists on the grid
func HasBlock(grid []int, width, height int) bool {
	for y := 0; y+1 < height; y++ {
		for x := 0; x+1 < width; x++ {
			v := grid[y*width+x]
			if v == parameter.EmptyType {
				continue
			}
			if grid[y*width+x+1] == v && grid[(y+1)*width+x] == v && grid[(y+1)*width+x+1] == v {
				return true
			}
		}
	}
	return false
}

// PlaceLayer draws up to cfg.Count tokens at unique random cells
// Duplicate draws spend a shared retry budget; running out yields fewer tokens, logged
func PlaceLayer(width, height int, cfg LayerConfig, rng *rand.Rand, log zerolog.Logger) []level.Placement {
	if cfg.Count <= 0 || len(cfg.Types) == 0 {
		return nil
	}

	used := mapset.New[board.Point]()
	out := make([]level.Placement, 0, cfg.Count)
	tries := parameter.PlacementTries
	for len(out) < cfg.Count {
		p := board.Point{X: rng.IntN(width), Y: rng.IntN(height)}
		if used.Has(p) {
			tries--
			if tries <= 0 {
				break
			}
			continue
		}
		used.Put(p)
		out = append(out, level.Placement{X: p.X, Y: p.Y, TypeID: cfg.Types[rng.IntN(len(cfg.Types))]})
	}

	if len(out) < cfg.Count {
		log.Warn().Int("requested", cfg.Count).Int("placed", len(out)).Msg("layer placement short")
	}
	return out
}

func goals(types []int, layers ...[]level.Placement) []level.Goal {
	if len(types) == 0 {
		return nil
	}
	counts := make(map[int]int)
	for _, layer := range layers {
		for _, pl := range layer {
			counts[pl.TypeID]++
		}
	}

	out := make([]level.Goal, 0, len(types))
	for _, id := range types {
		n := counts[id]
		if n == 0 {
			n = parameter.DefaultPieceGoal
		}
		out = append(out, level.Goal{TypeID: id, Amount: n})
	}
	return out
}
