package level

import (
	"github.com/lixenwraith/match3/board"
	"github.com/lixenwraith/match3/parameter"
)

// Build materializes the level into a board using tokens from pool
// Returns the board and its spawn cells: explicit spawner cells, or else the
// top playable cell of every column
func Build(d *Data, pool board.Pool) (*board.Board, []board.Point, error) {
	if err := d.Validate(); err != nil {
		return nil, nil, err
	}

	b := board.New(d.Width, d.Height)
	b.SpriteID = d.SpriteID

	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			p := board.Point{X: x, Y: y}
			c := b.Cell(p)
			c.Type = d.CellType(p)
			if id := d.Primary[y*d.Width+x]; id != parameter.EmptyType && c.Playable() {
				b.Place(p, pool.Get(id))
			}
		}
	}
	for _, pl := range d.Underlay {
		b.Cell(pl.Point()).SetUnderlay(pool.Get(pl.TypeID))
	}
	for _, pl := range d.Overlay {
		b.Cell(pl.Point()).SetOverlay(pool.Get(pl.TypeID))
	}

	return b, SpawnCells(b), nil
}

// SpawnCells returns the refill cells of b
func SpawnCells(b *board.Board) []board.Point {
	var cells []board.Point
	b.Each(func(c *board.Cell) {
		if c.Type == board.CellSpawner {
			cells = append(cells, c.Pos)
		}
	})
	if len(cells) > 0 {
		return cells
	}

	for x := 0; x < b.Width; x++ {
		for y := b.Height - 1; y >= 0; y-- {
			p := board.Point{X: x, Y: y}
			if b.Cell(p).Playable() {
				cells = append(cells, p)
				break
			}
		}
	}
	return cells
}

// Snapshot captures the current board as level data
// Level-wide fields (fill types, goals, moves) are left to the caller
func Snapshot(b *board.Board) *Data {
	d := &Data{
		SpriteID:  b.SpriteID,
		Width:     b.Width,
		Height:    b.Height,
		Primary:   b.TypeGrid(parameter.EmptyType),
		CellTypes: make([]int, b.Width*b.Height),
	}
	b.Each(func(c *board.Cell) {
		d.CellTypes[c.Pos.Y*b.Width+c.Pos.X] = int(c.Type)
		if u := c.Underlay(); u != nil {
			d.Underlay = append(d.Underlay, Placement{X: c.Pos.X, Y: c.Pos.Y, TypeID: u.TypeID})
		}
		if o := c.Overlay(); o != nil {
			d.Overlay = append(d.Overlay, Placement{X: c.Pos.X, Y: c.Pos.Y, TypeID: o.TypeID})
		}
	})
	return d
}
