package board

import "github.com/lixenwraith/match3/vmath"

// Board is the authoritative width x height cell grid
// Cells are a dense 1D array: index = y*Width + x
type Board struct {
	Width    int
	Height   int
	SpriteID int

	cells []Cell
}

// New creates a board of normal, empty cells
func New(width, height int) *Board {
	b := &Board{
		Width:  width,
		Height: height,
		cells:  make([]Cell, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b.cells[y*width+x].Pos = Point{x, y}
		}
	}
	return b
}

// InBounds reports whether p lies on the board
func (b *Board) InBounds(p Point) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// Cell returns the cell at p, nil when out of bounds
func (b *Board) Cell(p Point) *Cell {
	if !b.InBounds(p) {
		return nil
	}
	return &b.cells[p.Y*b.Width+p.X]
}

// Token returns the primary token at p, nil when out of bounds or empty
func (b *Board) Token(p Point) *Token {
	c := b.Cell(p)
	if c == nil {
		return nil
	}
	return c.token
}

// Place puts t into the cell at p and snaps its position onto the cell
// Returns false when p is out of bounds
func (b *Board) Place(p Point, t *Token) bool {
	c := b.Cell(p)
	if c == nil {
		return false
	}
	c.SetToken(t)
	if t != nil {
		t.Target = p
		t.Pos = p.Vec()
	}
	return true
}

// Each calls fn for every cell in row-major order
func (b *Board) Each(fn func(c *Cell)) {
	for i := range b.cells {
		fn(&b.cells[i])
	}
}

// Column calls fn for every cell of column x from bottom to top
func (b *Board) Column(x int, fn func(c *Cell)) {
	if x < 0 || x >= b.Width {
		return
	}
	for y := 0; y < b.Height; y++ {
		fn(&b.cells[y*b.Width+x])
	}
}

// Bounds returns the board extent in cell units, padded by one cell on each side
func (b *Board) Bounds() (min, max vmath.Vec2) {
	return vmath.V2(-1, -1), vmath.V2(b.Width, b.Height)
}

// TypeGrid returns the primary type ids row-major, empty cells as empty
func (b *Board) TypeGrid(empty int) []int {
	grid := make([]int, len(b.cells))
	for i := range b.cells {
		if t := b.cells[i].token; t != nil {
			grid[i] = t.TypeID
		} else {
			grid[i] = empty
		}
	}
	return grid
}

// FromTypeGrid builds a board from row-major type ids, skipping empty
// Tokens come from pool so the host keeps ownership of instances
func FromTypeGrid(width, height int, grid []int, empty int, pool Pool) *Board {
	b := New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			id := grid[y*width+x]
			if id == empty {
				continue
			}
			b.Place(Point{x, y}, pool.Get(id))
		}
	}
	return b
}
