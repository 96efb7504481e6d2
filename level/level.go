package level

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/match3/board"
	"github.com/lixenwraith/match3/parameter"
)

// ErrInvalidLevel wraps every validation and decode failure
// A corrupt level is fatal to the load step
var ErrInvalidLevel = errors.New("invalid level")

// Placement is a sparse layer entry
type Placement struct {
	X      int `msgpack:"x"`
	Y      int `msgpack:"y"`
	TypeID int `msgpack:"t"`
}

// Point returns the placement coordinate
func (p Placement) Point() board.Point {
	return board.Point{X: p.X, Y: p.Y}
}

// Goal is a type id to collect and the amount required
type Goal struct {
	TypeID int `msgpack:"t"`
	Amount int `msgpack:"n"`
}

// Data is the persisted board format
// Primary and CellTypes are row-major (index = y*Width+x); empty cells hold parameter.EmptyType
type Data struct {
	ID       string `msgpack:"id"`
	SpriteID int    `msgpack:"sprite"`
	Width    int    `msgpack:"w"`
	Height   int    `msgpack:"h"`
	Seed     int64  `msgpack:"seed"`

	Primary   []int       `msgpack:"primary"`
	CellTypes []int       `msgpack:"cells,omitempty"` // board.CellType; empty means all normal
	Underlay  []Placement `msgpack:"underlay,omitempty"`
	Overlay   []Placement `msgpack:"overlay,omitempty"`

	FillTypes []int  `msgpack:"fill"`
	Goals     []Goal `msgpack:"goals,omitempty"`
	Moves     int    `msgpack:"moves"`
}

// CellType returns the type of the cell at p
func (d *Data) CellType(p board.Point) board.CellType {
	if len(d.CellTypes) == 0 {
		return board.CellNormal
	}
	return board.CellType(d.CellTypes[p.Y*d.Width+p.X])
}

// InBounds reports whether p lies on the level grid
func (d *Data) InBounds(p board.Point) bool {
	return p.X >= 0 && p.X < d.Width && p.Y >= 0 && p.Y < d.Height
}

// Validate checks structural consistency
func (d *Data) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidLevel, d.Width, d.Height)
	}
	n := d.Width * d.Height
	if len(d.Primary) != n {
		return fmt.Errorf("%w: primary layer has %d cells, want %d", ErrInvalidLevel, len(d.Primary), n)
	}
	if len(d.CellTypes) != 0 && len(d.CellTypes) != n {
		return fmt.Errorf("%w: cell type matrix has %d cells, want %d", ErrInvalidLevel, len(d.CellTypes), n)
	}
	for i, ct := range d.CellTypes {
		if ct < int(board.CellNormal) || ct > int(board.CellShifter) {
			return fmt.Errorf("%w: unknown cell type %d at index %d", ErrInvalidLevel, ct, i)
		}
		if board.CellType(ct) == board.CellBlank && d.Primary[i] != parameter.EmptyType {
			return fmt.Errorf("%w: blank cell at index %d holds type %d", ErrInvalidLevel, i, d.Primary[i])
		}
	}
	if len(d.FillTypes) == 0 {
		return fmt.Errorf("%w: no fill types", ErrInvalidLevel)
	}
	if err := d.validateLayer("underlay", d.Underlay); err != nil {
		return err
	}
	if err := d.validateLayer("overlay", d.Overlay); err != nil {
		return err
	}
	for _, g := range d.Goals {
		if g.Amount < 0 {
			return fmt.Errorf("%w: goal for type %d has negative amount", ErrInvalidLevel, g.TypeID)
		}
	}
	if d.Moves < 0 {
		return fmt.Errorf("%w: negative move budget", ErrInvalidLevel)
	}
	return nil
}

func (d *Data) validateLayer(name string, layer []Placement) error {
	seen := mapset.New[board.Point]()
	for _, pl := range layer {
		p := pl.Point()
		if !d.InBounds(p) {
			return fmt.Errorf("%w: %s placement (%d,%d) out of bounds", ErrInvalidLevel, name, p.X, p.Y)
		}
		if seen.Has(p) {
			return fmt.Errorf("%w: duplicate %s placement at (%d,%d)", ErrInvalidLevel, name, p.X, p.Y)
		}
		seen.Put(p)
	}
	return nil
}

// Encode validates and serializes a level
func Encode(d *Data) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	buf, err := msgpack.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode level: %w", err)
	}
	return buf, nil
}

// Decode deserializes and validates a level
func Decode(buf []byte) (*Data, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: empty level blob", ErrInvalidLevel)
	}
	var d Data
	if err := msgpack.Unmarshal(buf, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Placements converts a row-major layer grid into sparse placements, skipping empty
func Placements(width, height int, grid []int) []Placement {
	var out []Placement
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if id := grid[y*width+x]; id != parameter.EmptyType {
				out = append(out, Placement{X: x, Y: y, TypeID: id})
			}
		}
	}
	return out
}

// Grid expands sparse placements into a row-major layer grid
func Grid(width, height int, layer []Placement) []int {
	grid := make([]int, width*height)
	for i := range grid {
		grid[i] = parameter.EmptyType
	}
	for _, pl := range layer {
		grid[pl.Y*width+pl.X] = pl.TypeID
	}
	return grid
}
