package board

import "github.com/lixenwraith/match3/vmath"

// Point is an integer cell coordinate
// Y grows upward: row 0 is the bottom, spawn cells sit on the top row
type Point struct {
	X, Y int
}

// Direction unit vectors
var (
	Up    = Point{0, 1}
	Down  = Point{0, -1}
	Right = Point{1, 0}
	Left  = Point{-1, 0}
)

func (p Point) Add(o Point) Point {
	return Point{p.X + o.X, p.Y + o.Y}
}

// Mul scales the point by n
func (p Point) Mul(n int) Point {
	return Point{p.X * n, p.Y * n}
}

// Neighbors returns the four orthogonal neighbours: up, down, right, left
func (p Point) Neighbors() [4]Point {
	return [4]Point{p.Add(Up), p.Add(Down), p.Add(Right), p.Add(Left)}
}

// Adjacent reports whether p and o share an edge
func (p Point) Adjacent(o Point) bool {
	dx, dy := p.X-o.X, p.Y-o.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx+dy == 1
}

// Vec returns the cell position in fixed-point cell units
func (p Point) Vec() vmath.Vec2 {
	return vmath.V2(p.X, p.Y)
}
