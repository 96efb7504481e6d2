package vmath

import "math"

// Vec2 is a 2D vector in Q32.32 fixed-point, in board cell units
// Convergence math runs on fixed-point so completion is deterministic across platforms
type Vec2 struct {
	X, Y int64
}

// V2 builds a vector from integer cell coordinates
func V2(x, y int) Vec2 {
	return Vec2{FromInt(x), FromInt(y)}
}

func V2Sub(a, b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

func V2MagSq(v Vec2) int64 {
	return Mul(v.X, v.X) + Mul(v.Y, v.Y)
}

func V2Mag(v Vec2) int64 {
	return Sqrt(V2MagSq(v))
}

// V2Dist returns the distance between two points
func V2Dist(a, b Vec2) int64 {
	return V2Mag(V2Sub(b, a))
}

// V2Within reports whether a and b are no further apart than tol
// Compares squared magnitudes, no sqrt
func V2Within(a, b Vec2, tol int64) bool {
	return V2MagSq(V2Sub(b, a)) <= Mul(tol, tol)
}

// V2MoveTowards moves cur toward target by at most maxStep
// Snaps onto target when the remaining distance is within maxStep
func V2MoveTowards(cur, target Vec2, maxStep int64) Vec2 {
	d := V2Sub(target, cur)
	fx, fy := float64(d.X), float64(d.Y)
	mag := math.Sqrt(fx*fx + fy*fy)
	if mag == 0 || mag <= float64(maxStep) {
		return target
	}

	// One division, two multiplies
	k := float64(maxStep) / mag
	return Vec2{
		cur.X + int64(fx*k),
		cur.Y + int64(fy*k),
	}
}

// V2Round returns the nearest integer cell coordinates
func V2Round(v Vec2) (int, int) {
	return Round(v.X), Round(v.Y)
}
