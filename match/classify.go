package match

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/match3/board"
)

// Classify maps run lengths to a match kind by strict priority
// h, v: horizontal and vertical run lengths excluding the trigger
// he: best horizontal arm found off the vertical run
// ve: best vertical arm found off the horizontal run
// junction: the first cells of both arms coincide
func Classify(h, v, he, ve int, junction bool) Kind {
	switch {
	case h > 3 || v > 3:
		return LightBall
	case isTNT(h, v, he, ve):
		return TNT
	case v > 2:
		return HorizontalRocket
	case h > 2:
		return VerticalRocket
	case h >= 1 && v >= 1 && he > 0 && ve > 0 && junction:
		return Missile
	case h >= 2 || v >= 2:
		return Normal
	}
	return None
}

// isTNT fails only when neither axis has a run of two with a perpendicular
// partner of two (either the other run or an arm off it)
func isTNT(h, v, he, ve int) bool {
	horizontalFails := h <= 1 || (v <= 1 && ve <= 1)
	verticalFails := v <= 1 || (h <= 1 && he <= 1)
	return !(horizontalFails && verticalFails)
}

// Result is the run topology around a trigger cell
// Runs exclude the trigger and list the positive direction first
type Result struct {
	Trigger board.Point
	TypeID  int

	Horizontal []board.Point
	Vertical   []board.Point
	// HorizontalExt is the longest horizontal arm off the vertical run
	HorizontalExt []board.Point
	// VerticalExt is the longest vertical arm off the horizontal run
	VerticalExt []board.Point
}

// Junction reports whether both arms start on the same cell
func (r *Result) Junction() bool {
	return len(r.HorizontalExt) > 0 && len(r.VerticalExt) > 0 &&
		r.HorizontalExt[0] == r.VerticalExt[0]
}

// Kind classifies the result
func (r *Result) Kind() Kind {
	return Classify(len(r.Horizontal), len(r.Vertical), len(r.HorizontalExt), len(r.VerticalExt), r.Junction())
}

// Positions returns the cells consumed by kind, trigger first, without duplicates
// Returns nil for None
func (r *Result) Positions(kind Kind) []board.Point {
	var groups [][]board.Point
	switch kind {
	case None:
		return nil
	case LightBall, TNT:
		groups = append(groups, r.Horizontal, r.Vertical)
		// Arms only count with two cells
		if len(r.HorizontalExt) >= 2 {
			groups = append(groups, r.HorizontalExt)
		}
		if len(r.VerticalExt) >= 2 {
			groups = append(groups, r.VerticalExt)
		}
	case HorizontalRocket:
		groups = append(groups, r.Vertical)
	case VerticalRocket:
		groups = append(groups, r.Horizontal)
	case Missile:
		groups = append(groups, r.Horizontal, r.Vertical, r.HorizontalExt)
	case Normal:
		if len(r.Horizontal) >= 2 {
			groups = append(groups, r.Horizontal)
		} else {
			groups = append(groups, r.Vertical)
		}
	}

	seen := mapset.New[board.Point]()
	seen.Put(r.Trigger)
	out := []board.Point{r.Trigger}
	for _, g := range groups {
		for _, p := range g {
			if seen.Has(p) {
				continue
			}
			seen.Put(p)
			out = append(out, p)
		}
	}
	return out
}
