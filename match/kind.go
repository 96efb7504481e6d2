package match

import (
	"github.com/lixenwraith/match3/board"
	"github.com/lixenwraith/match3/parameter"
)

// Kind is the classified shape of a match
// Rocket kinds are named after the axis of the booster's effect, not the run axis
type Kind int

const (
	None Kind = iota
	Normal
	Missile
	HorizontalRocket
	VerticalRocket
	TNT
	LightBall
)

var kindNames = [...]string{
	None:             "None",
	Normal:           "Normal",
	Missile:          "Missile",
	HorizontalRocket: "HorizontalRocket",
	VerticalRocket:   "VerticalRocket",
	TNT:              "TNT",
	LightBall:        "LightBall",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Special reports whether the kind converges into a booster
func (k Kind) Special() bool {
	return k > Normal && k <= LightBall
}

// TokenType returns the type id of the booster spawned by the kind
func (k Kind) TokenType() int {
	return parameter.BoosterTypeBase + int(k)
}

// KindOfToken decodes a booster type id, None for non-booster ids
func KindOfToken(typeID int) Kind {
	k := Kind(typeID - parameter.BoosterTypeBase)
	if !k.Special() {
		return None
	}
	return k
}

// Data is a queued match decision
// Identity is by pointer: two matches with identical geometry are distinct
type Data struct {
	Kind   Kind
	TypeID int
	// Positions are ordered and duplicate-free; Positions[0] is the trigger and merge target
	Positions []board.Point

	initialized bool
}

// Target returns the merge target of the match
func (d *Data) Target() board.Point {
	return d.Positions[0]
}

// Initialized reports whether convergence bookkeeping has started
func (d *Data) Initialized() bool {
	return d.initialized
}

// MarkInitialized records that convergence bookkeeping has started
func (d *Data) MarkInitialized() {
	d.initialized = true
}
