package event

import (
	"github.com/lixenwraith/match3/board"
	"github.com/lixenwraith/match3/vmath"
)

// ConsumeReason tells how a token left the board
type ConsumeReason uint8

const (
	// ConsumeMatched is a token consumed by an immediate (normal) match
	ConsumeMatched ConsumeReason = iota
	// ConsumeRemoved is a token merged into a special token
	ConsumeRemoved
	// ConsumeExploded is a neighbour hit by an adjacency explosion
	ConsumeExploded
)

func (r ConsumeReason) String() string {
	switch r {
	case ConsumeMatched:
		return "matched"
	case ConsumeRemoved:
		return "removed"
	case ConsumeExploded:
		return "exploded"
	}
	return "unknown"
}

// PlaceTokenPayload requests a token of TypeID at Pos
type PlaceTokenPayload struct {
	Pos    board.Point
	TypeID int
}

// MatchReadyPayload describes a detected match
type MatchReadyPayload struct {
	Kind      int // match.Kind
	TypeID    int
	Positions []board.Point
}

// MatchCompletedPayload reports a resolved match for scoring and goals
type MatchCompletedPayload struct {
	Target board.Point
	Kind   int // match.Kind
	TypeID int
	Count  int
}

// TokenConsumedPayload reports a single consumed token
type TokenConsumedPayload struct {
	Pos       board.Point
	Anchor    vmath.Vec2 // Logical position at consumption
	TypeID    int
	ShapeSize int
	Reason    ConsumeReason
	Generator bool         // Generator tokens stay on the board and stay tracked
	Token     *board.Token // Identity only, already back in the pool
}

// ColumnDirtyPayload names a column needing gravity settling
type ColumnDirtyPayload struct {
	Column int
}

// SwapPayload names the two cells of a swap
type SwapPayload struct {
	A, B board.Point
}

// GoalPayload reports the remaining amount of a goal type
type GoalPayload struct {
	TypeID    int
	Remaining int
}
