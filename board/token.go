package board

import "github.com/lixenwraith/match3/vmath"

// TokenKind is the closed set of token variants
type TokenKind uint8

const (
	// KindPiece is a regular matchable piece
	KindPiece TokenKind = iota
	// KindBooster is a special token spawned by a converging match
	KindBooster
	// KindObstacle is destroyed by matches next to it
	KindObstacle
	// KindGenerator produces further tokens instead of being consumed
	KindGenerator
)

func (k TokenKind) String() string {
	switch k {
	case KindPiece:
		return "piece"
	case KindBooster:
		return "booster"
	case KindObstacle:
		return "obstacle"
	case KindGenerator:
		return "generator"
	}
	return "unknown"
}

// Flags is the token status bitset
type Flags uint16

const (
	FlagMoving Flags = 1 << iota
	FlagExploding
	FlagMatching
	FlagActive
	FlagMatchable
	FlagShuffleable
	FlagBooster
	FlagExplodeByAdjacency
	FlagGenerator
	// FlagConverging marks a token merging toward a special match target
	FlagConverging
)

// DefaultFlags returns the initial flag set for a token variant
func DefaultFlags(kind TokenKind) Flags {
	switch kind {
	case KindPiece:
		return FlagActive | FlagMatchable | FlagShuffleable
	case KindBooster:
		return FlagActive | FlagBooster | FlagShuffleable
	case KindObstacle:
		return FlagActive | FlagExplodeByAdjacency
	case KindGenerator:
		return FlagActive | FlagExplodeByAdjacency | FlagGenerator
	}
	return FlagActive
}

// Token is a typed game piece occupying one layer of a cell
type Token struct {
	TypeID int
	Kind   TokenKind
	Flags  Flags

	// Cell is the grid coordinate the token is assigned to
	Cell Point
	// Target is the cell the token is moving toward
	Target Point
	// Pos is the logical position in cell units, lags Cell while moving
	Pos vmath.Vec2
}

// NewToken creates a token with the default flags of its kind
func NewToken(typeID int, kind TokenKind) *Token {
	return &Token{
		TypeID: typeID,
		Kind:   kind,
		Flags:  DefaultFlags(kind),
	}
}

func (t *Token) Has(f Flags) bool { return t.Flags&f == f }
func (t *Token) Set(f Flags)      { t.Flags |= f }
func (t *Token) Clear(f Flags)    { t.Flags &^= f }

// SetTo sets or clears f
func (t *Token) SetTo(f Flags, on bool) {
	if on {
		t.Set(f)
	} else {
		t.Clear(f)
	}
}

func (t *Token) Moving() bool    { return t.Has(FlagMoving) }
func (t *Token) Exploding() bool { return t.Has(FlagExploding) }
func (t *Token) Matching() bool  { return t.Has(FlagMatching) }
func (t *Token) Matchable() bool { return t.Has(FlagMatchable) }

// Busy reports whether the token is mid-resolution and must not join a new shape
func (t *Token) Busy() bool {
	return t.Flags&(FlagMoving|FlagExploding|FlagMatching) != 0
}

// Reset restores the token to its pooled state for reuse
func (t *Token) Reset(typeID int, kind TokenKind) {
	*t = Token{
		TypeID: typeID,
		Kind:   kind,
		Flags:  DefaultFlags(kind),
	}
}
