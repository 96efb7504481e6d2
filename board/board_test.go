package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBoardBounds tests bounds checks and nil lookups outside the grid
func TestBoardBounds(t *testing.T) {
	b := New(4, 3)

	assert.True(t, b.InBounds(Point{0, 0}))
	assert.True(t, b.InBounds(Point{3, 2}))
	assert.False(t, b.InBounds(Point{4, 0}))
	assert.False(t, b.InBounds(Point{0, -1}))

	assert.Nil(t, b.Cell(Point{-1, 0}))
	assert.Nil(t, b.Token(Point{9, 9}))

	c := b.Cell(Point{2, 1})
	require.NotNil(t, c)
	assert.Equal(t, Point{2, 1}, c.Pos)
}

// TestPlaceBindsToken tests that placing a token binds cell, target and position
func TestPlaceBindsToken(t *testing.T) {
	b := New(3, 3)
	tok := NewToken(2, KindPiece)

	require.True(t, b.Place(Point{1, 2}, tok))
	assert.Same(t, tok, b.Token(Point{1, 2}))
	assert.Equal(t, Point{1, 2}, tok.Cell)
	assert.Equal(t, Point{1, 2}, tok.Target)
	assert.Equal(t, Point{1, 2}.Vec(), tok.Pos)

	assert.False(t, b.Place(Point{5, 5}, tok))
}

// TestCellLockIsReentrant tests the lock counter semantics
func TestCellLockIsReentrant(t *testing.T) {
	c := &Cell{}
	assert.False(t, c.Locked())

	c.Lock()
	c.Lock()
	assert.True(t, c.Locked())
	assert.Equal(t, 2, c.LockCount())

	c.Unlock()
	assert.True(t, c.Locked(), "one lock still held")

	c.Unlock()
	assert.False(t, c.Locked())

	// Extra unlocks never push the counter negative
	c.Unlock()
	assert.Equal(t, 0, c.LockCount())
	c.Lock()
	assert.True(t, c.Locked())
}

// TestTokenFlags tests flag set, clear and busy detection
func TestTokenFlags(t *testing.T) {
	tok := NewToken(1, KindPiece)
	assert.True(t, tok.Matchable())
	assert.True(t, tok.Has(FlagActive|FlagShuffleable))
	assert.False(t, tok.Busy())

	tok.Set(FlagMatching)
	assert.True(t, tok.Matching())
	assert.True(t, tok.Busy())

	tok.SetTo(FlagMatching, false)
	tok.Set(FlagExploding)
	assert.True(t, tok.Busy())
	tok.Clear(FlagExploding)
	assert.False(t, tok.Busy())
}

// TestDefaultFlagsByKind tests that variant tags drive default capabilities
func TestDefaultFlagsByKind(t *testing.T) {
	assert.True(t, NewToken(0, KindPiece).Matchable())
	assert.False(t, NewToken(100, KindBooster).Matchable())
	assert.True(t, NewToken(100, KindBooster).Has(FlagBooster))
	assert.True(t, NewToken(50, KindObstacle).Has(FlagExplodeByAdjacency))
	assert.True(t, NewToken(70, KindGenerator).Has(FlagGenerator|FlagExplodeByAdjacency))
}

// TestCatalogKinds tests registered and fallback kinds
func TestCatalogKinds(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, KindPiece, c.Kind(0))
	assert.Equal(t, KindObstacle, c.Kind(50))
	assert.Equal(t, KindGenerator, c.Kind(70))
	assert.Equal(t, KindBooster, c.Kind(103))
	assert.Equal(t, KindPiece, c.Kind(7))

	c.Register(7, KindObstacle)
	assert.Equal(t, KindObstacle, c.NewToken(7).Kind)
}

// TestTokenPoolResets tests that pooled tokens come back with fresh state
func TestTokenPoolResets(t *testing.T) {
	p := NewTokenPool(nil)
	tok := p.Get(3)
	tok.Set(FlagMatching | FlagMoving)
	p.Put(tok)

	again := p.Get(51)
	assert.Equal(t, 51, again.TypeID)
	assert.Equal(t, KindObstacle, again.Kind)
	assert.False(t, again.Busy())
}

// TestFromTypeGrid tests building a board from row-major ids
func TestFromTypeGrid(t *testing.T) {
	grid := []int{
		0, 1, -1,
		2, -1, 3,
	}
	b := FromTypeGrid(3, 2, grid, -1, NewTokenPool(nil))

	assert.Equal(t, 0, b.Token(Point{0, 0}).TypeID)
	assert.Equal(t, 1, b.Token(Point{1, 0}).TypeID)
	assert.Nil(t, b.Token(Point{2, 0}))
	assert.Equal(t, 3, b.Token(Point{2, 1}).TypeID)
	assert.Equal(t, grid, b.TypeGrid(-1))
}

// TestNeighborsOrder tests the up, down, right, left neighbour order
func TestNeighborsOrder(t *testing.T) {
	n := Point{2, 2}.Neighbors()
	assert.Equal(t, [4]Point{{2, 3}, {2, 1}, {3, 2}, {1, 2}}, n)
	assert.True(t, Point{2, 2}.Adjacent(Point{2, 3}))
	assert.False(t, Point{2, 2}.Adjacent(Point{3, 3}))
}
