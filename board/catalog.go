package board

import "github.com/lixenwraith/match3/parameter"

// Catalog maps token type ids to their variant
type Catalog struct {
	kinds map[int]TokenKind
}

// NewCatalog creates an empty catalog; unregistered ids resolve to KindPiece
func NewCatalog() *Catalog {
	return &Catalog{kinds: make(map[int]TokenKind)}
}

// DefaultCatalog registers pieces, obstacles, generators and the booster
// range in the layout of the parameter package
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	for id := 0; id < parameter.PieceTypeCount; id++ {
		c.Register(id, KindPiece)
	}
	for id := parameter.ObstacleTypeBase; id < parameter.GeneratorTypeBase; id++ {
		c.Register(id, KindObstacle)
	}
	for id := parameter.GeneratorTypeBase; id < parameter.BoosterTypeBase; id++ {
		c.Register(id, KindGenerator)
	}
	return c
}

// Register binds a type id to a variant
func (c *Catalog) Register(typeID int, kind TokenKind) {
	c.kinds[typeID] = kind
}

// Kind returns the variant of a type id
// Ids at or above the booster base are always boosters
func (c *Catalog) Kind(typeID int) TokenKind {
	if k, ok := c.kinds[typeID]; ok {
		return k
	}
	if typeID >= parameter.BoosterTypeBase {
		return KindBooster
	}
	return KindPiece
}

// NewToken builds a token of the registered variant
func (c *Catalog) NewToken(typeID int) *Token {
	return NewToken(typeID, c.Kind(typeID))
}
