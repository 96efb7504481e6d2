package board

// CellType distinguishes board cell behaviour in the persisted format
type CellType uint8

const (
	CellNormal CellType = iota
	CellBlank
	CellSpawner
	CellShifter
)

func (c CellType) String() string {
	switch c {
	case CellNormal:
		return "normal"
	case CellBlank:
		return "blank"
	case CellSpawner:
		return "spawner"
	case CellShifter:
		return "shifter"
	}
	return "unknown"
}

// Cell is a stable board slot; tokens are swapped in and out
type Cell struct {
	Pos  Point
	Type CellType

	token    *Token
	underlay *Token
	overlay  *Token

	lockCount int
	filling   bool
	emptying  bool
}

func (c *Cell) Token() *Token    { return c.token }
func (c *Cell) Underlay() *Token { return c.underlay }
func (c *Cell) Overlay() *Token  { return c.overlay }

func (c *Cell) HasToken() bool    { return c.token != nil }
func (c *Cell) HasUnderlay() bool { return c.underlay != nil }
func (c *Cell) HasOverlay() bool  { return c.overlay != nil }

// SetToken assigns the primary token and binds it to this cell
// nil empties the cell
func (c *Cell) SetToken(t *Token) {
	c.token = t
	if t != nil {
		t.Cell = c.Pos
	}
}

// TakeToken empties the cell and returns its previous primary token
func (c *Cell) TakeToken() *Token {
	t := c.token
	c.token = nil
	return t
}

func (c *Cell) SetUnderlay(t *Token) {
	c.underlay = t
	if t != nil {
		t.Cell = c.Pos
		t.Pos = c.Pos.Vec()
	}
}

func (c *Cell) SetOverlay(t *Token) {
	c.overlay = t
	if t != nil {
		t.Cell = c.Pos
		t.Pos = c.Pos.Vec()
	}
}

// Lock takes one reentrant lock on the cell
func (c *Cell) Lock() {
	c.lockCount++
}

// Unlock releases one lock; the count never drops below zero
func (c *Cell) Unlock() {
	if c.lockCount > 0 {
		c.lockCount--
	}
}

// Locked reports whether any lock is still held
func (c *Cell) Locked() bool { return c.lockCount > 0 }

// LockCount returns the number of held locks
func (c *Cell) LockCount() int { return c.lockCount }

func (c *Cell) Filling() bool  { return c.filling }
func (c *Cell) Emptying() bool { return c.emptying }

func (c *Cell) SetFilling(v bool)  { c.filling = v }
func (c *Cell) SetEmptying(v bool) { c.emptying = v }

// Playable reports whether tokens may occupy the cell
func (c *Cell) Playable() bool {
	return c.Type != CellBlank && c.Type != CellShifter
}

// Transient reports whether a token is entering or leaving the cell
func (c *Cell) Transient() bool {
	return c.filling || c.emptying
}
