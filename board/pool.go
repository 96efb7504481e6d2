package board

import "sync"

// Pool provides and reclaims token instances by type id
// Implemented by the host's object pool; TokenPool is the default
type Pool interface {
	Get(typeID int) *Token
	Put(t *Token)
}

// TokenPool recycles tokens through a sync.Pool
type TokenPool struct {
	catalog *Catalog
	pool    sync.Pool
}

// NewTokenPool creates a pool that stamps tokens using the catalog
func NewTokenPool(catalog *Catalog) *TokenPool {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &TokenPool{
		catalog: catalog,
		pool: sync.Pool{
			New: func() any { return &Token{} },
		},
	}
}

// Get returns a token reset to the defaults of typeID
func (p *TokenPool) Get(typeID int) *Token {
	t := p.pool.Get().(*Token)
	t.Reset(typeID, p.catalog.Kind(typeID))
	return t
}

// Put returns a token to the pool
func (p *TokenPool) Put(t *Token) {
	if t == nil {
		return
	}
	t.Reset(0, KindPiece)
	p.pool.Put(t)
}

// Catalog returns the catalog used to stamp tokens
func (p *TokenPool) Catalog() *Catalog {
	return p.catalog
}
