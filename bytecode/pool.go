package bytecode

import (
	"sync"
)

// MaxPooledCapacity bounds the storage a Pool keeps. Buffers that grew past it
// are dropped on Put so one large stream does not pin memory.
const MaxPooledCapacity = 64 << 10

// Pool recycles buffers of a fixed initial capacity. A Pool is safe for
// concurrent use; the buffers it hands out are not.
type Pool struct {
	pool     sync.Pool
	capacity int
	maxCap   int
}

// NewPool returns a pool whose fresh buffers start with the given capacity
// (0 selects DefaultCapacity). Options apply to every buffer handed out, so
// WithMaxCapacity bounds growth of pooled buffers too; the initial capacity is
// clamped to that limit.
func NewPool(capacity int, opts ...Option) *Pool {
	var tmpl Buffer
	for _, opt := range opts {
		opt(&tmpl)
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if tmpl.maxCap > 0 {
		capacity = min(capacity, tmpl.maxCap)
	}

	p := &Pool{capacity: capacity, maxCap: tmpl.maxCap}
	p.pool.New = func() any {
		return &Buffer{data: make([]byte, 0, capacity)}
	}
	return p
}

// Get returns an empty, unlocked buffer carrying the pool's limit.
func (p *Pool) Get() *Buffer {
	b := p.pool.Get().(*Buffer)
	b.data = b.data[:0]
	b.locked = false
	b.maxCap = p.maxCap
	return b
}

// Put returns b to the pool. Nil, destroyed and oversized buffers are ignored.
// b must not be used after Put.
func (p *Pool) Put(b *Buffer) {
	if b == nil || b.data == nil {
		return
	}
	c := cap(b.data)
	if c < p.capacity || c > max(MaxPooledCapacity, p.capacity) {
		return
	}
	if p.maxCap > 0 && c > p.maxCap {
		return
	}
	b.data = b.data[:0]
	b.locked = false
	b.maxCap = 0
	p.pool.Put(b)
}
