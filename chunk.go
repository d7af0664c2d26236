package slab

import (
	"unsafe"

	"github.com/vela-ds/slab/internal/provider"
)

// chunk is a contiguous run of chunkSize slots obtained in one call to the
// arena's Provider. Chunks are never freed individually; the arena releases
// them all together in Clear.
type chunk[T any] struct {
	backing  provider.Provider[slot[T]]
	slots    []slot[T]
	pointers []*slot[T] // &slots[i], cached once since slots never moves
}

// newChunk allocates storage for n slots from p. The backing slice is
// allocated at its final length and never appended to afterward, so every
// *slot[T] taken from it remains valid for the arena's lifetime.
func newChunk[T any](p provider.Provider[slot[T]], n int) (*chunk[T], error) {
	slots, err := p.Alloc(n)
	if err != nil {
		return nil, err
	}
	c := &chunk[T]{backing: p, slots: slots, pointers: make([]*slot[T], n)}
	for i := range c.slots {
		c.pointers[i] = &c.slots[i]
	}
	return c, nil
}

func (c *chunk[T]) release() {
	c.backing.Free(c.slots)
}

// contains reports whether p falls within this chunk's slot array,
// supporting Arena.IsValid's O(chunk-count) membership check.
func (c *chunk[T]) contains(p *slot[T]) bool {
	if len(c.slots) == 0 {
		return false
	}
	lo := uintptr(unsafe.Pointer(&c.slots[0]))
	hi := uintptr(unsafe.Pointer(&c.slots[len(c.slots)-1]))
	addr := uintptr(unsafe.Pointer(p))
	return addr >= lo && addr <= hi
}
