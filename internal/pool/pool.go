// Package pool provides fixed-capacity bump arenas. Allocation only ever
// appends; ranges are never moved or released individually, so an offset
// stays valid until Reset.
package pool

import (
	"errors"
	"fmt"
)

// NoSpace is the offset returned alongside ErrNoSpace.
const NoSpace uint32 = 0xFFFFFFFF

// ErrNoSpace reports that an allocation would exceed the pool capacity.
var ErrNoSpace = errors.New("pool: no space")

// Pool is a fixed-capacity arena of T.
type Pool[T any] struct {
	name  string
	items []T
	used  uint32
}

// New creates a pool holding up to capacity elements. The backing array is
// allocated once here.
func New[T any](name string, capacity int) *Pool[T] {
	return &Pool[T]{name: name, items: make([]T, capacity)}
}

// Alloc reserves count contiguous elements and returns the offset of the
// first. On failure it returns NoSpace and used is unchanged.
func (p *Pool[T]) Alloc(count int) (uint32, error) {
	if count < 0 || uint64(p.used)+uint64(count) > uint64(len(p.items)) {
		return NoSpace, fmt.Errorf("%w: %s needs %d, %d of %d used", ErrNoSpace, p.name, count, p.used, len(p.items))
	}
	off := p.used
	p.used += uint32(count)
	clear(p.items[off:p.used])
	return off, nil
}

// Trim gives back the tail of the most recent reservation, shrinking
// [off, off+count) to [off, off+keep). It only applies when that range ends
// at the current high-water mark.
func (p *Pool[T]) Trim(off uint32, count, keep int) bool {
	if keep < 0 || keep > count || uint64(off)+uint64(count) != uint64(p.used) {
		return false
	}
	p.used = off + uint32(keep)
	return true
}

// Slice returns the elements [off, off+count). It panics on ranges that were
// never allocated.
func (p *Pool[T]) Slice(off uint32, count int) []T {
	end := off + uint32(count)
	if end > p.used {
		panic(fmt.Sprintf("pool %s: range [%d,%d) beyond used %d", p.name, off, end, p.used))
	}
	return p.items[off:end:end]
}

// At returns a pointer to one allocated element.
func (p *Pool[T]) At(off uint32) *T {
	return &p.Slice(off, 1)[0]
}

// Reset releases every allocation.
func (p *Pool[T]) Reset() {
	p.used = 0
}

// Used returns the number of allocated elements.
func (p *Pool[T]) Used() int { return int(p.used) }

// Cap returns the pool capacity.
func (p *Pool[T]) Cap() int { return len(p.items) }

// Free returns the remaining capacity.
func (p *Pool[T]) Free() int { return len(p.items) - int(p.used) }

// Name returns the pool label used in errors and logs.
func (p *Pool[T]) Name() string { return p.name }

// Stats is a point-in-time usage report.
type Stats struct {
	Name string
	Used int
	Cap  int
}

// Stats reports current usage.
func (p *Pool[T]) Stats() Stats {
	return Stats{Name: p.name, Used: p.Used(), Cap: p.Cap()}
}
