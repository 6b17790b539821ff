package blockarena

import (
	"fmt"
	"math"
)

// Alloc reserves at least size bytes and returns the offset of the first byte.
// A size of 0 is treated as 1, so a live allocation is never empty. The
// lowest-addressed free run that is long enough is used.
// Returns Nil and ErrOutOfSpace when no such run exists; the pool is unchanged.
func (p *Pool) Alloc(size int) (Ptr, error) {
	if size < 0 {
		return Nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if size == 0 {
		size = 1
	}
	n := p.blocksFor(size)
	start, ok := p.claim(n)
	if !ok {
		p.stats.failures++
		p.logger.Warn("alloc failed", "op", "alloc", "size", size, "blocks", n)
		return Nil, fmt.Errorf("%w: no run of %d free blocks for %d bytes", ErrOutOfSpace, n, size)
	}
	p.stats.allocs++
	ptr := p.ptrOf(start)
	p.logger.Debug("alloc", "op", "alloc", "size", size, "blocks", n, "ptr", int(ptr))
	return ptr, nil
}

// AllocZeroed reserves count*size bytes and zero-fills them.
// A count or size of 0 is treated as 1. On failure nothing is written.
func (p *Pool) AllocZeroed(count, size int) (Ptr, error) {
	if count < 0 || size < 0 {
		return Nil, fmt.Errorf("%w: count %d, size %d", ErrInvalidSize, count, size)
	}
	if count == 0 {
		count = 1
	}
	if size == 0 {
		size = 1
	}
	if count > math.MaxInt/size {
		p.stats.failures++
		p.logger.Warn("alloc failed", "op", "alloc_zeroed", "count", count, "size", size)
		return Nil, fmt.Errorf("%w: %d elements of %d bytes overflows", ErrOutOfSpace, count, size)
	}
	ptr, err := p.Alloc(count * size)
	if err != nil {
		return Nil, err
	}
	clear(p.Bytes(ptr))
	return ptr, nil
}

// Resize changes the size of the allocation at ptr and returns its new location.
//
//   - ptr == Nil: same as Alloc(size).
//   - size == 0: the allocation is released and ptr is returned as a stale
//     handle that must not be dereferenced.
//   - ptr outside the arena: Nil and ErrInvalidPointer.
//   - ptr addressing a free block: same as Alloc(size).
//
// Otherwise the run is shrunk in place, grown in place into the free blocks
// directly after it, or moved to the first free run that fits, in that order
// of preference. A move copies the whole old run. If no run fits, Nil and
// ErrOutOfSpace are returned and the original allocation is left intact.
func (p *Pool) Resize(ptr Ptr, size int) (Ptr, error) {
	if ptr == Nil {
		return p.Alloc(size)
	}
	if size == 0 {
		p.Free(ptr)
		return ptr, nil
	}
	if size < 0 {
		return Nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if !p.contains(ptr) {
		p.stats.failures++
		p.logger.Warn("resize failed", "op", "resize", "ptr", int(ptr), "error", ErrInvalidPointer)
		return Nil, fmt.Errorf("%w: %d is outside the %d-byte arena", ErrInvalidPointer, ptr, len(p.buf))
	}

	tag := p.tags[p.blockOf(ptr)]
	if tag == 0 {
		p.logger.Debug("resize of free block", "op", "resize", "ptr", int(ptr), "size", size)
		return p.Alloc(size)
	}

	start := runStart(tag)
	oldCount := p.runLength(start, tag)
	newCount := p.blocksFor(size)

	if newCount <= oldCount {
		if newCount < oldCount {
			p.clearRun(start+newCount, oldCount-newCount)
			p.stats.shrinks++
		}
		p.logger.Debug("resize in place", "op", "resize", "ptr", int(p.ptrOf(start)), "blocks", newCount, "old_blocks", oldCount)
		return p.ptrOf(start), nil
	}

	extra := newCount - oldCount
	if p.freeAfter(start+oldCount, extra) == extra {
		p.setRun(start+oldCount, extra, tag)
		p.stats.grows++
		p.logger.Debug("resize in place", "op", "resize", "ptr", int(p.ptrOf(start)), "blocks", newCount, "old_blocks", oldCount)
		return p.ptrOf(start), nil
	}

	// The old run stays tagged while searching, so the new run never overlaps it.
	newStart, ok := p.claim(newCount)
	if !ok {
		p.stats.failures++
		p.logger.Warn("resize failed", "op", "resize", "ptr", int(ptr), "size", size, "blocks", newCount)
		return Nil, fmt.Errorf("%w: no run of %d free blocks to move %d-block allocation", ErrOutOfSpace, newCount, oldCount)
	}
	bs := p.blockSize
	copy(p.buf[newStart*bs:], p.buf[start*bs:(start+oldCount)*bs])
	p.clearRun(start, oldCount)
	p.stats.relocations++

	moved := p.ptrOf(newStart)
	p.logger.Debug("resize moved", "op", "resize", "from", int(p.ptrOf(start)), "ptr", int(moved), "blocks", newCount)
	return moved, nil
}

// Free releases the allocation containing ptr. Pointers outside the arena
// and pointers to free blocks are ignored, so freeing twice is harmless.
func (p *Pool) Free(ptr Ptr) {
	if !p.contains(ptr) {
		return
	}
	tag := p.tags[p.blockOf(ptr)]
	if tag == 0 {
		return
	}
	start := runStart(tag)
	n := p.runLength(start, tag)
	p.clearRun(start, n)
	p.stats.frees++
	p.logger.Debug("free", "op", "free", "ptr", int(p.ptrOf(start)), "blocks", n)
}

// Bytes returns the whole run backing the allocation that contains ptr,
// starting at the allocation's first byte. The slice cannot be appended past
// the run. Returns nil if ptr is not inside a live allocation.
func (p *Pool) Bytes(ptr Ptr) []byte {
	start, size, err := p.Lookup(ptr)
	if err != nil {
		return nil
	}
	lo := int(start)
	hi := lo + size
	return p.buf[lo:hi:hi]
}

// Lookup returns the start and usable size in bytes of the allocation that
// contains ptr. Unlike Free, it reports ErrInvalidPointer for pointers outside
// the arena or inside free blocks.
func (p *Pool) Lookup(ptr Ptr) (Ptr, int, error) {
	if !p.contains(ptr) {
		return Nil, 0, fmt.Errorf("%w: %d is outside the %d-byte arena", ErrInvalidPointer, ptr, len(p.buf))
	}
	tag := p.tags[p.blockOf(ptr)]
	if tag == 0 {
		return Nil, 0, fmt.Errorf("%w: block %d is free", ErrInvalidPointer, p.blockOf(ptr))
	}
	start := runStart(tag)
	return p.ptrOf(start), p.runLength(start, tag) * p.blockSize, nil
}
