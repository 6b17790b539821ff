package blockarena

import (
	"fmt"
	"unsafe"
)

// The typed helpers below place values inside the arena. The garbage
// collector does not scan the arena, so T must not contain Go pointers
// (pointers, slices, strings, maps, channels, funcs or interfaces).

// New allocates a zeroed T in the pool and returns both a typed pointer and
// the arena offset to pass to Free or Resize.
func New[T any](p *Pool) (*T, Ptr, error) {
	var zero T
	if err := p.checkAlign(unsafe.Alignof(zero)); err != nil {
		return nil, Nil, err
	}
	ptr, err := p.AllocZeroed(1, int(unsafe.Sizeof(zero)))
	if err != nil {
		return nil, Nil, err
	}
	return (*T)(unsafe.Pointer(&p.buf[ptr])), ptr, nil
}

// NewSlice allocates a zeroed slice of n elements of type T.
// Like AllocZeroed, n == 0 still reserves room for one element.
func NewSlice[T any](p *Pool, n int) ([]T, Ptr, error) {
	if n < 0 {
		return nil, Nil, fmt.Errorf("%w: %d elements", ErrInvalidSize, n)
	}
	var zero T
	if err := p.checkAlign(unsafe.Alignof(zero)); err != nil {
		return nil, Nil, err
	}
	ptr, err := p.AllocZeroed(n, int(unsafe.Sizeof(zero)))
	if err != nil {
		return nil, Nil, err
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&p.buf[ptr])), n), ptr, nil
}

// View reinterprets n elements of T starting at ptr. The elements must fit
// inside the live allocation containing ptr and ptr must be aligned for T;
// otherwise View returns nil. Use it to recover a slice after Resize.
func View[T any](p *Pool, ptr Ptr, n int) []T {
	if n < 0 {
		return nil
	}
	start, size, err := p.Lookup(ptr)
	if err != nil {
		return nil
	}
	var zero T
	elem := int(unsafe.Sizeof(zero))
	avail := int(start) + size - int(ptr)
	if elem != 0 && n > avail/elem {
		return nil
	}
	base := unsafe.Pointer(&p.buf[ptr])
	if uintptr(base)%unsafe.Alignof(zero) != 0 {
		return nil
	}
	return unsafe.Slice((*T)(base), n)
}

// checkAlign reports whether every block start satisfies align.
func (p *Pool) checkAlign(align uintptr) error {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(p.buf)))
	if base%align != 0 || uintptr(p.blockSize)%align != 0 {
		return fmt.Errorf("%w: block size %d needs %d-byte alignment", ErrMisaligned, p.blockSize, align)
	}
	return nil
}
