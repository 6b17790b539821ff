package blockarena

import "errors"

var (
	// ErrOutOfSpace indicates that no free run of blocks is long enough for the request.
	ErrOutOfSpace = errors.New("blockarena: out of space")

	// ErrInvalidPointer indicates a pointer outside the arena or one addressing a free block.
	ErrInvalidPointer = errors.New("blockarena: invalid pointer")

	// ErrInvalidSize indicates a negative size or count argument.
	ErrInvalidSize = errors.New("blockarena: invalid size")

	// ErrBadConfig indicates pool geometry that cannot be represented.
	ErrBadConfig = errors.New("blockarena: bad pool configuration")

	// ErrMisaligned indicates that a run's address does not satisfy the alignment of the requested type.
	ErrMisaligned = errors.New("blockarena: misaligned allocation")

	// ErrCorrupt indicates that the block table violates the tag-run invariants.
	ErrCorrupt = errors.New("blockarena: corrupt block table")
)
