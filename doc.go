// Package blockarena implements a fixed-capacity block allocator over a
// single byte arena, for code that has no heap to fall back on or wants a
// hard, inspectable memory budget.
//
// # Overview
//
// The arena is split into equal blocks. A block table holds one tag per
// block: 0 marks a free block, and a non-zero tag t marks a block owned by
// the allocation whose first block is t-1. Every allocation is one
// contiguous run of blocks carrying the same tag, so the start and length
// of an allocation can be recovered from any pointer into it without a
// separate header.
//
// Allocations are returned as Ptr values, byte offsets into the arena.
//
// # Basic Usage
//
//	p, err := blockarena.NewPool(2048, 16) // 128 blocks of 16 bytes
//	if err != nil {
//	    return err
//	}
//
//	ptr, err := p.Alloc(40) // 3 blocks
//	if errors.Is(err, blockarena.ErrOutOfSpace) {
//	    // no run of 3 free blocks
//	}
//	copy(p.Bytes(ptr), data)
//
//	ptr, err = p.Resize(ptr, 100) // grows in place or moves
//	p.Free(ptr)
//
// # Static Backing
//
// WithBuffer hands the pool an existing buffer, typically a package-level
// array, so the arena lives for the whole program:
//
//	var heap [4096]byte
//	var pool, _ = blockarena.NewPool(0, 32, blockarena.WithBuffer(heap[:]))
//
// # Allocation Policy
//
//   - Alloc is first fit: the lowest-addressed free run that is long enough.
//   - Resize shrinks in place, grows in place into the free blocks right
//     after the run, and only moves the allocation when neither works.
//     A failed move leaves the original allocation untouched.
//   - Free is idempotent and ignores pointers it does not own.
//
// Every operation is a bounded scan of the block table. WithOccupancyIndex
// adds a bitmap that lets the free-run search skip used runs a word at a
// time on large pools without changing which run is chosen.
//
// # Thread Safety
//
// A Pool is not safe for concurrent use. Callers that share one across
// goroutines or interrupt contexts must serialize access themselves.
//
// # Diagnostics
//
//	s := p.Stats()
//	fmt.Printf("in use: %d/%d blocks, largest free run: %d\n",
//	    s.BlocksInUse, s.NumBlocks, s.LargestFreeRun)
//
//	p.WriteMap(os.Stderr) // block table dump
//	err := p.Check()      // invariant check, wraps ErrCorrupt
package blockarena
