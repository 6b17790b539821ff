package blockarena

// counters accumulate over the pool's lifetime. Reset does not clear them.
type counters struct {
	allocs      uint64
	frees       uint64
	grows       uint64
	shrinks     uint64
	relocations uint64
	failures    uint64
}

// Capacity returns the arena size in bytes.
func (p *Pool) Capacity() int {
	return len(p.buf)
}

// BlockSize returns the number of bytes per block.
func (p *Pool) BlockSize() int {
	return p.blockSize
}

// NumBlocks returns the number of blocks in the arena.
func (p *Pool) NumBlocks() int {
	return len(p.tags)
}

// BlocksInUse returns the number of blocks owned by live allocations.
func (p *Pool) BlocksInUse() int {
	n := 0
	for _, tag := range p.tags {
		if tag != 0 {
			n++
		}
	}
	return n
}

// SizeInUse returns the bytes held by live allocations, including the
// rounding of each request up to whole blocks.
func (p *Pool) SizeInUse() int {
	return p.BlocksInUse() * p.blockSize
}

// LargestFree returns the size in bytes of the longest free run, which is
// the largest request Alloc can currently satisfy.
func (p *Pool) LargestFree() int {
	best, run := 0, 0
	for _, tag := range p.tags {
		if tag != 0 {
			run = 0
			continue
		}
		run++
		best = max(best, run)
	}
	return best * p.blockSize
}

// Utilization returns the ratio of blocks in use to total blocks (0.0 to 1.0).
func (p *Pool) Utilization() float64 {
	if len(p.tags) == 0 {
		return 0
	}
	return float64(p.BlocksInUse()) / float64(len(p.tags))
}

// Stats returns a snapshot of pool statistics.
func (p *Pool) Stats() Stats {
	s := Stats{
		Capacity:    p.Capacity(),
		BlockSize:   p.blockSize,
		NumBlocks:   len(p.tags),
		Allocs:      p.stats.allocs,
		Frees:       p.stats.frees,
		Grows:       p.stats.grows,
		Shrinks:     p.stats.shrinks,
		Relocations: p.stats.relocations,
		Failures:    p.stats.failures,
	}

	run := 0
	var prev uint16
	for _, tag := range p.tags {
		if tag == 0 {
			run++
			s.LargestFreeRun = max(s.LargestFreeRun, run)
		} else {
			run = 0
			s.BlocksInUse++
			if tag != prev {
				s.Live++
			}
		}
		prev = tag
	}

	s.SizeInUse = s.BlocksInUse * p.blockSize
	free := s.NumBlocks - s.BlocksInUse
	if s.NumBlocks > 0 {
		s.Utilization = float64(s.BlocksInUse) / float64(s.NumBlocks)
	}
	if free > 0 {
		s.Fragmentation = 1 - float64(s.LargestFreeRun)/float64(free)
	}
	return s
}

// Stats contains statistical information about a pool.
type Stats struct {
	Capacity       int     // Arena size in bytes
	BlockSize      int     // Bytes per block
	NumBlocks      int     // Blocks in the arena
	BlocksInUse    int     // Blocks owned by live allocations
	SizeInUse      int     // BlocksInUse * BlockSize
	LargestFreeRun int     // Longest run of free blocks
	Live           int     // Live allocations
	Utilization    float64 // Ratio of used to total blocks (0.0-1.0)
	Fragmentation  float64 // 1 - LargestFreeRun/free blocks; 0 when free space is one run

	Allocs      uint64 // Successful allocations, including Resize falling back to Alloc
	Frees       uint64 // Allocations released by Free or Resize(ptr, 0)
	Grows       uint64 // In-place grows
	Shrinks     uint64 // In-place shrinks that released blocks
	Relocations uint64 // Resizes that moved the allocation
	Failures    uint64 // Calls failing with ErrOutOfSpace or ErrInvalidPointer
}
