package blockarena

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/bits-and-blooms/bitset"
)

const (
	// DefaultBlockSize is the block size used when NewPool is given blockSize <= 0.
	DefaultBlockSize = 16

	// DefaultPoolSize is the arena size used when NewPool is given poolSize <= 0
	// and no buffer is supplied.
	DefaultPoolSize = 2048

	// MaxBlocks is the largest number of blocks a pool can track.
	// A tag stores start index + 1 in a uint16.
	MaxBlocks = math.MaxUint16
)

// Ptr is a byte offset into a pool's arena.
type Ptr int

// Nil is the no-value pointer. Resize treats it as "allocate" and failed
// operations return it.
const Nil Ptr = -1

// Pool is a fixed-capacity block allocator over a single byte arena.
// Not safe for concurrent use; callers serialize access.
type Pool struct {
	buf       []byte   // arena, len = len(tags) * blockSize
	tags      []uint16 // block table: 0 = free, t = owned by run starting at t-1
	blockSize int

	// index mirrors tags (bit set iff tag != 0) when the occupancy index is on.
	index *bitset.BitSet

	logger *slog.Logger
	stats  counters
}

// NewPool creates a pool of poolSize bytes split into blockSize-byte blocks.
// If blockSize <= 0, DefaultBlockSize is used. If poolSize <= 0, the length of
// the WithBuffer buffer is used, or DefaultPoolSize when there is none.
// poolSize must be a multiple of blockSize and yield at most MaxBlocks blocks.
func NewPool(poolSize, blockSize int, opts ...Option) (*Pool, error) {
	cfg := applyOptions(opts)

	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
		if cfg.buf != nil {
			poolSize = len(cfg.buf)
		}
	}
	if cfg.buf != nil && len(cfg.buf) != poolSize {
		return nil, fmt.Errorf("%w: buffer length %d does not match pool size %d", ErrBadConfig, len(cfg.buf), poolSize)
	}
	if poolSize%blockSize != 0 {
		return nil, fmt.Errorf("%w: pool size %d is not a multiple of block size %d", ErrBadConfig, poolSize, blockSize)
	}
	blockCount := poolSize / blockSize
	if blockCount == 0 {
		return nil, fmt.Errorf("%w: pool has no blocks", ErrBadConfig)
	}
	if blockCount > MaxBlocks {
		return nil, fmt.Errorf("%w: %d blocks exceeds the limit of %d", ErrBadConfig, blockCount, MaxBlocks)
	}

	buf := cfg.buf
	if buf == nil {
		buf = make([]byte, poolSize)
	}

	p := &Pool{
		buf:       buf,
		tags:      make([]uint16, blockCount),
		blockSize: blockSize,
		logger:    cfg.logger,
	}
	if cfg.index {
		p.index = bitset.New(uint(blockCount))
	}
	p.logger.Debug("pool created",
		"pool_size", poolSize,
		"block_size", blockSize,
		"blocks", blockCount,
		"occupancy_index", cfg.index,
	)
	return p, nil
}

// Reset releases every allocation. Arena contents are left as they are.
func (p *Pool) Reset() {
	clear(p.tags)
	if p.index != nil {
		p.index.ClearAll()
	}
	p.logger.Debug("pool reset")
}

// blocksFor returns ceil(size / blockSize) without overflowing for large sizes.
func (p *Pool) blocksFor(size int) int {
	n := size / p.blockSize
	if size%p.blockSize != 0 {
		n++
	}
	return n
}

// contains reports whether ptr addresses a byte inside the arena.
func (p *Pool) contains(ptr Ptr) bool {
	return ptr >= 0 && int(ptr) < len(p.buf)
}

func (p *Pool) blockOf(ptr Ptr) int {
	return int(ptr) / p.blockSize
}

func (p *Pool) ptrOf(block int) Ptr {
	return Ptr(block * p.blockSize)
}

// runStart returns the first block of the run carrying tag.
func runStart(tag uint16) int {
	return int(tag) - 1
}

// runLength counts consecutive blocks carrying tag from start.
func (p *Pool) runLength(start int, tag uint16) int {
	n := 0
	for i := start; i < len(p.tags) && p.tags[i] == tag; i++ {
		n++
	}
	return n
}

// freeAfter counts free blocks starting at block from, stopping once limit
// have been seen.
func (p *Pool) freeAfter(from, limit int) int {
	n := 0
	for i := from; i < len(p.tags) && n < limit && p.tags[i] == 0; i++ {
		n++
	}
	return n
}

// findFree returns the first block of the lowest-index run of n free blocks.
func (p *Pool) findFree(n int) (int, bool) {
	if n <= 0 || n > len(p.tags) {
		return 0, false
	}
	if p.index != nil {
		return p.findFreeIndexed(n)
	}
	return p.findFreeScan(n)
}

// findFreeScan walks the block table once, tracking the current free run.
func (p *Pool) findFreeScan(n int) (int, bool) {
	start, free := 0, 0
	for i, tag := range p.tags {
		if tag != 0 {
			free = 0
			continue
		}
		if free == 0 {
			start = i
		}
		free++
		if free == n {
			return start, true
		}
	}
	return 0, false
}

// findFreeIndexed jumps between free and used runs with word-wide bit scans.
func (p *Pool) findFreeIndexed(n int) (int, bool) {
	blockCount := uint(len(p.tags))
	var i uint
	for i < blockCount {
		start, ok := p.index.NextClear(i)
		if !ok || start >= blockCount {
			return 0, false
		}
		end, ok := p.index.NextSet(start)
		if !ok || end > blockCount {
			end = blockCount
		}
		if end-start >= uint(n) {
			return int(start), true
		}
		i = end
	}
	return 0, false
}

// setRun writes tag into blocks [start, start+n).
func (p *Pool) setRun(start, n int, tag uint16) {
	for i := start; i < start+n; i++ {
		p.tags[i] = tag
		if p.index != nil {
			p.index.Set(uint(i))
		}
	}
}

// clearRun frees blocks [start, start+n).
func (p *Pool) clearRun(start, n int) {
	for i := start; i < start+n; i++ {
		p.tags[i] = 0
		if p.index != nil {
			p.index.Clear(uint(i))
		}
	}
}

// claim tags the first free run of n blocks and returns its start block.
func (p *Pool) claim(n int) (int, bool) {
	start, ok := p.findFree(n)
	if !ok {
		return 0, false
	}
	p.setRun(start, n, uint16(start+1))
	return start, true
}
