package blockarena

import (
	"fmt"
	"io"
	"strings"
)

// mapRowBlocks is the number of block tags WriteMap prints per line.
const mapRowBlocks = 16

// Check verifies the block table invariants: every tagged block belongs to
// one contiguous run that starts at block tag-1, and the occupancy index, if
// enabled, agrees with the table. It returns an error wrapping ErrCorrupt
// describing the first violation found.
func (p *Pool) Check() error {
	for i, tag := range p.tags {
		if tag == 0 {
			continue
		}
		start := runStart(tag)
		if start > i {
			return fmt.Errorf("%w: block %d has tag %d but its run would start at block %d", ErrCorrupt, i, tag, start)
		}
		if i > start && p.tags[i-1] != tag {
			return fmt.Errorf("%w: block %d has tag %d but block %d has tag %d", ErrCorrupt, i, tag, i-1, p.tags[i-1])
		}
	}
	if p.index == nil {
		return nil
	}
	for i, tag := range p.tags {
		if p.index.Test(uint(i)) != (tag != 0) {
			return fmt.Errorf("%w: occupancy index disagrees with block %d (tag %d)", ErrCorrupt, i, tag)
		}
	}
	return nil
}

// WriteMap writes the block table to w, mapRowBlocks tags per line, each
// line prefixed with the offset of its first block. Free blocks print as '.'.
//
//	0x0000:    1    2    2    4
func (p *Pool) WriteMap(w io.Writer) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "blocks=%d block_size=%d in_use=%d\n", len(p.tags), p.blockSize, p.BlocksInUse())
	for i, tag := range p.tags {
		if i%mapRowBlocks == 0 {
			if i > 0 {
				sb.WriteByte('\n')
			}
			fmt.Fprintf(&sb, "0x%04x:", i*p.blockSize)
		}
		if tag == 0 {
			sb.WriteString("    .")
		} else {
			fmt.Fprintf(&sb, " %4d", tag)
		}
	}
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}
