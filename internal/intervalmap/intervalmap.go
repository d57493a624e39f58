// Package intervalmap maps half-open intervals between the reference and
// target axes of a CIGAR alignment.
//
// The reference axis is the one consumed by D and N operations (the genome);
// the target axis is the one consumed by I operations (the transcript). M, X
// and = consume both. Every operation yields one block pair; blocks on the axis
// an operation does not consume are zero-width.
package intervalmap

import (
	"errors"
	"fmt"
	"sort"

	"github.com/biogo/hts/sam"
)

var (
	// ErrOutOfBounds is returned when a position falls outside the alignment.
	ErrOutOfBounds = errors.New("interval out of alignment bounds")
	// ErrInvertedInterval is returned when start > end.
	ErrInvertedInterval = errors.New("interval start after end")
)

// block is a half-open interval on one axis.
type block struct {
	Start, End int
}

// clip bounds pos to the block.
func (b block) clip(pos int) int {
	return max(b.Start, min(b.End, pos))
}

// Mapper holds the block pairs of one alignment. It is immutable after
// construction and safe for concurrent use.
type Mapper struct {
	ref, tgt []block
}

// FromCigar builds a Mapper from an alignment.
func FromCigar(c sam.Cigar) (*Mapper, error) {
	m := &Mapper{
		ref: make([]block, len(c)),
		tgt: make([]block, len(c)),
	}
	var refPos, tgtPos int
	for i, co := range c {
		switch co.Type() {
		case sam.CigarMatch, sam.CigarInsertion, sam.CigarDeletion,
			sam.CigarSkipped, sam.CigarMismatch, sam.CigarEqual:
		default:
			return nil, fmt.Errorf("build interval mapper: unsupported operation %q", co.Type())
		}
		con := co.Type().Consumes()
		refLen := co.Len() * con.Reference
		tgtLen := co.Len() * con.Query
		m.ref[i] = block{refPos, refPos + refLen}
		m.tgt[i] = block{tgtPos, tgtPos + tgtLen}
		refPos += refLen
		tgtPos += tgtLen
	}
	return m, nil
}

// RefLength returns the number of reference positions covered by the alignment.
func (m *Mapper) RefLength() int {
	if len(m.ref) == 0 {
		return 0
	}
	return m.ref[len(m.ref)-1].End
}

// TargetLength returns the number of target positions covered by the alignment.
func (m *Mapper) TargetLength() int {
	if len(m.tgt) == 0 {
		return 0
	}
	return m.tgt[len(m.tgt)-1].End
}

// MapRefToTarget maps the reference interval [start, end) onto the target axis.
func (m *Mapper) MapRefToTarget(start, end int, extend bool) (int, int, error) {
	return mapInterval(m.ref, m.tgt, start, end, extend)
}

// MapTargetToRef maps the target interval [start, end) onto the reference axis.
func (m *Mapper) MapTargetToRef(start, end int, extend bool) (int, int, error) {
	return mapInterval(m.tgt, m.ref, start, end, extend)
}

// mapInterval locates the blocks holding start and end on the from axis and
// translates the offsets into the matching to blocks.
//
// A position on a block boundary matches every block touching it. Without
// extend the start takes the last matching block and the end the first, so
// neighbouring insertions, deletions and introns are left out. With extend the
// start takes the first and the end the last, pulling them in.
//
// A zero-width query maps to a zero-width result through the first matching
// block, unless extend is set, in which case it spans the matching blocks.
func mapInterval(from, to []block, start, end int, extend bool) (int, int, error) {
	if start > end {
		return 0, 0, fmt.Errorf("map [%d, %d): %w", start, end, ErrInvertedInterval)
	}

	startLo, startHi := candidates(from, start)
	endLo, endHi := candidates(from, end)
	if startLo > startHi || endLo > endHi {
		return 0, 0, fmt.Errorf("map [%d, %d): %w", start, end, ErrOutOfBounds)
	}

	si, ei := startHi, endLo
	switch {
	case extend:
		si, ei = startLo, endHi
	case start == end:
		p := mapStart(from[startLo], to[startLo], start)
		return p, p, nil
	}
	return mapStart(from[si], to[si], start), mapEnd(from[ei], to[ei], end), nil
}

func mapStart(from, to block, pos int) int {
	return to.clip(to.Start + (pos - from.Start))
}

func mapEnd(from, to block, pos int) int {
	return to.clip(to.End - (from.End - pos))
}

// candidates returns the index range [lo, hi] of the blocks whose closed
// interval holds pos. lo > hi if there is none.
func candidates(blocks []block, pos int) (int, int) {
	lo := sort.Search(len(blocks), func(i int) bool { return blocks[i].End >= pos })
	hi := sort.Search(len(blocks), func(i int) bool { return blocks[i].Start > pos }) - 1
	return lo, hi
}
