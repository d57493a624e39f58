// Package cigar builds transcript-to-genome alignments from per-exon CIGAR strings.
package cigar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/biogo/hts/sam"

	"github.com/inodb/vibe-txmap/internal/txdb"
)

var (
	// ErrUnsupportedOp is returned for CIGAR operations other than M, I, D, N, X and =.
	ErrUnsupportedOp = errors.New("unsupported cigar operation")
	// ErrNegativeIntron is returned when an exon starts before the previous one ends.
	ErrNegativeIntron = errors.New("negative intron length")
)

// Parse parses a CIGAR string such as "100M2I48M".
func Parse(s string) (sam.Cigar, error) {
	if s == "" {
		return sam.Cigar{}, nil
	}
	c, err := sam.ParseCigar([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("parse cigar %q: %w", s, err)
	}
	for _, co := range c {
		switch co.Type() {
		case sam.CigarMatch, sam.CigarInsertion, sam.CigarDeletion,
			sam.CigarSkipped, sam.CigarMismatch, sam.CigarEqual:
		default:
			return nil, fmt.Errorf("parse cigar %q: %w %q", s, ErrUnsupportedOp, co.Type())
		}
	}
	return c, nil
}

// Format returns the <length><op> string form. An empty alignment formats as "".
func Format(c sam.Cigar) string {
	var b strings.Builder
	for _, co := range c {
		b.WriteString(co.String())
	}
	return b.String()
}

// Reverse returns a new Cigar with the operations in reverse order.
func Reverse(c sam.Cigar) sam.Cigar {
	r := make(sam.Cigar, len(c))
	for i, co := range c {
		r[len(c)-1-i] = co
	}
	return r
}

// BuildTranscript concatenates the exon alignments of one transcript, separated
// by N operations spanning the introns. Exons must be ordered by genomic start.
// On the minus strand each exon CIGAR is reversed so that the alignment reads in
// transcript 5' to 3' order; the exon records themselves are not modified.
// A nil Cigar is returned for an empty exon list.
func BuildTranscript(exons []txdb.ExonAlignment, strand int8) (sam.Cigar, error) {
	if len(exons) == 0 {
		return nil, nil
	}

	var tx sam.Cigar
	for i := range exons {
		ex := &exons[i]
		c, err := Parse(ex.Cigar)
		if err != nil {
			return nil, fmt.Errorf("exon %d: %w", ex.Ord, err)
		}
		if strand == -1 {
			c = Reverse(c)
		}

		if i > 0 {
			prev := &exons[i-1]
			intron := ex.GStart - prev.GEnd
			if intron < 0 {
				return nil, fmt.Errorf("exons %d and %d: %w (%d)", prev.Ord, ex.Ord, ErrNegativeIntron, intron)
			}
			tx = append(tx, sam.NewCigarOp(sam.CigarSkipped, intron))
		}
		tx = append(tx, c...)
	}
	return tx, nil
}
