package txmap

import (
	"errors"
	"fmt"
)

// ErrInvalidStrand is returned when a transcript strand is neither +1 nor -1.
var ErrInvalidStrand = errors.New("invalid strand")

// Strand is the genomic orientation of a transcript.
type Strand int8

const (
	Plus  Strand = 1
	Minus Strand = -1
)

// ParseStrand converts a raw +1/-1 strand value.
func ParseStrand(v int8) (Strand, error) {
	switch Strand(v) {
	case Plus, Minus:
		return Strand(v), nil
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidStrand, v)
}

// Symbol returns "+" or "-", and "?" for an invalid value.
func (s Strand) Symbol() string {
	switch s {
	case Plus:
		return "+"
	case Minus:
		return "-"
	}
	return "?"
}

func (s Strand) String() string {
	return s.Symbol()
}
