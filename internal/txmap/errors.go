package txmap

import (
	"errors"
	"fmt"
)

var (
	// ErrTranscriptNotFound is returned when the provider has no metadata for an accession.
	ErrTranscriptNotFound = errors.New("transcript not found")
	// ErrNoExons is returned when no exons are aligned to the requested reference.
	ErrNoExons = errors.New("no exons")
	// ErrInvariant reports corrupted mapper state. It is not recoverable.
	ErrInvariant = errors.New("transcript mapper invariant violated")
)

// ConstructionError is returned by New when a Mapper cannot be built.
type ConstructionError struct {
	Accession string
	Reference string
	Err       error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("couldn't build transcript mapper (ref=%s, ac=%s): %v", e.Reference, e.Accession, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}
