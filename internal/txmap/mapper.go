// Package txmap converts intervals between genomic, transcript and CDS
// coordinates for a single transcript aligned to a reference.
//
// All coordinates are interbase: zero-based, half-open [start, end).
//
//	gs, ge = genomic start, end
//	rs, re = transcript (RNA) start, end
//	cs, ce = CDS start, end
//
// CDS coordinates are continuous, unlike HGVS c. positions which skip 0.
package txmap

import (
	"fmt"

	"github.com/biogo/hts/sam"
	"go.uber.org/zap"

	"github.com/inodb/vibe-txmap/internal/cigar"
	"github.com/inodb/vibe-txmap/internal/intervalmap"
	"github.com/inodb/vibe-txmap/internal/txdb"
)

// DefaultReference is the reference used when none is given.
const DefaultReference = "GRCh37.p10"

// Mapper maps intervals for one transcript on one reference. It is immutable
// after New returns and may be shared between goroutines.
type Mapper struct {
	ac        string
	ref       string
	info      txdb.TranscriptInfo
	strand    Strand
	cdsStart  int
	cdsEnd    int
	gcOffset  int
	exonCount int
	cigar     sam.Cigar
	im        *intervalmap.Mapper
}

// Option configures New.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used while building the mapper.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New fetches ac from p and builds its alignment against ref.
func New(p txdb.Provider, ac, ref string, opts ...Option) (*Mapper, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	fail := func(err error) (*Mapper, error) {
		return nil, &ConstructionError{Accession: ac, Reference: ref, Err: err}
	}

	info, err := p.TranscriptInfo(ac)
	if err != nil {
		return fail(fmt.Errorf("fetch transcript info: %w", err))
	}
	if info == nil {
		return fail(ErrTranscriptNotFound)
	}
	exons, err := p.TranscriptExons(ac, ref)
	if err != nil {
		return fail(fmt.Errorf("fetch exons: %w", err))
	}
	if len(exons) == 0 {
		return fail(ErrNoExons)
	}

	strand, err := ParseStrand(info.Strand)
	if err != nil {
		return fail(err)
	}

	tx, err := cigar.BuildTranscript(exons, int8(strand))
	if err != nil {
		return fail(fmt.Errorf("build transcript cigar: %w", err))
	}
	im, err := intervalmap.FromCigar(tx)
	if err != nil {
		return fail(err)
	}

	m := &Mapper{
		ac:        ac,
		ref:       ref,
		info:      *info,
		strand:    strand,
		cdsStart:  info.CDSStart,
		cdsEnd:    info.CDSEnd,
		gcOffset:  exons[0].GStart,
		exonCount: len(exons),
		cigar:     tx,
		im:        im,
	}

	o.logger.Debug("built transcript mapper",
		zap.String("ac", ac),
		zap.String("ref", ref),
		zap.String("strand", strand.Symbol()),
		zap.Int("exons", len(exons)),
		zap.Int("offset", m.gcOffset),
		zap.String("cigar", cigar.Format(tx)))

	return m, nil
}

// Accession returns the transcript accession.
func (m *Mapper) Accession() string { return m.ac }

// Reference returns the reference the transcript is aligned to.
func (m *Mapper) Reference() string { return m.ref }

// Strand returns the transcript orientation.
func (m *Mapper) Strand() Strand { return m.strand }

// CDSStart returns the CDS start in transcript coordinates.
func (m *Mapper) CDSStart() int { return m.cdsStart }

// CDSEnd returns the CDS end in transcript coordinates.
func (m *Mapper) CDSEnd() int { return m.cdsEnd }

// GenomicOffset returns the genomic start of the first exon.
func (m *Mapper) GenomicOffset() int { return m.gcOffset }

// ExonCount returns the number of exons in the alignment.
func (m *Mapper) ExonCount() int { return m.exonCount }

// TranscriptLength returns the transcript length implied by the alignment.
func (m *Mapper) TranscriptLength() int { return m.im.TargetLength() }

// Cigar returns the transcript-to-genome alignment string.
func (m *Mapper) Cigar() string { return cigar.Format(m.cigar) }

// Info returns a copy of the transcript metadata.
func (m *Mapper) Info() txdb.TranscriptInfo { return m.info }

func (m *Mapper) String() string {
	return fmt.Sprintf("TranscriptMapper: %s ~ %s; %s strand; %d exons; offset=%d",
		m.ac, m.ref, m.strand.Symbol(), m.exonCount, m.gcOffset)
}

// GenomicToTranscript maps a genomic interval onto the transcript.
func (m *Mapper) GenomicToTranscript(gs, ge int) (rs, re int, err error) {
	// frs, fre: transcript interval, forward with respect to the genome
	frs, fre, err := m.im.MapRefToTarget(gs-m.gcOffset, ge-m.gcOffset, false)
	if err != nil {
		return 0, 0, fmt.Errorf("map genomic [%d, %d) on %s: %w", gs, ge, m.ac, err)
	}
	switch m.strand {
	case Plus:
		return frs, fre, nil
	case Minus:
		n := m.im.TargetLength()
		return n - fre, n - frs, nil
	}
	return 0, 0, fmt.Errorf("%w: strand %d", ErrInvariant, m.strand)
}

// TranscriptToGenomic maps a transcript interval onto the genome.
func (m *Mapper) TranscriptToGenomic(rs, re int) (gs, ge int, err error) {
	var frs, fre int
	switch m.strand {
	case Plus:
		frs, fre = rs, re
	case Minus:
		n := m.im.TargetLength()
		frs, fre = n-re, n-rs
	default:
		return 0, 0, fmt.Errorf("%w: strand %d", ErrInvariant, m.strand)
	}
	gs, ge, err = m.im.MapTargetToRef(frs, fre, false)
	if err != nil {
		return 0, 0, fmt.Errorf("map transcript [%d, %d) on %s: %w", rs, re, m.ac, err)
	}
	return gs + m.gcOffset, ge + m.gcOffset, nil
}

// TranscriptToCDS shifts a transcript interval so that the CDS starts at 0.
func (m *Mapper) TranscriptToCDS(rs, re int) (cs, ce int) {
	return rs - m.cdsStart, re - m.cdsStart
}

// CDSToTranscript is the inverse of TranscriptToCDS.
func (m *Mapper) CDSToTranscript(cs, ce int) (rs, re int) {
	return cs + m.cdsStart, ce + m.cdsStart
}

// GenomicToCDS maps a genomic interval to CDS coordinates.
// Intronic positions are not given offsets.
func (m *Mapper) GenomicToCDS(gs, ge int) (cs, ce int, err error) {
	rs, re, err := m.GenomicToTranscript(gs, ge)
	if err != nil {
		return 0, 0, err
	}
	cs, ce = m.TranscriptToCDS(rs, re)
	return cs, ce, nil
}

// CDSToGenomic maps a CDS interval to genomic coordinates.
func (m *Mapper) CDSToGenomic(cs, ce int) (gs, ge int, err error) {
	rs, re := m.CDSToTranscript(cs, ce)
	return m.TranscriptToGenomic(rs, re)
}
