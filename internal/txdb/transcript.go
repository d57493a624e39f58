// Package txdb provides transcript metadata and exon alignment lookup.
package txdb

// TranscriptInfo holds per-transcript metadata.
// CDS bounds are transcript-local, zero-based, half-open.
type TranscriptInfo struct {
	Accession   string // Transcript accession (e.g., NM_182763.2)
	Gene        string // Gene symbol
	Description string // Gene description
	Summary     string // Free-text gene summary
	Strand      int8   // +1, -1, or 0 if unknown
	CDSStart    int    // CDS start (transcript), 0 if non-coding
	CDSEnd      int    // CDS end (transcript), 0 if non-coding
}

// ExonAlignment describes how one exon of a transcript aligns to a reference.
// Coordinates are zero-based, half-open.
type ExonAlignment struct {
	Accession string // Transcript accession
	Reference string // Reference assembly or sequence (e.g., GRCh37.p10)
	Ord       int    // Ordinal position among the exons (0-based)
	Name      string // Exon name, may be empty
	TStart    int    // Transcript start
	TEnd      int    // Transcript end
	GStart    int    // Genomic start
	GEnd      int    // Genomic end
	Cigar     string // Exon-to-genome alignment, genomic-forward
}

// Provider supplies transcript data to the coordinate mapper.
type Provider interface {
	// TranscriptInfo returns nil, nil when the accession is unknown.
	TranscriptInfo(ac string) (*TranscriptInfo, error)
	// TranscriptExons returns exons ordered by genomic start. The slice may be empty.
	TranscriptExons(ac, ref string) ([]ExonAlignment, error)
}

// Sink receives transcript data from the loaders.
type Sink interface {
	InsertTranscript(info *TranscriptInfo) error
	InsertExons(exons []ExonAlignment) error
}

// IsForwardStrand returns true if the transcript is on the forward strand.
func (ti *TranscriptInfo) IsForwardStrand() bool {
	return ti.Strand == 1
}

// IsReverseStrand returns true if the transcript is on the reverse strand.
func (ti *TranscriptInfo) IsReverseStrand() bool {
	return ti.Strand == -1
}

// IsProteinCoding returns true if the transcript has a coding region.
func (ti *TranscriptInfo) IsProteinCoding() bool {
	return ti.CDSEnd > ti.CDSStart
}

// Len returns the exon length on the transcript.
func (e *ExonAlignment) Len() int {
	return e.TEnd - e.TStart
}
