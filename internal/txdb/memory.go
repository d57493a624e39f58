package txdb

import (
	"sort"
)

// Memory is an in-memory Provider. It is not safe for concurrent writes.
type Memory struct {
	// info stores transcript metadata indexed by accession
	info map[string]*TranscriptInfo
	// exons stores exon alignments indexed by accession, then reference
	exons map[string]map[string][]ExonAlignment
}

// NewMemory creates a new empty in-memory provider.
func NewMemory() *Memory {
	return &Memory{
		info:  make(map[string]*TranscriptInfo),
		exons: make(map[string]map[string][]ExonAlignment),
	}
}

// InsertTranscript adds or replaces transcript metadata.
func (m *Memory) InsertTranscript(info *TranscriptInfo) error {
	ti := *info
	m.info[info.Accession] = &ti
	return nil
}

// InsertExons adds exon alignments, replacing any exon with the same
// accession, reference and ordinal. Exons are kept sorted by genomic start
// within each accession and reference.
func (m *Memory) InsertExons(exons []ExonAlignment) error {
	touched := make(map[[2]string]bool)
	for _, e := range exons {
		byRef, ok := m.exons[e.Accession]
		if !ok {
			byRef = make(map[string][]ExonAlignment)
			m.exons[e.Accession] = byRef
		}
		byRef[e.Reference] = replaceExon(byRef[e.Reference], e)
		touched[[2]string{e.Accession, e.Reference}] = true
	}
	for k := range touched {
		list := m.exons[k[0]][k[1]]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].GStart < list[j].GStart
		})
	}
	return nil
}

func replaceExon(list []ExonAlignment, e ExonAlignment) []ExonAlignment {
	for i := range list {
		if list[i].Ord == e.Ord {
			list[i] = e
			return list
		}
	}
	return append(list, e)
}

// TranscriptInfo returns a copy of the metadata for ac, or nil if not found.
func (m *Memory) TranscriptInfo(ac string) (*TranscriptInfo, error) {
	ti, ok := m.info[ac]
	if !ok {
		return nil, nil
	}
	cp := *ti
	return &cp, nil
}

// TranscriptExons returns a copy of the exons of ac aligned to ref.
func (m *Memory) TranscriptExons(ac, ref string) ([]ExonAlignment, error) {
	list := m.exons[ac][ref]
	if len(list) == 0 {
		return nil, nil
	}
	out := make([]ExonAlignment, len(list))
	copy(out, list)
	return out, nil
}

// TranscriptCount returns the number of transcripts with metadata.
func (m *Memory) TranscriptCount() int {
	return len(m.info)
}

// References returns the sorted references ac has exon alignments on.
func (m *Memory) References(ac string) []string {
	refs := make([]string, 0, len(m.exons[ac]))
	for ref := range m.exons[ac] {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}
