package txdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	m := NewMemory()

	info, err := m.TranscriptInfo("NM_000001.1")
	require.NoError(t, err)
	assert.Nil(t, info)

	require.NoError(t, m.InsertTranscript(&TranscriptInfo{
		Accession: "NM_000001.1", Gene: "GENE1", Strand: -1, CDSStart: 10, CDSEnd: 70,
	}))
	require.NoError(t, m.InsertExons([]ExonAlignment{
		{Accession: "NM_000001.1", Reference: "GRCh37.p10", Ord: 0, GStart: 500, GEnd: 560, Cigar: "60M"},
		{Accession: "NM_000001.1", Reference: "GRCh37.p10", Ord: 1, GStart: 100, GEnd: 140, Cigar: "40M"},
		{Accession: "NM_000001.1", Reference: "NC_000001.10", Ord: 0, GStart: 7, GEnd: 8, Cigar: "1M"},
	}))

	info, err = m.TranscriptInfo("NM_000001.1")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "GENE1", info.Gene)
	assert.True(t, info.IsReverseStrand())
	assert.True(t, info.IsProteinCoding())

	exons, err := m.TranscriptExons("NM_000001.1", "GRCh37.p10")
	require.NoError(t, err)
	require.Len(t, exons, 2)
	// Sorted by genomic start
	assert.Equal(t, 100, exons[0].GStart)
	assert.Equal(t, 500, exons[1].GStart)

	exons, err = m.TranscriptExons("NM_000001.1", "GRCh38")
	require.NoError(t, err)
	assert.Empty(t, exons)

	assert.Equal(t, 1, m.TranscriptCount())
	assert.Equal(t, []string{"GRCh37.p10", "NC_000001.10"}, m.References("NM_000001.1"))
}

func TestMemory_ReturnsCopies(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.InsertTranscript(&TranscriptInfo{Accession: "NM_1", Strand: 1}))
	require.NoError(t, m.InsertExons([]ExonAlignment{
		{Accession: "NM_1", Reference: "R", GStart: 0, GEnd: 10, Cigar: "10M"},
	}))

	info, _ := m.TranscriptInfo("NM_1")
	info.Strand = -1
	exons, _ := m.TranscriptExons("NM_1", "R")
	exons[0].Cigar = "5M5M"

	info, _ = m.TranscriptInfo("NM_1")
	assert.Equal(t, int8(1), info.Strand)
	exons, _ = m.TranscriptExons("NM_1", "R")
	assert.Equal(t, "10M", exons[0].Cigar)
}

func TestMemory_InsertExonsReplacesByOrd(t *testing.T) {
	m := NewMemory()
	exons := []ExonAlignment{
		{Accession: "NM_1", Reference: "R", Ord: 0, GStart: 100, GEnd: 150, Cigar: "50M"},
		{Accession: "NM_1", Reference: "R", Ord: 1, GStart: 200, GEnd: 260, Cigar: "60M"},
	}
	require.NoError(t, m.InsertExons(exons))
	require.NoError(t, m.InsertExons(exons))

	got, err := m.TranscriptExons("NM_1", "R")
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.NoError(t, m.InsertExons([]ExonAlignment{
		{Accession: "NM_1", Reference: "R", Ord: 1, GStart: 200, GEnd: 259, Cigar: "59M"},
	}))
	got, err = m.TranscriptExons("NM_1", "R")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "59M", got[1].Cigar)

	// Same file loaded twice behaves like the store
	path := writeFile(t, "tx_exons.tsv", testExonsTSV, false)
	m = NewMemory()
	_, err = LoadExons(path, m)
	require.NoError(t, err)
	_, err = LoadExons(path, m)
	require.NoError(t, err)
	got, err = m.TranscriptExons("NM_000001.1", "GRCh37.p10")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
