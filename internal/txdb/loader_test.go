package txdb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInfoTSV = `# exported from uta
ac	gene	strand	cds_start_i	cds_end_i	descr	summary
NM_182763.2	MCL1	-1	211	1024	BCL2 family apoptosis regulator	Anti-apoptotic
NM_000001.1	GENE1	+	0	90
NR_000002.1	GENE2		\N	\N	non-coding
`

const testExonsTSV = `ac	ref	ord	name	t_start_i	t_end_i	g_start_i	g_end_i	g_cigar
NM_000001.1	GRCh37.p10	0	1	0	50	100	150	50M
NM_000001.1	GRCh37.p10	1	2	50	110	200	260	60M

NM_000001.1	GRCh38	0	1	0	110	1000	1110	110M
`

func writeFile(t *testing.T, name, content string, gz bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	if gz {
		w := gzip.NewWriter(f)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, w.Close())
		return path
	}
	_, err = f.WriteString(content)
	require.NoError(t, err)
	return path
}

func TestLoadTranscriptInfo(t *testing.T) {
	m := NewMemory()
	n, err := LoadTranscriptInfo(writeFile(t, "tx_info.tsv", testInfoTSV, false), m)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	info, err := m.TranscriptInfo("NM_182763.2")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "MCL1", info.Gene)
	assert.Equal(t, int8(-1), info.Strand)
	assert.Equal(t, 211, info.CDSStart)
	assert.Equal(t, 1024, info.CDSEnd)
	assert.Equal(t, "Anti-apoptotic", info.Summary)

	info, err = m.TranscriptInfo("NM_000001.1")
	require.NoError(t, err)
	assert.Equal(t, int8(1), info.Strand)
	assert.Equal(t, "", info.Description)

	info, err = m.TranscriptInfo("NR_000002.1")
	require.NoError(t, err)
	assert.Equal(t, int8(0), info.Strand)
	assert.False(t, info.IsProteinCoding())
}

func TestLoadExons_Gzip(t *testing.T) {
	for _, gz := range []bool{false, true} {
		m := NewMemory()
		n, err := LoadExons(writeFile(t, "tx_exons.tsv.gz", testExonsTSV, gz), m)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		exons, err := m.TranscriptExons("NM_000001.1", "GRCh37.p10")
		require.NoError(t, err)
		require.Len(t, exons, 2)
		assert.Equal(t, ExonAlignment{
			Accession: "NM_000001.1", Reference: "GRCh37.p10", Ord: 1, Name: "2",
			TStart: 50, TEnd: 110, GStart: 200, GEnd: 260, Cigar: "60M",
		}, exons[1])
		assert.Equal(t, 60, exons[1].Len())

		exons, err = m.TranscriptExons("NM_000001.1", "GRCh38")
		require.NoError(t, err)
		assert.Len(t, exons, 1)
	}
}

func TestLoadExons_IntoStore(t *testing.T) {
	s := openInMemory(t)

	_, err := LoadTranscriptInfo(writeFile(t, "tx_info.tsv", testInfoTSV, true), s)
	require.NoError(t, err)
	_, err = LoadExons(writeFile(t, "tx_exons.tsv", testExonsTSV, false), s)
	require.NoError(t, err)

	count, err := s.TranscriptCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	exons, err := s.TranscriptExons("NM_000001.1", "GRCh37.p10")
	require.NoError(t, err)
	assert.Len(t, exons, 2)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		load    func(string, Sink) (int, error)
		wantErr string
	}{
		{
			name:    "missing column",
			content: "ac\tref\tord\n",
			load:    LoadExons,
			wantErr: `missing required column "t_start_i"`,
		},
		{
			name:    "bad integer",
			content: strings.Replace(testExonsTSV, "\t50\t100\t", "\tfifty\t100\t", 1),
			load:    LoadExons,
			wantErr: "line 2: t_end_i",
		},
		{
			name:    "bad strand",
			content: "ac\tgene\tstrand\tcds_start_i\tcds_end_i\nNM_1\tG\tx\t0\t0\n",
			load:    LoadTranscriptInfo,
			wantErr: `invalid strand "x"`,
		},
		{
			name:    "empty file",
			content: "# nothing here\n",
			load:    LoadTranscriptInfo,
			wantErr: "missing header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.load(writeFile(t, "in.tsv", tt.content, false), NewMemory())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := LoadExons(filepath.Join(t.TempDir(), "missing.tsv"), NewMemory())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
