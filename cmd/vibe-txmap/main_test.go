package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/inodb/vibe-txmap/internal/txdb"
)

// newTestDatabase writes a plus-strand transcript with CDS [10, 100) and exons
// [100,150) and [200,260) to a DuckDB file.
func newTestDatabase(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "uta.duckdb")
	s, err := txdb.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.InsertTranscript(&txdb.TranscriptInfo{
		Accession: "NM_PLUS.1", Gene: "TEST", Strand: 1, CDSStart: 10, CDSEnd: 100,
	}))
	require.NoError(t, s.InsertExons([]txdb.ExonAlignment{
		{Accession: "NM_PLUS.1", Reference: testRef, Ord: 0, TStart: 0, TEnd: 50, GStart: 100, GEnd: 150, Cigar: "50M"},
		{Accession: "NM_PLUS.1", Reference: testRef, Ord: 1, TStart: 50, TEnd: 110, GStart: 200, GEnd: 260, Cigar: "60M"},
	}))
	require.NoError(t, s.Close())
	return path
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	t.Cleanup(func() {
		viper.Reset()
		logger = zap.NewNop()
	})

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestMap_NegativeCDS(t *testing.T) {
	db := newTestDatabase(t)

	tests := []struct {
		name string
		args []string
	}{
		{"start and end flags", []string{"map", "NM_PLUS.1", "--start", "-3", "--end", "0", "--from", "c", "--to", "g", "--db", db}},
		{"equals form", []string{"map", "NM_PLUS.1", "--start=-3", "--end=0", "--from", "c", "--to", "g", "--db", db}},
		{"separator", []string{"map", "--from", "c", "--to", "g", "--db", db, "--", "NM_PLUS.1", "-3", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runRoot(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, "NM_PLUS.1\tc:[-3, 0)\tg:[107, 110)\n", out)
		})
	}
}

func TestMap_NegativeCDSRoundTrip(t *testing.T) {
	db := newTestDatabase(t)

	out, err := runRoot(t, "map", "NM_PLUS.1", "5", "10", "--from", "r", "--to", "c", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "NM_PLUS.1\tr:[5, 10)\tc:[-5, 0)\n", out)

	out, err = runRoot(t, "map", "NM_PLUS.1", "--start", "-5", "--end", "0", "--from", "c", "--to", "r", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "NM_PLUS.1\tc:[-5, 0)\tr:[5, 10)\n", out)
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"negative positional", []string{"map", "NM_PLUS.1", "-3", "0", "--from", "c"}, "--start/--end"},
		{"missing end", []string{"map", "NM_PLUS.1", "5"}, "expected <accession> <start> <end>"},
		{"too many arguments", []string{"map", "NM_PLUS.1", "1", "2", "3"}, "accepts between 1 and 3 arg(s)"},
		{"no interval", []string{"map", "NM_PLUS.1"}, "missing interval"},
		{"flags and arguments", []string{"map", "NM_PLUS.1", "1", "2", "--start", "1"}, "not both"},
		{"only start flag", []string{"map", "NM_PLUS.1", "--start", "-1"}, "missing interval"},
		{"show without accession", []string{"show"}, "accepts 1 arg(s)"},
		{"load with argument", []string{"load", "tx_info.tsv"}, "unknown command"},
		{"config get without key", []string{"config", "get"}, "accepts 1 arg(s)"},
		{"unknown flag", []string{"show", "NM_PLUS.1", "--bogus"}, "unknown flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runRoot(t, tt.args...)
			require.Error(t, err)
			assert.True(t, isUsageError(err), "error %q should be a usage error", err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMap_DataErrorIsNotUsageError(t *testing.T) {
	db := newTestDatabase(t)
	_, err := runRoot(t, "map", "NM_MISSING.1", "0", "1", "--db", db)
	require.Error(t, err)
	assert.False(t, isUsageError(err))
}
