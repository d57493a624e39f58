package txdb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Column names of the tab-separated exports read by the loaders.
var (
	infoColumns = []string{"ac", "gene", "strand", "cds_start_i", "cds_end_i"}
	exonColumns = []string{"ac", "ref", "ord", "t_start_i", "t_end_i", "g_start_i", "g_end_i", "g_cigar"}
)

// LoadTranscriptInfo reads a tx_info export into dst and returns the number of rows.
// Required columns: ac, gene, strand, cds_start_i, cds_end_i. Optional: descr, summary.
func LoadTranscriptInfo(path string, dst Sink) (int, error) {
	f, reader, err := openTSV(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	err = scanTSV(reader, infoColumns, func(lineNum int, row map[string]string) error {
		strand, err := parseStrand(row["strand"])
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
		cdsStart, err := parseOptionalInt(row["cds_start_i"])
		if err != nil {
			return fmt.Errorf("line %d: cds_start_i: %w", lineNum, err)
		}
		cdsEnd, err := parseOptionalInt(row["cds_end_i"])
		if err != nil {
			return fmt.Errorf("line %d: cds_end_i: %w", lineNum, err)
		}
		n++
		return dst.InsertTranscript(&TranscriptInfo{
			Accession:   row["ac"],
			Gene:        row["gene"],
			Description: row["descr"],
			Summary:     row["summary"],
			Strand:      strand,
			CDSStart:    cdsStart,
			CDSEnd:      cdsEnd,
		})
	})
	return n, err
}

// LoadExons reads a tx_exons export into dst and returns the number of rows.
// Required columns: ac, ref, ord, t_start_i, t_end_i, g_start_i, g_end_i, g_cigar.
// Optional: name.
func LoadExons(path string, dst Sink) (int, error) {
	f, reader, err := openTSV(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var exons []ExonAlignment
	err = scanTSV(reader, exonColumns, func(lineNum int, row map[string]string) error {
		var ints [5]int
		for i, col := range []string{"ord", "t_start_i", "t_end_i", "g_start_i", "g_end_i"} {
			v, err := strconv.Atoi(row[col])
			if err != nil {
				return fmt.Errorf("line %d: %s: %w", lineNum, col, err)
			}
			ints[i] = v
		}
		exons = append(exons, ExonAlignment{
			Accession: row["ac"],
			Reference: row["ref"],
			Ord:       ints[0],
			Name:      row["name"],
			TStart:    ints[1],
			TEnd:      ints[2],
			GStart:    ints[3],
			GEnd:      ints[4],
			Cigar:     row["g_cigar"],
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	if err := dst.InsertExons(exons); err != nil {
		return 0, err
	}
	return len(exons), nil
}

// openTSV opens path, transparently decompressing gzip input.
func openTSV(path string) (io.Closer, io.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}

	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("open gzip reader: %w", err)
		}
		return multiCloser{gz, f}, gz, nil
	}
	return f, br, nil
}

type multiCloser []io.Closer

func (mc multiCloser) Close() error {
	var first error
	for _, c := range mc {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// scanTSV calls fn for every data row keyed by header column name.
func scanTSV(reader io.Reader, required []string, fn func(lineNum int, row map[string]string) error) error {
	scanner := bufio.NewScanner(reader)
	// Summaries can be long
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var header []string
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		// Skip comments and empty lines
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if header == nil {
			header = fields
			if err := checkColumns(header, required); err != nil {
				return err
			}
			continue
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(fields) {
				row[col] = fields[i]
			}
		}
		if err := fn(lineNum, row); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read tsv: %w", err)
	}
	if header == nil {
		return fmt.Errorf("read tsv: missing header")
	}
	return nil
}

func checkColumns(header, required []string) error {
	have := make(map[string]bool, len(header))
	for _, col := range header {
		have[col] = true
	}
	for _, col := range required {
		if !have[col] {
			return fmt.Errorf("missing required column %q", col)
		}
	}
	return nil
}

// parseStrand accepts 1/-1, +/- and an empty value for unknown.
func parseStrand(s string) (int8, error) {
	switch s {
	case "1", "+1", "+":
		return 1, nil
	case "-1", "-":
		return -1, nil
	case "", "0", ".", "NULL", "\\N":
		return 0, nil
	}
	return 0, fmt.Errorf("invalid strand %q", s)
}

func parseOptionalInt(s string) (int, error) {
	if s == "" || s == "NULL" || s == "\\N" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
