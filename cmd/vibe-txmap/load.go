package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-txmap/internal/txdb"
)

func newLoadCmd() *cobra.Command {
	var infoPath, exonsPath string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Import transcript info and exon alignments into the database",
		Long: `Import UTA-style tab-separated exports into the transcript database.

The transcript info file needs the columns ac, gene, strand, cds_start_i and
cds_end_i. The exon file needs ac, ref, ord, t_start_i, t_end_i, g_start_i,
g_end_i and g_cigar. Files may be gzip compressed. Existing rows with the
same key are replaced.`,
		Example: `  vibe-txmap load --info tx_info.tsv.gz --exons tx_exons.tsv.gz
  vibe-txmap load --db grch38.duckdb --exons tx_exons_grch38.tsv`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if infoPath == "" && exonsPath == "" {
				return &usageError{"at least one of --info or --exons is required"}
			}
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			return runLoad(cmd.ErrOrStderr(), s, infoPath, exonsPath)
		},
	}

	cmd.Flags().StringVar(&infoPath, "info", "", "Transcript info TSV (optionally gzipped)")
	cmd.Flags().StringVar(&exonsPath, "exons", "", "Exon alignment TSV (optionally gzipped)")

	return cmd
}

// loadTarget is a sink that can also report how many transcripts it holds.
type loadTarget interface {
	txdb.Sink
	TranscriptCount() (int, error)
}

func runLoad(w io.Writer, dst loadTarget, infoPath, exonsPath string) error {
	start := time.Now()

	if infoPath != "" {
		fmt.Fprintf(w, "Loading transcript info from %s...\n", infoPath)
		n, err := txdb.LoadTranscriptInfo(infoPath, dst)
		if err != nil {
			return fmt.Errorf("load transcript info: %w", err)
		}
		fmt.Fprintf(w, "  Transcripts: %d\n", n)
		logger.Debug("loaded transcript info", zap.String("path", infoPath), zap.Int("rows", n))
	}

	if exonsPath != "" {
		fmt.Fprintf(w, "Loading exon alignments from %s...\n", exonsPath)
		n, err := txdb.LoadExons(exonsPath, dst)
		if err != nil {
			return fmt.Errorf("load exons: %w", err)
		}
		fmt.Fprintf(w, "  Exon alignments: %d\n", n)
		logger.Debug("loaded exon alignments", zap.String("path", exonsPath), zap.Int("rows", n))
	}

	total, err := dst.TranscriptCount()
	if err != nil {
		return fmt.Errorf("count transcripts: %w", err)
	}
	if total == 0 {
		fmt.Fprintln(w, "Warning: database contains no transcripts")
	}
	fmt.Fprintf(w, "Done in %s (%d transcripts in database)\n", time.Since(start).Round(time.Millisecond), total)
	return nil
}
