package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-txmap/internal/txmap"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <accession>",
		Short: "Show the alignment used to map a transcript",
		Example: `  vibe-txmap show NM_182763.2
  vibe-txmap show NM_182763.2 --ref NC_000001.10`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			m, err := txmap.New(s, args[0], viper.GetString("reference"), txmap.WithLogger(logger.Named("txmap")))
			if err != nil {
				return err
			}
			refs, err := s.References(args[0])
			if err != nil {
				return err
			}
			writeTranscript(cmd.OutOrStdout(), m, refs)
			return nil
		},
	}
}

func writeTranscript(w io.Writer, m *txmap.Mapper, refs []string) {
	info := m.Info()
	fmt.Fprintln(w, m.String())
	if info.Gene != "" {
		fmt.Fprintf(w, "  Gene:        %s\n", info.Gene)
	}
	if info.Description != "" {
		fmt.Fprintf(w, "  Description: %s\n", info.Description)
	}
	fmt.Fprintf(w, "  Strand:      %s\n", m.Strand().Symbol())
	fmt.Fprintf(w, "  Length:      %d\n", m.TranscriptLength())
	if info.IsProteinCoding() {
		fmt.Fprintf(w, "  CDS:         [%d, %d)\n", m.CDSStart(), m.CDSEnd())
	} else {
		fmt.Fprintln(w, "  CDS:         none")
	}
	fmt.Fprintf(w, "  CIGAR:       %s\n", m.Cigar())
	if len(refs) > 0 {
		fmt.Fprintf(w, "  Aligned to:  %s\n", strings.Join(refs, ", "))
	}
}

