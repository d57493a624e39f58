package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-txmap/internal/txmap"
)

// Coordinate systems accepted by --from and --to.
const (
	coordGenomic    = "g"
	coordTranscript = "r"
	coordCDS        = "c"
)

func newMapCmd() *cobra.Command {
	var from, to, startFlag, endFlag string

	cmd := &cobra.Command{
		Use:   "map <accession> [<start> <end>]",
		Short: "Convert an interval between coordinate systems",
		Long: `Convert an interbase interval [start, end) between genomic (g), transcript (r)
and CDS (c) coordinates for one transcript.

The interval is given either as two arguments after the accession or with
--start and --end. CDS coordinates upstream of the start codon are negative.
Pass negative values with --start/--end, or put them after a "--" separator
so they are not read as flags.`,
		Example: `  vibe-txmap map NM_182763.2 150550916 150550919 --from g --to r
  vibe-txmap map NM_182763.2 0 3 --from c --to g --ref GRCh37.p10

  # 5' UTR, negative CDS coordinates
  vibe-txmap map NM_182763.2 --start -3 --end 0 --from c --to g
  vibe-txmap map --from c --to g -- NM_182763.2 -3 0`,
		Args: usageArgs(cobra.RangeArgs(1, 3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			startArg, endArg, err := intervalArgs(cmd, args, startFlag, endFlag)
			if err != nil {
				return err
			}
			start, end, err := parseInterval(startArg, endArg)
			if err != nil {
				return err
			}
			from, to = strings.ToLower(from), strings.ToLower(to)
			if err := checkCoordSystem("from", from); err != nil {
				return err
			}
			if err := checkCoordSystem("to", to); err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			m, err := txmap.New(s, args[0], viper.GetString("reference"), txmap.WithLogger(logger.Named("txmap")))
			if err != nil {
				return err
			}

			outStart, outEnd, err := convert(m, from, to, start, end)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s:[%d, %d)\t%s:[%d, %d)\n",
				m.Accession(), from, start, end, to, outStart, outEnd)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", coordGenomic, "Input coordinate system (g, r, c)")
	cmd.Flags().StringVar(&to, "to", coordTranscript, "Output coordinate system (g, r, c)")
	cmd.Flags().StringVar(&startFlag, "start", "", "Interval start (may be negative)")
	cmd.Flags().StringVar(&endFlag, "end", "", "Interval end (may be negative)")

	return cmd
}

// intervalArgs returns the interval bounds from the positional arguments or
// from --start/--end. Exactly one of the two forms must be used.
func intervalArgs(cmd *cobra.Command, args []string, startFlag, endFlag string) (string, string, error) {
	fromFlags := cmd.Flags().Changed("start") || cmd.Flags().Changed("end")
	switch len(args) {
	case 3:
		if fromFlags {
			return "", "", &usageError{"give the interval as arguments or with --start/--end, not both"}
		}
		return args[1], args[2], nil
	case 1:
		if !cmd.Flags().Changed("start") || !cmd.Flags().Changed("end") {
			return "", "", &usageError{"missing interval: give <start> <end> or --start and --end"}
		}
		return startFlag, endFlag, nil
	}
	return "", "", &usageError{fmt.Sprintf("expected <accession> <start> <end>, got %d arguments", len(args))}
}

func parseInterval(startArg, endArg string) (int, int, error) {
	start, err := strconv.Atoi(startArg)
	if err != nil {
		return 0, 0, &usageError{fmt.Sprintf("invalid start %q: must be an integer", startArg)}
	}
	end, err := strconv.Atoi(endArg)
	if err != nil {
		return 0, 0, &usageError{fmt.Sprintf("invalid end %q: must be an integer", endArg)}
	}
	if end < start {
		return 0, 0, &usageError{fmt.Sprintf("end %d is before start %d", end, start)}
	}
	return start, end, nil
}

func checkCoordSystem(flag, v string) error {
	switch v {
	case coordGenomic, coordTranscript, coordCDS:
		return nil
	}
	return &usageError{fmt.Sprintf("--%s must be one of g, r, c (got %q)", flag, v)}
}

// convert maps [start, end) from one coordinate system to another.
func convert(m *txmap.Mapper, from, to string, start, end int) (int, int, error) {
	switch from + to {
	case coordGenomic + coordGenomic, coordTranscript + coordTranscript, coordCDS + coordCDS:
		return start, end, nil
	case coordGenomic + coordTranscript:
		return m.GenomicToTranscript(start, end)
	case coordGenomic + coordCDS:
		return m.GenomicToCDS(start, end)
	case coordTranscript + coordGenomic:
		return m.TranscriptToGenomic(start, end)
	case coordTranscript + coordCDS:
		cs, ce := m.TranscriptToCDS(start, end)
		return cs, ce, nil
	case coordCDS + coordTranscript:
		rs, re := m.CDSToTranscript(start, end)
		return rs, re, nil
	case coordCDS + coordGenomic:
		return m.CDSToGenomic(start, end)
	}
	return 0, 0, &usageError{fmt.Sprintf("cannot convert from %q to %q", from, to)}
}
