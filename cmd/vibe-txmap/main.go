// Package main provides the vibe-txmap command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-txmap/internal/txdb"
	"github.com/inodb/vibe-txmap/internal/txmap"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// logger is set up by the root command before any subcommand runs.
var logger = zap.NewNop()

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if isUsageError(err) {
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "vibe-txmap",
		Short: "Transcript coordinate mapper",
		Long: `vibe-txmap converts intervals between genomic, transcript and CDS coordinates
for a transcript aligned to a reference assembly.

All coordinates are interbase: zero-based, half-open [start, end).`,
		Example: `  # Import UTA exports (one-time setup)
  vibe-txmap load --info tx_info.tsv.gz --exons tx_exons.tsv.gz

  # Map a genomic interval to CDS coordinates
  vibe-txmap map NM_182763.2 150550916 150550919 --from g --to c

  # Show the alignment used for a transcript
  vibe-txmap show NM_182763.2 --ref GRCh37.p10`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cfgFile); err != nil {
				return err
			}
			l, err := newLogger(viper.GetBool("verbose"))
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			logger = l
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		msg := err.Error()
		if strings.Contains(msg, "shorthand flag") {
			msg += ` (pass negative coordinates with --start/--end or after "--")`
		}
		return &usageError{msg}
	})

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default: ~/.vibe-txmap.yaml)")
	flags.String("db", "", "Transcript database (default: ~/.vibe-txmap/uta.duckdb)")
	flags.String("ref", txmap.DefaultReference, "Reference assembly the exons are aligned to")
	flags.BoolP("verbose", "v", false, "Enable debug logging")

	viper.BindPFlag("db.path", flags.Lookup("db"))
	viper.BindPFlag("reference", flags.Lookup("ref"))
	viper.BindPFlag("verbose", flags.Lookup("verbose"))

	cmd.AddCommand(newLoadCmd())
	cmd.AddCommand(newMapCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig reads the config file and environment.
func initConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".vibe-txmap")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("VIBE_TXMAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.Encoding = "console"
	return cfg.Build()
}

// databasePath returns the configured database path or the default one.
func databasePath() (string, error) {
	if p := viper.GetString("db.path"); p != "" {
		if !txdb.IsDuckDB(p) {
			p += ".duckdb"
		}
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".vibe-txmap", "uta.duckdb"), nil
}

// openStore opens the configured transcript database.
func openStore() (*txdb.Store, error) {
	path, err := databasePath()
	if err != nil {
		return nil, err
	}
	s, err := txdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript database %s: %w", path, err)
	}
	s.SetLogger(logger.Named("txdb"))
	logger.Debug("opened transcript database", zap.String("path", path))
	return s, nil
}

type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

// usageArgs reports argument validation failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err.Error()}
		}
		return nil
	}
}

func isUsageError(err error) bool {
	var ue *usageError
	return errors.As(err, &ue)
}
