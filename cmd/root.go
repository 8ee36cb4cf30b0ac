// =============================================================================
// Sales Aggregation - Root Command
// =============================================================================
//
// This file defines the root command of the CLI. The root command itself runs
// the aggregation over the directory given as its only argument; the version
// subcommand is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (salesagg <directory>)
//   └── versionCmd (salesagg version)
//
// OUTPUT CONTRACT:
//   A failed run prints exactly one message on stdout and exits with status 1.
//   A successful run prints nothing on stdout. Logs go to stderr.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/sales-aggregation/internal/errs"
	"github.com/ginjaninja78/sales-aggregation/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// options holds the command line flags of a run.
type options struct {
	// cfgFile is an optional YAML file replacing the built-in dimensions.
	cfgFile string

	// commodity enables the commodity dimension of the built-in layout.
	commodity bool

	// xlsxFile is an optional workbook export path. Relative paths resolve
	// inside the run directory.
	xlsxFile string

	// verbose enables debug logging.
	verbose bool

	// logFormat is "console" or "json".
	logFormat string
}

var opts options

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "salesagg <directory>",
	Short: "Aggregate per-branch sales totals from daily record files",
	Long: `salesagg reads the branch definition file (and optionally the commodity
definition file) from a directory, validates the daily record files
(00000001.rcd, 00000002.rcd, ...) found next to them, and writes one summary
file per dimension (branch.out, commodity.out).

Every check is strict: the first problem found stops the run, a single
message is printed, and no summary file is written.

Example Usage:
  salesagg ./sales                     # branch totals only
  salesagg --commodity ./sales         # branch and commodity totals
  salesagg --config dims.yaml ./sales  # dimensions defined in YAML
  salesagg --xlsx summary.xlsx ./sales # also write a workbook`,

	Args: exactlyOneDirectory,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(opts.verbose, opts.logFormat != "json")
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(args[0], opts)
	},

	SilenceErrors: true,
	SilenceUsage:  true,
}

// exactlyOneDirectory rejects any argument count other than one before any
// file is touched.
func exactlyOneDirectory(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errs.Wrap(errs.KindUnknown, fmt.Errorf("expected 1 argument, got %d", len(args)))
	}
	return nil
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command and exits with its status.
// This is called by main.main().
func Execute() {
	os.Exit(execute(os.Args[1:], os.Stdout))
}

// execute runs the CLI with the given arguments and returns the exit status.
// The operator message of a failure is written to stdout.
func execute(args []string, stdout io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)

	if err := rootCmd.Execute(); err != nil {
		failure := errs.As(err)
		logging.L().Debug().
			Str("kind", failure.Name()).
			Err(err).
			Msg("run failed")
		fmt.Fprintln(stdout, failure.Message())
		return 1
	}

	return 0
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().StringVar(
		&opts.cfgFile,
		"config",
		"",
		"YAML file defining the aggregation dimensions",
	)

	rootCmd.Flags().BoolVar(
		&opts.commodity,
		"commodity",
		false,
		"Also aggregate per commodity (commodity.lst -> commodity.out)",
	)

	rootCmd.Flags().StringVar(
		&opts.xlsxFile,
		"xlsx",
		"",
		"Also write all totals to this XLSX workbook",
	)

	rootCmd.MarkFlagsMutuallyExclusive("config", "commodity")

	rootCmd.PersistentFlags().BoolVarP(
		&opts.verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging on stderr",
	)

	rootCmd.PersistentFlags().StringVar(
		&opts.logFormat,
		"log-format",
		"console",
		"Log format on stderr: console or json",
	)
}
