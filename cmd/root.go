// Package cmd provides the root command and CLI setup for frostcheck.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"frostcheck.dev/pkg/frostcheck/internal/adapter"
	"frostcheck.dev/pkg/frostcheck/internal/controller"
	"frostcheck.dev/pkg/frostcheck/internal/domain"
	m "frostcheck.dev/pkg/frostcheck/internal/model"
)

var fsAdapter adapter.SnapshotFSAdapter
var snapshotStore adapter.SnapshotStore
var reportStore adapter.ReportStore
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that write reports.
var reportsOutputDirFlag string

// verboseFlag switches logging to debug level.
var verboseFlag bool

// excludePatterns is a root-level flag that filters snapshot files.
var excludePatterns []string

// sealedBuffersFlag accepts sealed buffers as frozen. Buffer bytes stay
// writable after sealing, so this is opt-in only.
var sealedBuffersFlag bool

func init() {
	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSnapshotFSAdapter()
	snapshotStore = adapter.NewSnapshotStore(fsAdapter)
	reportStore = adapter.NewReportStore(fsAdapter)
	workflow = domain.NewWorkflow(fsAdapter, snapshotStore, reportStore, ui)
}

const pathPatternsHelp = `Supports Go-style path patterns:
  - ./...              recursively scan the current directory
  - ./snapshots/...    recursively scan the snapshots directory
  - ./a ./b/graph.yaml scan a directory (non recursive) and a single file

Snapshot files end in .yaml, .yml or .json.`

const rootLongDescription = `Frostcheck verifies that heap graph snapshots are deeply frozen: the root
value and every object, function, class and buffer reachable from it through
own properties (enumerable or not) must be frozen. Every non-frozen location
is reported with its access path.

` + pathPatternsHelp

const checkLongDescription = `Check snapshot files for values that are not frozen (default: current directory).

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "frostcheck",
		Short:        "Deep frozen checker for heap graph snapshots",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for check reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVar(&sealedBuffersFlag, sealedBuffersFlagName, viper.GetBool(sealedBuffersConfigKey), "accept sealed buffers as frozen")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(sealedBuffersFlagName), sealedBuffersConfigKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
