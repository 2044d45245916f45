package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"frostcheck.dev/pkg/frostcheck/internal/domain"
	m "frostcheck.dev/pkg/frostcheck/internal/model"
)

var parallelFlag int
var saveReportsFlag bool

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check that snapshot graphs are deeply frozen",
		Long:  checkLongDescription,
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.Check(context.Background(), domain.CheckArgs{
				Paths:         parsePaths(args),
				Exclude:       viper.GetStringSlice(excludeConfigKey),
				Threads:       viper.GetInt(parallelConfigKey),
				SealedBuffers: viper.GetBool(sealedBuffersConfigKey),
				Reports:       m.Path(viper.GetString(outputFlagName)),
				SaveReports:   viper.GetBool(saveReportsConfigKey),
				SpillDir:      viper.GetString(spillDirConfigKey),
			})
		},
	}

	configureCheckFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func configureCheckFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&parallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of snapshot files checked in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)

	cmd.Flags().BoolVar(&saveReportsFlag, saveReportsFlagName, viper.GetBool(saveReportsConfigKey), "write a YAML report into the output directory")
	bindFlagToConfig(cmd.Flags().Lookup(saveReportsFlagName), saveReportsConfigKey)
}
