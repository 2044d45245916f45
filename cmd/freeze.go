package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"frostcheck.dev/pkg/frostcheck/internal/domain"
	m "frostcheck.dev/pkg/frostcheck/internal/model"
)

var diffFlag bool

// freezeCmd represents the freeze command.
var freezeCmd = newFreezeCmd()

func newFreezeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "freeze <snapshot> [output]",
		Short: "Deep freeze a snapshot graph",
		Long: `Freeze every value reachable from the root of a snapshot and write the
result to output (default: overwrite the snapshot). Buffers that cannot be
frozen are sealed. The written graph is checked afterwards.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			freezeArgs := domain.FreezeArgs{
				Input:         m.Path(args[0]),
				Diff:          diffFlag,
				SealedBuffers: viper.GetBool(sealedBuffersConfigKey),
			}

			if len(args) == 2 {
				freezeArgs.Output = m.Path(args[1])
			}

			return workflow.Freeze(context.Background(), freezeArgs)
		},
	}

	cmd.Flags().BoolVarP(&diffFlag, diffFlagName, "d", false, "print a unified diff of the snapshot")

	return cmd
}

func init() {
	rootCmd.AddCommand(freezeCmd)
}
