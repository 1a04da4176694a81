package cli

import (
	"github.com/spf13/cobra"

	"github.com/zbentley/pulsar/pkg/build"
	"github.com/zbentley/pulsar/pkg/target"
	"github.com/zbentley/pulsar/pkg/util/console"
)

var planArch string

func newPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <python-version>",
		Short: "Print the rendered Dockerfile for one matrix target",
		Args:  cobra.ExactArgs(1),
		RunE:  planCommand,
	}
	cmd.Flags().StringVar(&planArch, "arch", "amd64", "Target architecture")
	return cmd
}

func planCommand(cmd *cobra.Command, args []string) error {
	t, err := target.Resolve(args[0], planArch)
	if err != nil {
		return err
	}
	plan, err := build.GeneratePlan(t)
	if err != nil {
		return err
	}
	console.Output(plan)
	return nil
}
