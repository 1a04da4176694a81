package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zbentley/pulsar/pkg/global"
	"github.com/zbentley/pulsar/pkg/util/console"
)

var projectDirFlag string

func NewRootCommand() (*cobra.Command, error) {
	rootCmd := cobra.Command{
		Use:     "pulsar-build",
		Short:   "Build manylinux wheels for the Pulsar Python client",
		Version: fmt.Sprintf("%s (built %s)", global.Version, global.BuildTime),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if global.Verbose {
				console.SetLevel(console.DebugLevel)
			}
			cmd.SilenceUsage = true
		},
		SilenceErrors: true,
	}
	setPersistentFlags(&rootCmd)

	rootCmd.AddCommand(
		newBuildCommand(),
		newPlanCommand(),
	)

	return &rootCmd, nil
}

func setPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().StringVarP(&projectDirFlag, "project-dir", "D", ".", "Project directory containing "+global.ConfigFilename)
}
