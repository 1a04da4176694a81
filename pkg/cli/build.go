package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/zbentley/pulsar/pkg/build"
	"github.com/zbentley/pulsar/pkg/config"
	"github.com/zbentley/pulsar/pkg/docker"
	"github.com/zbentley/pulsar/pkg/global"
	"github.com/zbentley/pulsar/pkg/util/console"
)

var buildPythonVersions []string
var buildArchitectures []string
var buildOutputDir string

func newBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the wheel matrix from " + global.ConfigFilename,
		Args:  cobra.NoArgs,
		RunE:  buildCommand,
	}
	cmd.Flags().StringArrayVar(&buildPythonVersions, "python", nil, "Python versions to build (overrides config)")
	cmd.Flags().StringArrayVar(&buildArchitectures, "arch", nil, "Architectures to build (overrides config)")
	cmd.Flags().StringVarP(&buildOutputDir, "output", "o", "", "Directory to copy built wheels into (overrides config)")
	return cmd
}

func buildCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig(projectDirFlag)
	if err != nil {
		return err
	}
	if len(buildPythonVersions) > 0 {
		cfg.PythonVersions = buildPythonVersions
	}
	if len(buildArchitectures) > 0 {
		cfg.Architectures = buildArchitectures
	}
	if buildOutputDir != "" {
		cfg.OutputDir = buildOutputDir
	}

	opts := build.Options{
		PythonVersions: cfg.PythonVersions,
		Architectures:  cfg.Architectures,
		NativeArch:     runtime.GOARCH,
		ContextDir:     cfg.ContextDir,
		OutputDir:      cfg.OutputDir,
	}
	if err := build.Run(cmd.Context(), docker.NewDockerCommand(), opts); err != nil {
		return err
	}

	console.Infof("\nAll targets built; wheels are in %s", cfg.OutputDir)
	return nil
}
