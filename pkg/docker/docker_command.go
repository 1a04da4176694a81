package docker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/zbentley/pulsar/pkg/util/console"
)

// wheelhouseDir is where the build plan leaves repaired wheels inside the
// image.
const wheelhouseDir = "/pulsar/build/pulsar-client-cpp/python/wheelhouse"

// DockerCommand shells out to the docker CLI, mirroring what a developer
// would run by hand. Builds go through buildx so cross-architecture targets
// work via binfmt emulation.
type DockerCommand struct{}

func NewDockerCommand() *DockerCommand {
	return &DockerCommand{}
}

func (c *DockerCommand) Ping(ctx context.Context) error {
	return c.exec(ctx, "", "buildx", "ls")
}

func (c *DockerCommand) BuildAndExtract(ctx context.Context, plan string, containerName string, arch string, contextDir string, outputDir string) (string, error) {
	planFile, err := writePlanFile(plan)
	if err != nil {
		return "", err
	}
	defer os.Remove(planFile)

	err = c.exec(ctx, contextDir, "buildx", "build",
		"-t", containerName,
		"--platform", "linux/"+arch,
		"-f", planFile,
		contextDir,
	)
	if err != nil {
		return "", fmt.Errorf("buildx build failed: %w", err)
	}

	// A container from a previous run may still exist under this name.
	_ = c.exec(ctx, "", "rm", "-f", containerName)
	if err := c.exec(ctx, "", "create", "--rm", "-ti", "--name", containerName, containerName, "true"); err != nil {
		return "", fmt.Errorf("create extraction container: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", err
	}
	if err := c.exec(ctx, "", "cp", containerName+":"+wheelhouseDir+"/.", outputDir); err != nil {
		return "", fmt.Errorf("copy wheelhouse: %w", err)
	}
	return outputDir, nil
}

func (c *DockerCommand) exec(ctx context.Context, dir string, name string, args ...string) error {
	cmdArgs := append([]string{name}, args...)
	cmd := exec.CommandContext(ctx, "docker", cmdArgs...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	console.Debug("$ " + strings.Join(cmd.Args, " "))
	return cmd.Run()
}

func writePlanFile(plan string) (string, error) {
	f, err := os.CreateTemp("", "pulsar-build-*.Dockerfile")
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(plan); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return filepath.Clean(f.Name()), nil
}
