// Package dockertest provides a scriptable in-memory stand-in for the docker
// collaborator, for orchestrator tests.
package dockertest

import (
	"context"
	"path/filepath"
)

// BuildCall records one BuildAndExtract invocation.
type BuildCall struct {
	Plan          string
	ContainerName string
	Arch          string
}

// MockCommand records every call and fails the targets listed in FailFor.
type MockCommand struct {
	Calls   []BuildCall
	PingErr error
	// FailFor maps container names to the error their build should return.
	FailFor map[string]error
}

func NewMockCommand() *MockCommand {
	return &MockCommand{FailFor: map[string]error{}}
}

func (c *MockCommand) Ping(ctx context.Context) error {
	return c.PingErr
}

func (c *MockCommand) BuildAndExtract(ctx context.Context, plan string, containerName string, arch string, contextDir string, outputDir string) (string, error) {
	c.Calls = append(c.Calls, BuildCall{Plan: plan, ContainerName: containerName, Arch: arch})
	if err, ok := c.FailFor[containerName]; ok {
		return "", err
	}
	return filepath.Join(outputDir, containerName), nil
}
