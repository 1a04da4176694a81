package main

import (
	"github.com/zbentley/pulsar/pkg/cli"
	"github.com/zbentley/pulsar/pkg/util/console"
)

func main() {
	cmd, err := cli.NewRootCommand()
	if err != nil {
		console.Fatalf("%s", err)
	}

	if err = cmd.Execute(); err != nil {
		console.Fatalf("%s", err)
	}
}
