package main

import (
	"os"

	"github.com/netsig/netsig/cmd/netsig/commands"
	"github.com/netsig/netsig/pkg/detect"
)

func main() {
	if err := commands.NewCommand().Execute(); err != nil {
		os.Exit(detect.ExitCode(err))
	}
}
