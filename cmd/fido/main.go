package main

import (
	"os"

	"github.com/bnema/fido-usage-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
