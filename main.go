package main

import (
	"os"

	"github.com/lattice-labs/beacon-ctl/cmd"
	"github.com/lattice-labs/beacon-ctl/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
