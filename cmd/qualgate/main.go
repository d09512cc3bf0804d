package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/agentient/qualgate/internal/cli"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	cli.SetVersion(Version)
	err := cli.Execute()
	if err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) || exitErr.Msg != "" {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	os.Exit(cli.ExitCode(err))
}
