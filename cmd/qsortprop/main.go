// Command qsortprop sorts numbers with the in-place quicksort engine and runs
// the property harness against it.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/qsortprop/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors that did not come from a command body, such as flag
// and argument parsing errors, to the command error status.
func exitCode(err error) int {
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		return cli.ExitCommandError
	}
	return exitErr.Code
}
