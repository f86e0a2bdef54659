package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/tmarkov/rebase-branches/cmd/cli"
)

const (
	exitErrorTemplateConstant  = "%v\n"
	defaultFailureExitCodeName = 1
)

// main executes the rebase-branches command-line application. Errors carrying
// an explicit exit code (such as rebase failure tallies) propagate that code
// to the operating system; every other error exits 1.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)

		var exitCodeCarrier interface{ ExitCode() int }
		if errors.As(executionError, &exitCodeCarrier) {
			os.Exit(exitCodeCarrier.ExitCode())
		}
		os.Exit(defaultFailureExitCodeName)
	}
}
