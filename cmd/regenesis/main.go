package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rshade/regenesis/internal/cli"
	"github.com/rshade/regenesis/internal/refdata"
	"github.com/rshade/regenesis/pkg/version"
)

// Process exit codes.
const (
	exitOK       = 0
	exitError    = 1
	exitDataLoad = 2
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func run() error {
	root := cli.NewRootCmd(version.GetVersion())
	return root.ExecuteContext(context.Background())
}

// exitCode maps an error to the process exit code. Reference data that
// cannot be loaded gets its own code so scripts can tell it apart.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var loadErr *refdata.DataLoadError
	if errors.As(err, &loadErr) {
		return exitDataLoad
	}
	return exitError
}
