// Command sqlfuse compiles query documents to SQL and runs conformance
// scenarios.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/sqlfuse/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
