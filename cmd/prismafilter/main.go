// Command prismafilter compiles Prisma-style where filters into condition
// trees and SQLite queries.
package main

import (
	"fmt"
	"os"

	"github.com/raymondSeger/prisma/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
