package main

import (
	"fmt"
	"os"

	"github.com/stylekit/css/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cssmin:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
