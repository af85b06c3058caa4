package main

import (
	"io"
	"os"

	"github.com/PranavPurwar/proguard-core/internal/cli"
)

// main runs the root command and exits with status 1 on failure
func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		verbose, _ := root.PersistentFlags().GetBool("verbose")
		cli.NewDiagnosticReporter(stderr, verbose).ReportError(err)
		return 1
	}
	return 0
}
