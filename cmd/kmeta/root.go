package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/PranavPurwar/proguard-core/internal/cli"
	"github.com/PranavPurwar/proguard-core/internal/utils"
)

// newRootCmd builds the command tree. Flags are read back from each command,
// so separate trees never share state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kmeta",
		Short: "Inspect annotations in Kotlin class metadata",
		Long: `kmeta loads Kotlin metadata manifests, resolves every annotation
against the program and library classes, and reports on what it found.

Input patterns come from the command line or from [input].patterns in
kmeta.toml, which is searched for upward from the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "path to kmeta.toml (default: search upward)")
	root.PersistentFlags().BoolP("verbose", "v", false, "show resolution details")
	root.PersistentFlags().BoolP("quiet", "q", false, "only show errors and results")
	root.PersistentFlags().Int("workers", 0, "resolution workers (default: [resolve].workers)")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.AddCommand(newDumpCmd())
	root.AddCommand(newResolveCmd())
	root.AddCommand(newDedupCmd())
	root.AddCommand(newInspectCmd())
	return root
}

// newDiagnostics picks the level from --verbose and --quiet. Progress goes to
// stderr so stdout carries only command results.
func newDiagnostics(cmd *cobra.Command) *utils.DiagnosticSystem {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	var diagnostics *utils.DiagnosticSystem
	switch {
	case quiet:
		diagnostics = utils.NewQuietDiagnostics()
	case verbose:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}

	errOut := cmd.ErrOrStderr()
	if errOut == os.Stderr {
		diagnostics.Redirect(errOut, errOut)
	} else {
		diagnostics.SetOutput(errOut, errOut)
	}
	return diagnostics
}

// loadSession runs the shared load and resolve phases for a command
func loadSession(cmd *cobra.Command, args []string, diagnostics *utils.DiagnosticSystem) (*cli.Session, error) {
	configPath, _ := cmd.Flags().GetString("config")
	workers, _ := cmd.Flags().GetInt("workers")

	diagnostics.Header(cmd.Name())
	return cli.NewPipeline(diagnostics).Run(cmd.Context(), cli.Options{
		ConfigPath: configPath,
		Patterns:   args,
		Workers:    workers,
	})
}
