package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PranavPurwar/proguard-core/internal/classfile"
	"github.com/PranavPurwar/proguard-core/internal/errors"
)

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [patterns...]",
		Short: "Resolve annotation classes and print statistics",
		RunE:  runResolve,
	}
	cmd.Flags().Bool("strict", false, "fail when any annotation class cannot be found")
	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	strict, _ := cmd.Flags().GetBool("strict")
	diagnostics := newDiagnostics(cmd)

	session, err := loadSession(cmd, args, diagnostics)
	if err != nil {
		return err
	}
	stats := session.Stats

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "pass:        %s\n", stats.PassID)
	fmt.Fprintf(out, "units:       %d\n", stats.Units)
	fmt.Fprintf(out, "annotations: %d\n", stats.Annotations)
	fmt.Fprintf(out, "resolved:    %d\n", stats.Resolved)
	fmt.Fprintf(out, "unresolved:  %d\n", stats.Unresolved)
	if len(stats.Missing) > 0 {
		missing := make([]string, len(stats.Missing))
		for i, name := range stats.Missing {
			missing[i] = classfile.ExternalClassName(name)
		}
		fmt.Fprintf(out, "missing:     %s\n", strings.Join(missing, ", "))
	}

	if !strict || stats.Unresolved == 0 {
		return nil
	}
	var problems *errors.MultipleErrors
	for _, name := range stats.Missing {
		errors.AddToMultiple(&problems, errors.NewResolutionError(name, stats.PassID, "class not found in program or library classes").
			WithSuggestion("list it under libraryClasses in a manifest or [resolve].library in kmeta.toml"))
	}
	return problems.ErrorOrNil()
}
