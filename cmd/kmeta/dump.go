package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PranavPurwar/proguard-core/internal/descriptor"
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [patterns...]",
		Short: "Print every annotation with its container kind and resolution status",
		RunE:  runDump,
	}
	cmd.Flags().Bool("literal", false, "print annotations in manifest literal form")
	return cmd
}

func runDump(cmd *cobra.Command, args []string) error {
	literal, _ := cmd.Flags().GetBool("literal")
	diagnostics := newDiagnostics(cmd)

	session, err := loadSession(cmd, args, diagnostics)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, record := range session.Annotations() {
		text := record.Annotation.String()
		if literal {
			text = descriptor.Format(record.Annotation)
		}
		status := "unresolved"
		if clazz := record.Annotation.ReferencedClass(); clazz != nil {
			status = "resolved"
		}
		fmt.Fprintf(out, "%s [%s] %s (%s)\n", record.Class, record.Kind, text, status)
	}
	return nil
}
