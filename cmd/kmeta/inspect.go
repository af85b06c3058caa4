package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PranavPurwar/proguard-core/internal/dedup"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <snapshot>",
		Short: "Print a report saved by dedup --snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	cmd.Flags().Int("top", 0, "entries to print, 0 for all")
	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	top, _ := cmd.Flags().GetInt("top")

	snapshot, err := dedup.LoadSnapshot(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "pass %s, %s\n", snapshot.PassID, snapshot.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	for _, input := range snapshot.Inputs {
		fmt.Fprintf(out, "  %s\n", input)
	}
	printReport(out, snapshot.Report, top)
	return nil
}
