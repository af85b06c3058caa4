package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PranavPurwar/proguard-core/internal/dedup"
)

func newDedupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dedup [patterns...]",
		Short: "Group structurally equal annotations and print the most frequent",
		RunE:  runDedup,
	}
	cmd.Flags().Int("top", 0, "entries to print, 0 for all (default: [report].top)")
	cmd.Flags().String("snapshot", "", "write the full report to this file (default: [report].snapshot)")
	return cmd
}

func runDedup(cmd *cobra.Command, args []string) error {
	diagnostics := newDiagnostics(cmd)

	session, err := loadSession(cmd, args, diagnostics)
	if err != nil {
		return err
	}

	top := session.Config.Report.Top
	if cmd.Flags().Changed("top") {
		top, _ = cmd.Flags().GetInt("top")
	}
	snapshotPath := session.Config.SnapshotPath()
	if cmd.Flags().Changed("snapshot") {
		snapshotPath, _ = cmd.Flags().GetString("snapshot")
	}

	report := session.Collect().Report()
	printReport(cmd.OutOrStdout(), report, top)

	if snapshotPath != "" {
		snapshot := dedup.NewSnapshot(session.Stats.PassID, session.Program.Files, report)
		if err := dedup.SaveSnapshot(snapshotPath, snapshot); err != nil {
			return err
		}
		diagnostics.Success("snapshot written to %s", snapshotPath)
	}
	return nil
}

func printReport(out io.Writer, report dedup.Report, top int) {
	for _, entry := range report.Top(top) {
		marker := " "
		if !entry.Resolved {
			marker = "?"
		}
		fmt.Fprintf(out, "%5d %s %s  {%s}\n", entry.Count, marker, entry.Display, formatKinds(entry.Kinds))
	}
	fmt.Fprintf(out, "%d annotations, %d distinct\n", report.Total, report.Distinct)
}

func formatKinds(kinds map[string]int) string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, kinds[name])
	}
	return strings.Join(parts, " ")
}
