package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the current project",
	Long:  "Scans all Kuin files, extracts declarations and stores the tag index in .kntags/kntags.db.",
	Args:  cobra.NoArgs,
	RunE:  runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "⚡ Scanning project...")

	result, err := a.Reindex()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "⚡ kntags indexed %d files, %d tags (%dms)\n",
		result.FileCount, result.TagCount, result.Elapsed.Milliseconds())
	if result.Skipped > 0 {
		fmt.Fprintf(out, "  %d files skipped (run with --verbose for details)\n", result.Skipped)
	}
	return nil
}
