package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var listFormat string

var listCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "List the declarations of one file",
	Long:  "Prints the indexed declarations of a file in line order. The path may be relative to the current directory or absolute.",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listFormat, "format", formatText, "Output format: text, json, yaml")
}

func runList(cmd *cobra.Command, args []string) error {
	if err := checkFormat(listFormat); err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	abs, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	rel := relToRoot(a.ProjectRoot, abs)

	hits := a.Engine.FileTags(rel)
	if hits == nil {
		return fmt.Errorf("%s is not indexed", rel)
	}
	return printHits(cmd, listFormat, hits)
}
