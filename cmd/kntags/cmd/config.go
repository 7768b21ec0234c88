package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/corey/kntags/internal/app"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the project root, data paths and the resolved configuration. Does not open the database.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	paths := app.NewPaths(root)
	out := cmd.OutOrStdout()

	bold, reset, gray := "", "", ""
	if useColor(out) {
		bold, reset, gray = colorBold, colorReset, colorGray
	}

	fmt.Fprintf(out, "%s⚡ kntags config%s\n", bold, reset)
	fmt.Fprintf(out, "  Project:    %s\n", filepath.Base(root))
	fmt.Fprintf(out, "  Root:       %s\n", root)
	fmt.Fprintf(out, "  DB:         %s\n", paths.DB)
	fmt.Fprintf(out, "  Config:     %s%s\n", paths.Config, fileState(paths.Config, gray, reset))
	fmt.Fprintf(out, "  Log:        %s\n", paths.Log)
	fmt.Fprintln(out)
	return projectConfig.Encode(out)
}

func fileState(path, gray, reset string) string {
	if _, err := os.Stat(path); err != nil {
		return fmt.Sprintf(" %s(not present, using defaults)%s", gray, reset)
	}
	return ""
}
