package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/kntags/internal/app"
)

var (
	wipeForce bool
	wipeAll   bool
)

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Clear all kntags data for project",
	Long:  "Deletes the persisted index. With --all, removes the whole .kntags directory including config and logs.",
	Args:  cobra.NoArgs,
	RunE:  runWipe,
}

func init() {
	wipeCmd.Flags().BoolVar(&wipeForce, "force", false, "Skip confirmation prompt")
	wipeCmd.Flags().BoolVar(&wipeAll, "all", false, "Remove the .kntags directory")
}

func runWipe(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	paths := app.NewPaths(root)

	if _, err := os.Stat(paths.DB); os.IsNotExist(err) && !(wipeAll && paths.Exists()) {
		fmt.Fprintln(out, "⚡ no data to wipe")
		return nil
	}

	if !wipeForce {
		fmt.Fprintf(out, "⚠ This will delete all kntags data for %s. Continue? [y/N] ", filepath.Base(root))
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(out, "cancelled")
			return nil
		}
	}

	if wipeAll {
		// Fails while a watch holds the database lock.
		a, err := openApp()
		if err != nil {
			return err
		}
		a.Close()
		if err := paths.Remove(); err != nil {
			return err
		}
		fmt.Fprintln(out, "⚡ .kntags removed")
		return nil
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.Wipe(); err != nil {
		return err
	}
	fmt.Fprintln(out, "⚡ project data wiped")
	return nil
}
