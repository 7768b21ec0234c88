package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/corey/kntags/internal/app"
)

var (
	rootFlag    string
	verboseFlag bool
	colorFlag   string

	// projectConfig is loaded once per invocation by loadProject.
	projectConfig *app.Config
)

var rootCmd = &cobra.Command{
	Use:               "kntags",
	Short:             "Kuin declaration index",
	Long:              "Extracts alias, class, const, enum, func and var declarations from Kuin sources, writes ctags files and answers symbol lookups.",
	SilenceUsage:      true,
	PersistentPreRunE: loadProject,
}

// projectRoot returns the absolute project root (--root, or cwd by default).
func projectRoot() (string, error) {
	if rootFlag != "" {
		return filepath.Abs(rootFlag)
	}
	return os.Getwd()
}

// loadProject reads the project config and installs the logger.
func loadProject(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := app.LoadConfig(app.NewPaths(root).Config)
	if err != nil {
		return err
	}
	if _, err := app.SetupLogging(cmd.ErrOrStderr(), cfg.Log.Level, verboseFlag); err != nil {
		return err
	}
	projectConfig = cfg
	return nil
}

// openApp opens the project store. The caller closes the App.
func openApp() (*app.App, error) {
	root, err := projectRoot()
	if err != nil {
		return nil, err
	}
	a, err := app.New(root, app.Options{Config: projectConfig})
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("%s", diagnoseDBLock(root))
		}
		return nil, err
	}
	return a, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Project root (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto", "Colorize output: auto, always, never")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(kindsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(wipeCmd)
}
