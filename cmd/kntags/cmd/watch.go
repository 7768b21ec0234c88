package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corey/kntags/internal/app"
)

var watchNoReindex bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the index up to date",
	Long: "Reindexes the project, then watches it and re-parses Kuin files as they change " +
		"until interrupted. Logs also go to .kntags/log/kntags.log.",
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchNoReindex, "no-reindex", false, "Skip the initial full reindex")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	logFile, err := a.Paths.OpenLog()
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	if _, err := app.SetupLogging(io.MultiWriter(cmd.ErrOrStderr(), logFile), a.Config.Log.Level, verboseFlag); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !watchNoReindex {
		result, err := a.Reindex()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "⚡ kntags indexed %d files, %d tags (%dms)\n",
			result.FileCount, result.TagCount, result.Elapsed.Milliseconds())
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.StartWatch(); err != nil {
		return err
	}
	fmt.Fprintf(out, "⚡ watching %s (Ctrl-C to stop)\n", a.ProjectRoot)

	<-ctx.Done()
	slog.Info("stopping watch")
	return a.Stop()
}

// cmdContext returns the command's context, or Background when none was set.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
