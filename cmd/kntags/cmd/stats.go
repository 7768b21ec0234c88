package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsFormat string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsFormat, "format", formatText, "Output format: text, json, yaml")
}

func runStats(cmd *cobra.Command, args []string) error {
	if err := checkFormat(statsFormat); err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	st := a.Engine.Stats()
	out := cmd.OutOrStdout()
	if ok, err := writeStructured(out, statsFormat, st); ok {
		return err
	}
	fmt.Fprint(out, formatStats(st, useColor(out)))
	return nil
}
