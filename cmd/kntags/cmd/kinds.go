package cmd

import (
	"github.com/spf13/cobra"

	"github.com/corey/kntags/internal/adapters/ctags"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List declaration kinds",
	Long:  "Lists the Kuin declaration kinds with their ctags letters. Kinds disabled by the project config are marked [off].",
	Args:  cobra.NoArgs,
	RunE:  runKinds,
}

func runKinds(cmd *cobra.Command, args []string) error {
	parser, err := projectConfig.NewParser()
	if err != nil {
		return err
	}
	return ctags.WriteKinds(cmd.OutOrStdout(), parser)
}
