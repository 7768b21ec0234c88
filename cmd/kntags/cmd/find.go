package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/kntags/internal/domain/index"
	"github.com/corey/kntags/internal/domain/kuin"
)

var (
	findPrefix     bool
	findIgnoreCase bool
	findKinds      []string
	findFile       string
	findMaxCount   int
	findFormat     string
)

var findCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "Find declarations by name",
	Long: "Looks up declarations in the project index. Names match exactly unless --prefix is given. " +
		"Run `kntags index` first.",
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func init() {
	findCmd.Flags().BoolVar(&findPrefix, "prefix", false, "Match names starting with <name>")
	findCmd.Flags().BoolVarP(&findIgnoreCase, "ignore-case", "i", false, "Case-insensitive match")
	findCmd.Flags().StringSliceVarP(&findKinds, "kind", "k", nil, "Restrict to kinds (names or letters, e.g. func,C)")
	findCmd.Flags().StringVar(&findFile, "file", "", "Restrict to files matching a glob (** crosses directories)")
	findCmd.Flags().IntVarP(&findMaxCount, "max-count", "m", 0, "Stop after N hits (0 = no limit)")
	findCmd.Flags().StringVar(&findFormat, "format", formatText, "Output format: text, json, yaml")
}

func runFind(cmd *cobra.Command, args []string) error {
	if err := checkFormat(findFormat); err != nil {
		return err
	}
	kinds, err := parseKindArgs(findKinds)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.Indexed() {
		return errNoIndex
	}

	hits, err := a.Engine.Find(index.Query{
		Name:       args[0],
		Prefix:     findPrefix,
		IgnoreCase: findIgnoreCase,
		Kinds:      kinds,
		FileGlob:   findFile,
		MaxCount:   findMaxCount,
	})
	if err != nil {
		return err
	}
	return printHits(cmd, findFormat, hits)
}

var errNoIndex = errors.New("no index for this project; run `kntags index` first")

// parseKindArgs maps kind names or ctags letters to kind names.
func parseKindArgs(args []string) ([]string, error) {
	var kinds []string
	for _, arg := range args {
		if k, ok := kuin.KindByName(arg); ok {
			kinds = append(kinds, k.Name())
			continue
		}
		if len(arg) == 1 {
			if k, ok := kuin.KindByLetter(arg[0]); ok {
				kinds = append(kinds, k.Name())
				continue
			}
		}
		return nil, fmt.Errorf("unknown kind %q", arg)
	}
	return kinds, nil
}

// printHits writes hits in the requested format. An empty text result
// prints nothing.
func printHits(cmd *cobra.Command, format string, hits []index.Hit) error {
	out := cmd.OutOrStdout()
	if hits == nil {
		hits = []index.Hit{}
	}
	if ok, err := writeStructured(out, format, hits); ok {
		return err
	}
	_, err := fmt.Fprint(out, formatHits(hits, useColor(out)))
	return err
}
