// kntags indexes the declarations in Kuin source trees.
// Single binary: writes ctags files, keeps a per-project index, answers lookups.
package main

import (
	"os"

	"github.com/corey/kntags/cmd/kntags/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
