// Command compositectl compares and deduplicates JSON and YAML documents by
// structure.
package main

import (
	"errors"
	"fmt"
	"os"
)

const (
	exitOK        = 0
	exitDifferent = 1
	exitError     = 2
)

func main() {
	os.Exit(execute(os.Args[1:]))
}

func execute(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	err := root.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errNotEqual):
		return exitDifferent
	default:
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return exitError
	}
}
