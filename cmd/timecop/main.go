package main

import (
	"fmt"
	"os"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	cmd := newRootCommand()
	if len(args) > 1 {
		cmd.SetArgs(args[1:])
	} else {
		cmd.SetArgs(nil)
	}
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "timecop:", err)
		return exitCodeFor(err)
	}
	return 0
}
