package main

import (
	"fmt"
	"os"
)

var (
	GitCommit string
	GitTag    string
	BuildTime string
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
