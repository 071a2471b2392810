package main

import (
	"fmt"
	"os"

	"github.com/doorlog/doorlog/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "doorlog: %v\n", err)
		os.Exit(1)
	}
}
