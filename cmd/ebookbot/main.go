package main

import (
	"fmt"
	"os"

	"github.com/tking/ebookbot/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ebookbot:", err)
		os.Exit(1)
	}
}
