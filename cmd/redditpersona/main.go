package main

import (
	"os"

	"github.com/fialovy/redditpersona/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
