package main

import (
	"os"

	"github.com/adw-tools/adw/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
