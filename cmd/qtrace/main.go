package main

import (
	"os"

	"github.com/qtracelabs/qtrace/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
