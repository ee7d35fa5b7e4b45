package main

import (
	"os"

	"catalog-browser/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
