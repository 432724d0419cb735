package main

import (
	"os"

	"github.com/lexra-labs/lexra-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
