package main

import (
	"os"

	"github.com/iabetor/docpost/cmd/docpost/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
