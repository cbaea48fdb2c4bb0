package main

import (
	"os"

	"github.com/iesm-tools/intake/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
