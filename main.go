package main

import (
	"os"

	"github.com/Benjamin-Elon/trellis/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
