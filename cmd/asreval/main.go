package main

import (
	"os"

	"github.com/kbukum/asreval/cmd/asreval/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
