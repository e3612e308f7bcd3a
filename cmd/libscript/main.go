package main

import (
	"os"

	"github.com/strandscript/libscript/cmd/libscript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
