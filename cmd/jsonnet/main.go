package main

import (
	"os"

	"github.com/cwbudde/go-jsonnet/cmd/jsonnet/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
