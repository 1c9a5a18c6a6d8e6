package main

import (
	"os"

	"github.com/nmarchais/selekt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
