package main

import (
	"os"

	"github.com/spinforge/partnerctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
