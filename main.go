package main

import (
	"os"

	"github.com/Tech-Psycho95/LOOK-DGC/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
