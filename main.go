package main

import (
	"github.com/grovetools/palette/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		cmd.ExitWithError(err)
	}
}
