package main

import (
	"os"

	"github.com/yigit/courseplanner/cmd/catalogctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
