package main

import (
	"fmt"
	"os"

	"github.com/reoring/gviz/cmd/gviz/commands"
	"github.com/reoring/gviz/logger"
	_ "github.com/reoring/gviz/source"
)

func main() {
	err := commands.NewRootCmd().Execute()
	logger.Cleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
