package main

import (
	"os"

	"go-complexity-inspector/internal/logger"
)

func main() {
	logger.SetOutput(os.Stderr)
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
