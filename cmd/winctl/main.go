package main

import (
	"context"
	"fmt"
	"os"

	"winctl/internal/cmd"
	"winctl/internal/config"
	"winctl/internal/logging"
)

var version = "dev"

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Log)

	rootCmd := cmd.NewRootCmd(cfg, &log, version)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
