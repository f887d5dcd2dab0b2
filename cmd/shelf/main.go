package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/nikbrunner/shelf/internal/cli"
	"github.com/nikbrunner/shelf/internal/logger"
)

func main() {
	// Load .env file if present; SHELF_* variables feed the config
	_ = godotenv.Load()

	err := cli.NewRootCmd().Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
