package main

import (
	"fmt"
	"os"

	"github.com/diewo77/salescrm/internal/cli"
	"github.com/diewo77/salescrm/internal/config"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	app := &cli.App{Config: cfg, Logger: config.NewLogger(cfg.Log)}
	if err := cli.NewRootCmd(app).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
