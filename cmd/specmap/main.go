// Command specmap maintains the links between browser-compat-data
// features and specification fragments.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/specmap/internal/adapters/driving/cli"
	"github.com/custodia-labs/specmap/internal/logger"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cli.SetFactory(build)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
