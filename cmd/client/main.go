package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/moneylog/internal/client/cli"
	"github.com/dmitrijs2005/moneylog/internal/client/config"
	"github.com/dmitrijs2005/moneylog/internal/logging"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}
	defer app.Close()

	app.Run(ctx)
}
