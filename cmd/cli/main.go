package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/padho/internal/client/cli"
	"github.com/dmitrijs2005/padho/internal/client/config"
	"github.com/dmitrijs2005/padho/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
