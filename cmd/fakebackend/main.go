// Command fakebackend serves the in-memory development backend the CLI can
// be pointed at with -a.
package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/padho/internal/fakebackend"
	"github.com/dmitrijs2005/padho/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := fakebackend.LoadConfig(os.Args[1:])
	logger := logging.New(os.Stdout, cfg.LogLevel, "json")

	app, err := fakebackend.NewApp(cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
