// Command devapi serves a local stand-in for the news API: code login,
// categories, comments and generated e-paper editions.
package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/newsclient/internal/buildinfo"
	"github.com/dmitrijs2005/newsclient/internal/devapi"
	"github.com/dmitrijs2005/newsclient/internal/devapi/config"
	"github.com/dmitrijs2005/newsclient/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app := devapi.NewApp(cfg, logging.NewJSONLogger(os.Stdout, cfg.LogLevel))
	if err := app.Run(context.Background()); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

}
