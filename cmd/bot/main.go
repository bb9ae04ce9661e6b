package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/Jacobbrewer1/warden/cmd/bot/config"
	"github.com/Jacobbrewer1/warden/pkg/logging"
)

func main() {
	// The log level may come from the .env file.
	if err := config.LoadEnvFile(); err != nil {
		log.Fatalln(err)
	}

	a, err := InitializeApp()
	if err != nil {
		log.Fatalln(err)
	}
	if err := config.Parse(a.Log()); err != nil {
		a.Error("Error parsing configuration", slog.String(logging.KeyError, err.Error()))
		os.Exit(1)
	}
	a.Info("Starting application", slog.Any("config", config.LogValue()))
	if err := a.Run(); err != nil {
		a.Error("Error running application", slog.String(logging.KeyError, err.Error()))
		os.Exit(1)
	}
}
