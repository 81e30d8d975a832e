package main

import (
	"os"

	"github.com/probagno/go-backend/internal/app"
	config "github.com/probagno/go-backend/internal/cfg"
	"github.com/probagno/go-backend/pkg/logger"
)

func main() {
	log := logger.NewZapLogger()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	// после чтения конфига пересоздаём логгер с режимом и файлом из окружения
	log = logger.NewZapLoggerWithOptions(logger.Options{
		Mode:     cfg.Log.Mode,
		Filename: cfg.Log.Filename,
	})
	defer func() { _ = log.Sync() }()

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		_ = log.Sync()
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		_ = log.Sync()
		os.Exit(1)
	}
}
