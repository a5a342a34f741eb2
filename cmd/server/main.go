package main

import (
	"log/slog"
	"os"

	"github.com/alexzhelyapov1/LifeControl/config"
	"github.com/alexzhelyapov1/LifeControl/internal/routes"
	"github.com/alexzhelyapov1/LifeControl/models"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := config.LoadSettings(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	config.ConnectDB()
	config.ConnectRedis()

	err := config.DB.AutoMigrate(
		&models.User{},
		&models.Sphere{},
		&models.Location{},
		&models.AccountingRecord{},
	)
	if err != nil {
		slog.Error("Migration failed", "error", err)
		os.Exit(1)
	}

	r := routes.SetupRouter()

	slog.Info("Starting server", "addr", config.App.ListenAddr)
	if err := r.Run(config.App.ListenAddr); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
