package config

import (
	"log/slog"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	db, err := gorm.Open(postgres.Open(App.DatabaseDSN()), &gorm.Config{})
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}

	DB = db
	slog.Info("Connected to database", "host", App.PostgresServer, "db", App.PostgresDB)
}
