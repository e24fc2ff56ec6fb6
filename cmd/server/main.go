package main

import (
	"flag"
	"log/slog"
	"net/http"

	"github.com/meridianapps/contacts-api/internal/app"
	"github.com/meridianapps/contacts-api/internal/config"
	"github.com/meridianapps/contacts-api/internal/db"
	"github.com/meridianapps/contacts-api/internal/logger"
	"github.com/meridianapps/contacts-api/internal/routes"
)

func main() {
	rollback := flag.Bool("rollback", false, "roll back the most recent database migration and exit")
	flag.Parse()

	cfg := config.Load()

	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)

	if *rollback {
		runRollback(cfg)
		return
	}

	app, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		panic(err)
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	handler := routes.SetupRoutes(app)
	slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)

	err = http.ListenAndServe(":"+cfg.Port, handler)
	if err != nil {
		slog.Error("server failed", "error", err)
		panic(err)
	}
}

func runRollback(cfg *config.Config) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection, db.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		panic(err)
	}
	defer func() {
		closeErr := db.Close(database)
		if closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	err = db.MigrateDown(database.DB, cfg.DBDriver)
	if err != nil {
		slog.Error("failed to roll back migration", "error", err)
		panic(err)
	}
}
