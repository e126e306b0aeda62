package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"first-aid-backend/cmd"
	"first-aid-backend/internal/data/repository"
	"first-aid-backend/internal/wire"
	"first-aid-backend/pkg/database"
	"first-aid-backend/pkg/notifier"
	"first-aid-backend/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using production logger.", err)
		logger, _ = zap.NewProduction()
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	sender, err := notifier.NewSender(config, logger)
	if err != nil {
		logger.Fatal("Failed to create OTP sender", zap.Error(err))
	}
	if closer, ok := sender.(interface{ Close() error }); ok {
		defer func() { _ = closer.Close() }()
	}

	repos := repository.NewRepository(db, logger)
	app := wire.Wiring(repos, sender, config, logger)

	if config.OTP.JanitorMinutes > 0 {
		go cmd.RunJanitor(ctx, repos, app.Clock, time.Duration(config.OTP.JanitorMinutes)*time.Minute, logger)
	}

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}

	// let queued deliveries finish before the sender closes
	app.Dispatcher.Close()
	logger.Info("Shutdown complete")
}
