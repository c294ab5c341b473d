package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"foodorder-telegram/bot"
	"foodorder-telegram/config"
	"foodorder-telegram/db"
	"foodorder-telegram/services"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	setupLogging(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Check for migrate subcommand
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(ctx, cfg)
		return
	}

	if cfg.Telegram.Token == "" {
		logrus.Fatal("TOKEN not set")
	}

	if cfg.DB.Enabled() {
		if err := db.Init(ctx, cfg.DB); err != nil {
			logrus.WithError(err).Fatal("db")
		}
		defer db.Close()

		// Optional auto-migration (useful in production and for fresh DBs).
		// Set AUTO_MIGRATE=1 (or "true") to enable.
		if v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE")); v == "1" || strings.EqualFold(v, "true") {
			if err := applyMigrations(ctx, false); err != nil {
				logrus.WithError(err).Fatal("migrate")
			}
		}
	} else {
		logrus.Info("DB_HOST not set, running without persistence")
	}

	api := services.NewAPIClient(cfg.API.BaseURL, &http.Client{Timeout: cfg.API.Timeout})
	b, err := bot.New(cfg, api)
	if err != nil {
		logrus.WithError(err).Fatal("bot")
	}

	logrus.WithFields(logrus.Fields{"api": cfg.API.BaseURL, "locale": cfg.Locale}).Info("bot started")
	b.Start(ctx)
	logrus.Info("bot stopped")
}

func setupLogging(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.WithError(err).Warnf("unknown LOG_LEVEL %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

func runMigrate(ctx context.Context, cfg *config.Config) {
	if !cfg.DB.Enabled() {
		logrus.Fatal("migrate: DB_HOST not set")
	}
	if err := db.Init(ctx, cfg.DB); err != nil {
		logrus.WithError(err).Fatal("db")
	}
	defer db.Close()

	if err := applyMigrations(ctx, true); err != nil {
		logrus.WithError(err).Fatal("migrate")
	}
}
