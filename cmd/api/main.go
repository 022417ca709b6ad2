// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/jupani/storefront/internal/config"
	"github.com/jupani/storefront/internal/domain/checkout"
	"github.com/jupani/storefront/internal/domain/order"
	"github.com/jupani/storefront/internal/domain/product"
	"github.com/jupani/storefront/internal/domain/shipping"
	"github.com/jupani/storefront/internal/infrastructure/database/postgres"
	"github.com/jupani/storefront/internal/infrastructure/database/redis"
	"github.com/jupani/storefront/internal/infrastructure/messaging/kafka"
	"github.com/jupani/storefront/internal/interfaces/http"
	"github.com/jupani/storefront/internal/interfaces/http/routes"
	"github.com/jupani/storefront/internal/pkg/auth"
	"github.com/jupani/storefront/internal/pkg/email"
	"github.com/jupani/storefront/internal/pkg/logger"
	"github.com/jupani/storefront/internal/pkg/pdf"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg)
	log.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting storefront")

	table, err := shipping.LoadTable(cfg.Store.ShippingRulesFile)
	if err != nil {
		log.Fatalf("Failed to load shipping rules: %v", err)
	}

	db, err := postgres.NewConnection(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := redis.NewConnection(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	migration := postgres.NewMigration(db.GetDB(), log)
	if err := migration.RunAutoMigrations(); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}
	if err := migration.CreateIndexes(); err != nil {
		log.WithError(err).Warn("Index creation incomplete")
	}

	if cfg.IsDevelopment() {
		if err := migration.SeedInitialData(); err != nil {
			log.WithError(err).Warn("Data seeding failed")
		}
		if err := migration.GetTableInfo(); err != nil {
			log.WithError(err).Debug("Table info unavailable")
		}
	}

	orderService := order.NewService(db.GetDB(), cfg)

	var notifiers []checkout.Notifier
	var publisher *kafka.Publisher

	mailer := email.NewEmailService(cfg, log)
	if mailer.Enabled() {
		notifiers = append(notifiers, checkout.NewEmailNotifier(mailer, cfg))
	}

	deps := &routes.Dependencies{
		Config:     cfg,
		Logger:     log,
		Products:   product.NewService(db.GetDB(), redisClient, cfg, log),
		Categories: product.NewCategoryService(db.GetDB()),
		Orders:     orderService,
		Receipts:   pdf.NewService(cfg),
		Passwords:  auth.NewPasswordManager(cfg),
		Sessions:   auth.NewSessionManager(cfg),
	}

	if cfg.KafkaEnabled() {
		publisher = kafka.NewPublisher(cfg, log)
		defer publisher.Close()
		notifiers = append(notifiers, publisher)
		deps.StatusPublisher = publisher
	}

	deps.Checkout = checkout.NewService(orderService, table, cfg, log, notifiers...)

	server := http.NewServer(deps, db.GetDB(), redisClient.GetClient())

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	log.Info("Server shutdown completed")
}
