package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/digisapp/exa-platform/config"
	"github.com/digisapp/exa-platform/internal/database"
	"github.com/digisapp/exa-platform/internal/realtime"
	"github.com/digisapp/exa-platform/internal/router"
	"github.com/digisapp/exa-platform/pkg/cloudinary"
	"github.com/digisapp/exa-platform/pkg/logger"
	"github.com/digisapp/exa-platform/pkg/payment"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	database.SeedAdmin(db)
	database.SeedCoinPackages(db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	var cloud cloudinary.Client
	if cfg.Cloudinary.CloudName != "" {
		cloud, err = cloudinary.New(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			log.Fatal().Err(err).Msg("cloudinary init failed")
		}
	}

	var provider payment.Provider
	if cfg.Payment.APIKey != "" {
		provider = payment.NewHTTPProvider(cfg.Payment.BaseURL, cfg.Payment.APIKey, cfg.Payment.WebhookSecret)
	} else {
		log.Warn().Msg("no payment api key configured, using stub provider")
		provider = &payment.StubProvider{}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub()
	publisher := realtime.NewPublisher(rdb, cfg.Redis.StreamKey, log)
	subscriber := realtime.NewSubscriber(rdb, cfg.Redis.StreamKey, hub, log)
	go subscriber.Run(ctx)

	engine, auctionSvc, err := router.Setup(ctx, cfg, db, router.Deps{
		Cloud:    cloud,
		Provider: provider,
		Events:   publisher,
		Hub:      hub,
		Log:      log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("router setup failed")
	}
	go auctionSvc.Run(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	_ = rdb.Close()
	log.Info().Msg("server stopped")
}
