package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"PortfolioVoice/internal/config"
	"PortfolioVoice/pkg/log"
	"PortfolioVoice/pkg/redis"
	"PortfolioVoice/pkg/s3"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.NewLogger().Warnf("Error loading .env file: %v", err)
	}
	logger := log.NewLogger()

	voiceConfig, err := config.LoadVoiceConfig()
	if err != nil {
		logger.Fatalf("Invalid voice configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	options := []config.ServerOption{
		config.WithFiber(config.NewFiber(logger)),
		config.WithLogger(logger),
		config.WithValidator(config.NewValidator()),
		config.WithVoiceConfig(voiceConfig),
		config.WithCatalog(voiceConfig.CatalogPath),
		config.WithMiddleware(),
		config.WithUtils(),
		config.WithUpstream(ctx),
	}
	if voiceConfig.RedisEnabled() {
		options = append(options, config.WithRedisServer(redis.New(redis.Options{
			Address:  voiceConfig.RedisAddress,
			Password: voiceConfig.RedisPassword,
			DB:       voiceConfig.RedisDB,
		})))
	}
	if voiceConfig.S3Enabled() {
		options = append(options, config.WithS3Client(s3.Options{
			Region:          voiceConfig.AWSRegion,
			AccessKeyID:     voiceConfig.AWSAccessKeyID,
			SecretAccessKey: voiceConfig.AWSSecretAccessKey,
			Bucket:          voiceConfig.AWSBucket,
			Expiry:          voiceConfig.PresignExpiry,
		}))
	}

	server, err := config.NewServer(options...)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("Voice server listening on :%s", voiceConfig.AppPort)
		return server.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatalf("Server stopped with error: %v", err)
	}
	logger.Info("Server stopped")
}
