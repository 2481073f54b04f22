package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fusionstudio/internal/composer"
	"fusionstudio/internal/http/handlers"
	"fusionstudio/internal/http/httpapi"
	"fusionstudio/internal/infra"
	"fusionstudio/internal/providers/genai"
	providerimage "fusionstudio/internal/providers/image"
	"fusionstudio/internal/relay"
	"fusionstudio/internal/session"
)

func main() {
	// Load .env (optional).
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	genaiClient, err := genai.NewClient(genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build gemini client")
	}

	fetcher := relay.NewFetcher(relay.Options{BaseURL: cfg.RelayBaseURL})
	fuser := providerimage.NewGeminiFuser(genaiClient)

	sessions := session.NewStore(cfg.SessionTTL, func() *composer.Controller {
		return composer.New(fetcher, fuser, nil)
	})
	sweepStop := make(chan struct{})
	sessions.StartSweeper(5*time.Minute, sweepStop)

	app := handlers.NewApp(cfg, &logger, sessions, fetcher)
	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("model", genaiClient.Model()).Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	close(sweepStop)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
