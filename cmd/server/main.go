package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	router "github.com/codehaven/collab-server/internal/adapters/http"
	sigadapter "github.com/codehaven/collab-server/internal/adapters/signal"
	"github.com/codehaven/collab-server/internal/app"
	"github.com/codehaven/collab-server/internal/config"
	"github.com/codehaven/collab-server/internal/llm"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	hub := app.NewSessionHub()

	var gateway *app.Gateway
	if cfg.AIAPIKey != "" {
		client, err := llm.NewClient(llm.Provider(cfg.AIProvider), cfg.AIAPIKey, &llm.ClientOptions{ModelID: cfg.AIModel})
		if err != nil {
			log.Error().Err(err).Msg("AI client init failed, assistant disabled")
		} else {
			gateway = app.NewGateway(hub, llm.NewService(client, cfg.AIMaxTokens))
			if cfg.AIRetryBase > 0 {
				gateway.RetryBase = cfg.AIRetryBase
			}
		}
	} else {
		log.Warn().Msg("no AI API key configured, assistant disabled")
	}

	ctrl := sigadapter.NewController(hub, gateway, cfg.ReadLimit)
	if cfg.MsgRate > 0 {
		ctrl.MsgRate = rate.Limit(cfg.MsgRate)
	}
	if cfg.MsgBurst > 0 {
		ctrl.MsgBurst = cfg.MsgBurst
	}

	r := router.SetupRouter(ctx, cfg, hub, ctrl)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("collab server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	hub.Shutdown()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
