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

	"github.com/Ashish23jun/One-Call/internal/config"
	"github.com/Ashish23jun/One-Call/internal/grantsvc"
	"github.com/Ashish23jun/One-Call/internal/httpapi"
	"github.com/Ashish23jun/One-Call/internal/presence"
	"github.com/Ashish23jun/One-Call/internal/roomstore"
	"github.com/Ashish23jun/One-Call/internal/signaling"
	"github.com/Ashish23jun/One-Call/internal/tenantstore"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early, before any component logs.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	tenants := tenantstore.NewMemoryStore()
	rooms := roomstore.NewMemoryStore()
	registry := presence.New()
	issuer := grantsvc.NewIssuer(cfg.SigningSecret, rooms, grantsvc.AllowAll{})

	apiEngine := httpapi.NewRouter(cfg, tenants, rooms, issuer, registry)
	apiAddr := fmt.Sprintf(":%d", cfg.APIPort)
	apiSrv := &http.Server{Addr: apiAddr, Handler: apiEngine}

	signalSrv := signaling.NewServer(registry, issuer, signaling.Options{
		HeartbeatPeriod: cfg.HeartbeatPeriod,
		Logger:          log.Logger,
	})
	signalAddr := fmt.Sprintf(":%d", cfg.SignalPort)
	signalMux := http.NewServeMux()
	signalMux.HandleFunc("/ws/signal", func(w http.ResponseWriter, r *http.Request) {
		signalSrv.HandleUpgrade(ctx, w, r)
	})
	wsSrv := &http.Server{Addr: signalAddr, Handler: signalMux}

	go func() {
		log.Info().Str("addr", apiAddr).Msg("access plane listening")
		if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("api server error")
		}
	}()

	go func() {
		log.Info().Str("addr", signalAddr).Msg("signaling plane listening")
		if err := wsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("signal server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	grace := cfg.ShutdownGrace
	if grace <= 0 {
		grace = 10 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), grace)
	defer shutdownCancel()

	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("api server forced to shutdown")
	}
	if err := wsSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("signal server forced to shutdown")
	}
	log.Info().Msg("server exited gracefully")
}
