package main

import (
	"context"
	"log/slog"
	mathrand "math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chiqbank/internal/api"
	"chiqbank/internal/auth"
	"chiqbank/internal/bank"
	"chiqbank/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadAPIFromEnv()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var rng *mathrand.Rand
	if cfg.RandomSeed != 0 {
		rng = mathrand.New(mathrand.NewSource(cfg.RandomSeed))
	}
	store := bank.NewStore(logger, rng)
	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)

	server := api.New(cfg, logger, tokens, store)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("chiqbank api listening", "addr", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
