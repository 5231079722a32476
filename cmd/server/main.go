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

	router "recovery-center/internal/adapters/http"
	"recovery-center/internal/adapters/ws"
	"recovery-center/internal/app"
	"recovery-center/internal/config"
	"recovery-center/internal/mail"
	"recovery-center/internal/service"
	"recovery-center/internal/storage"
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

	store, err := storage.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect storage")
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("storage close")
		}
	}()
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	messages := storage.NewMessageRepo(store)
	users := storage.NewUserRepo(store)
	posts := storage.NewPostRepo(store)
	diaries := storage.NewDiaryRepo(store)
	groups := storage.NewGroupRepo(store)
	verifications := storage.NewVerificationRepo(store)

	svc := router.Services{
		Auth:   service.NewAuthService(users, verifications, cfg.AllowedEmailDomain, cfg.JWTSecret, cfg.JWTExpiryHours),
		Verify: service.NewVerifyService(verifications, mail.NewSMTPMailer(cfg.SMTP)),
		Posts:  service.NewPostService(posts),
		Diary:  service.NewDiaryService(diaries),
		Groups: service.NewGroupService(groups, users),
	}

	registry := app.NewRegistry()
	rooms := app.NewRooms()
	presence := app.NewCoordinator(registry, rooms, messages)

	wsCtl := &ws.Controller{
		Registry:   registry,
		Presence:   presence,
		Relay:      app.NewRelay(messages, presence),
		Signaler:   app.NewSignaler(registry),
		Limiter:    app.NewChatRateLimiter(cfg.ChatRateLimit, cfg.ChatRateWindow),
		ReadLimit:  cfg.ReadLimit,
		PingPeriod: cfg.PingPeriod,
	}

	r := router.SetupRouter(ctx, cfg, svc, wsCtl)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("recovery-center server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
