package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/signet-id/signet/internal/app"
	"github.com/signet-id/signet/internal/auth"
	"github.com/signet-id/signet/internal/federation"
	"github.com/signet-id/signet/internal/platform/cache"
	"github.com/signet-id/signet/internal/platform/db"
	"github.com/signet-id/signet/internal/users"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if err := db.Migrate(ctx, cfg.PGDSN); err != nil {
		logger.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	userRepo := users.NewRepository(pool)
	hasher := auth.NewHasher()
	tokens := auth.NewTokenIssuer([]byte(cfg.SecretKey), cfg.TokenTTL)

	authService := auth.NewService(userRepo, hasher, tokens)
	authHandler := auth.NewHandler(logger, authService)

	providerClient := federation.NewClient(federation.ProviderConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURI:  cfg.GoogleRedirectURI,
		AuthURL:      cfg.GoogleAuthURL,
		TokenURL:     cfg.GoogleTokenURL,
		UserInfoURL:  cfg.GoogleUserInfoURL,
		Issuer:       cfg.GoogleIssuer,
	})

	var decoder federation.AssertionDecoder = federation.UnverifiedDecoder{}
	if cfg.GoogleVerifyAssertions {
		verifier, err := federation.NewVerifier(ctx, cfg.GoogleIssuer, cfg.GoogleClientID)
		if err != nil {
			logger.Error("build assertion verifier", slog.Any("error", err))
			os.Exit(1)
		}
		decoder = verifier
	} else {
		logger.Warn("assertion signature verification disabled; direct credentials are trusted as-is")
	}

	var states *federation.StateStore
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, oauth state checks disabled", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		states = federation.NewStateStore(redisClient, cfg.OAuthStateTTL)
	}

	resolver := federation.NewResolver(logger, providerClient, decoder, userRepo, tokens)
	googleHandler := federation.NewHandler(logger, resolver, providerClient, states)

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		AuthHandler:   authHandler,
		GoogleHandler: googleHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}
