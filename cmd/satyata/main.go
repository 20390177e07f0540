// Command satyata serves the Bengali fact-check API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/factchecker/satyata/internal/api"
	"github.com/factchecker/satyata/internal/config"
	"github.com/factchecker/satyata/internal/database"
	"github.com/factchecker/satyata/internal/imagehost"
	"github.com/factchecker/satyata/internal/llm"
	"github.com/factchecker/satyata/internal/ratelimit"
	"github.com/factchecker/satyata/internal/search"
	"github.com/factchecker/satyata/internal/verify"
	"github.com/factchecker/satyata/web"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	generate := flag.Bool("generate-config", false, "write a sample configuration to -config and exit")
	flag.Parse()

	if *generate {
		if err := config.GenerateSample(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Sample configuration written to %s\n", *configPath)
		return
	}

	// A missing .env is fine; variables may come from the environment.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("Failed to load configuration")
	}
	setupLogging(&cfg.Logging)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func setupLogging(cfg *config.LoggingConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Format == "text" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := database.Open(&cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	limitStore, closeLimitStore, err := newLimitStore(ctx, &cfg.RateLimits)
	if err != nil {
		return err
	}
	defer closeLimitStore()
	limiter := ratelimit.NewFromConfig(limitStore, &cfg.RateLimits)

	provider, err := llm.NewProvider(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}

	searcher := search.NewMultiSearcher(
		search.NewSerperClient(&cfg.Search),
		search.NewBooster(cfg.Search.TrustedSites),
		cfg.Search.Timeout,
	)
	engine := verify.NewEngine(searcher, provider, verify.OptionsFromConfig(cfg))
	uploader := imagehost.NewImgBBClient(&cfg.ImageHost)

	handler := api.NewHandler(engine, uploader, store, cfg.ImageHost.MaxBytes)
	router := api.NewRouter(cfg, handler, limiter, web.Static())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Int("port", cfg.Server.Port).
			Str("provider", provider.Name()).
			Str("model", cfg.LLM.Model).
			Str("rate_limit_store", cfg.RateLimits.Store).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("Shutting down")
	}

	cancel()
	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	return srv.Shutdown(shutCtx)
}

func newLimitStore(ctx context.Context, cfg *config.RateLimitConfig) (ratelimit.Store, func(), error) {
	if cfg.Store == "redis" {
		rdb, err := ratelimit.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return ratelimit.NewRedisStore(rdb), func() { rdb.Close() }, nil
	}

	mem := ratelimit.NewMemoryStore()
	mem.StartSweeper(ctx, cfg.SweepInterval)
	return mem, func() {}, nil
}
