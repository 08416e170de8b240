// Command tiktok-oauth-web is a small web server that signs a user in with
// TikTok and shows their profile and videos
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/wrale/tiktok-api-v2/internal/state"
	"github.com/wrale/tiktok-api-v2/pkg/apis"
	"github.com/wrale/tiktok-api-v2/pkg/endpoint"
	"github.com/wrale/tiktok-api-v2/pkg/envelope"
	"github.com/wrale/tiktok-api-v2/pkg/oauth"
)

// Version is set by the build process
var Version = "dev"

func main() {
	// Load .env file if it exists
	envErr := godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal("Error loading configuration", "err", err)
	}

	logger := newLogger(cfg.LogLevel)
	if envErr != nil {
		logger.Debug("No .env file loaded, using environment variables", "err", envErr)
	}

	scopes, err := cfg.ParsedScopes()
	if err != nil {
		logger.Fatal("Error parsing scopes", "err", err)
	}

	endpoints, err := endpoint.FromEnv()
	if err != nil {
		logger.Fatal("Error loading endpoint override", "err", err)
	}

	// Create Redis client
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal("Error parsing Redis URL", "err", err)
	}
	redisClient := redis.NewClient(redisOpts)

	// Verify Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("Error connecting to Redis", "err", err)
	}

	httpClient := &http.Client{}
	decoder := envelope.NewDecoder(logger.WithPrefix("tiktok"))

	oauthManager, err := oauth.NewManager(cfg.Credentials(), scopes,
		oauth.WithHTTPClient(httpClient),
		oauth.WithTimeout(cfg.APITimeout),
		oauth.WithDecoder(decoder),
	)
	if err != nil {
		logger.Fatal("Error creating OAuth manager", "err", err)
	}

	api := &apis.Client{HTTP: httpClient, Endpoint: endpoints, Decoder: decoder}
	stateManager := state.NewManager(state.NewRedisStore(redisClient), cfg.StateTTL, cfg.CookieSecure)

	srv, err := newServer(cfg, logger, stateManager, oauthManager, api)
	if err != nil {
		logger.Fatal("Error creating server", "err", err)
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "port", cfg.Port, "version", Version, "prefix", endpoints.Prefix())
		serverErrors <- httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Error starting server", "err", err)
		}

	case <-shutdown:
		logger.Info("Starting shutdown")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down server", "err", err)
			if err := httpServer.Close(); err != nil {
				logger.Error("Error closing server", "err", err)
			}
		}

		if err := redisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", "err", err)
		}
	}
}

func newLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "tiktok-oauth-web",
	})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		logger.Warn("Unknown LOG_LEVEL, using info", "level", level)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}
