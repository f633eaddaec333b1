package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mhaveles/airbnboptimizer/internal/ai"
	"github.com/mhaveles/airbnboptimizer/internal/api"
	"github.com/mhaveles/airbnboptimizer/internal/config"
	"github.com/mhaveles/airbnboptimizer/internal/email"
	"github.com/mhaveles/airbnboptimizer/internal/payment"
	"github.com/mhaveles/airbnboptimizer/internal/pipeline"
	"github.com/mhaveles/airbnboptimizer/internal/pkg/logger"
	"github.com/mhaveles/airbnboptimizer/internal/scrape"
	"github.com/mhaveles/airbnboptimizer/internal/tablestore"
)

// checkPortAvailable verifies the target port is not already in use, so
// a stale process fails startup loudly instead of silently shadowing us.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration invalid: %v", err)
	}

	if os.Getenv("LOG_LEVEL") == "debug" {
		logger.SetLevel(logger.DEBUG)
	}

	ctx := context.Background()

	store := tablestore.NewClient(cfg.TableStore)
	scraper := scrape.NewClient(cfg.Scrape)

	completer, err := ai.NewBedrockCompleter(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("Failed to initialize model client: %v", err)
	}
	analyst := ai.NewStages(completer, cfg.AI)

	checkout := payment.NewClient(cfg.Payment, cfg.Server.BaseURL)

	sender, err := email.NewSender(ctx, cfg.Email)
	if err != nil {
		log.Fatalf("Failed to initialize email sender: %v", err)
	}
	if sender == nil {
		logger.Warn("email delivery disabled")
	}

	archiver, err := scrape.NewArchiver(ctx, cfg.Archive)
	if err != nil {
		log.Fatalf("Failed to initialize scrape archiver: %v", err)
	}

	eventLog, err := payment.NewEventLog(ctx, cfg.Payment.EventLogTable(), cfg.AI.Region)
	if err != nil {
		log.Fatalf("Failed to initialize webhook event log: %v", err)
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable, paid steps will run unserialized", "addr", cfg.Redis.Addr, "error", err.Error())
			rdb = nil
		}
		cancel()
	}

	svc := pipeline.NewService(store, scraper, analyst, checkout, sender, archiver, eventLog, rdb, cfg.Payment)
	normalizer := pipeline.NewURLNormalizer()
	health := api.NewHealthChecker(store, rdb)
	server := api.NewServer(svc, normalizer, health, *cfg)

	host := cfg.Server.GetHost()
	if err := checkPortAvailable(host, cfg.Server.Port); err != nil {
		log.Fatalf("%v", err)
	}
	addr := fmt.Sprintf("%s:%d", host, cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server error: %v", err)
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Shutdown error: %v", err)
	}
}
