package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/ksa-shopping-ranker/server/internal/agent/graph"
	"github.com/ksa-shopping-ranker/server/internal/agent/graph/oracles"
	"github.com/ksa-shopping-ranker/server/internal/agent/model"
	"github.com/ksa-shopping-ranker/server/internal/agent/repo"
	"github.com/ksa-shopping-ranker/server/internal/agent/tools"
	"github.com/ksa-shopping-ranker/server/internal/core"
	"github.com/ksa-shopping-ranker/server/internal/server"
	logx "github.com/ksa-shopping-ranker/server/pkg/logger"
	pkgredis "github.com/ksa-shopping-ranker/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the service, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	Addr        string `envconfig:"HTTP_ADDR" default:":8080"`
	Environment string `envconfig:"APP_ENV" default:"development"`

	// Infrastructure (optional search result cache)
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Search provider
	SearchAPIKey string `envconfig:"SEARCHAPI_KEY" required:"true"`

	// Agent configs
	Intent model.IntentModelConfig
	Rank   model.RankModelConfig
	Search model.SearchConfig
	Fetch  model.FetchConfig
}

func main() {
	ctx := context.Background()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	// Optional Redis-backed search cache
	var cache tools.SearchCache
	if cfg.Redis.Enabled() {
		rdb, err := cfg.Redis.New()
		if err != nil {
			logx.Fatal().Err(err).Msg("Failed to initialise Redis client")
		}
		defer rdb.Close()

		ttl, err := time.ParseDuration(cfg.Search.CacheTTL)
		if err != nil {
			logx.Fatal().Str("ttl", cfg.Search.CacheTTL).Err(err).Msg("Invalid SEARCH_CACHE_TTL")
		}
		cache = repo.NewRedisSearchCache(rdb, ttl)
		logx.Info().Msg("Search cache enabled")
	}

	// Oracle chat models over a shared Gemini client
	cms, err := oracles.NewChatModels(ctx, oracles.ChatModelConfig{
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		IntentCfg: &cfg.Intent,
		RankCfg:   &cfg.Rank,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to create chat models")
	}

	engine := graph.New(graph.Config{
		Resolver: oracles.NewIntentResolver(cms.Intent, cms.IntentModelName),
		Oracle:   oracles.NewRankOracle(cms.Rank, cms.RankModelName),
		Toolbox: &graph.LiveToolbox{
			SearchClient: tools.NewSearchClient(cfg.SearchAPIKey, cfg.Search, cache),
			PageFetcher:  tools.NewPageFetcher(cfg.Fetch),
		},
		SearchLimit:   cfg.Search.Limit,
		MaxFetchPages: cfg.Fetch.MaxPages,
		RankTopK:      cfg.Rank.TopK,
		RankMaxOffers: cfg.Rank.MaxOffers,
	})

	srv := server.New(engine, server.HealthInfo{
		GeminiConfigured:    cfg.APIKey != "",
		SearchAPIConfigured: cfg.SearchAPIKey != "",
	})

	go func() {
		logx.Info().Str("addr", cfg.Addr).Msg("HTTP server starting")
		if err := srv.Start(cfg.Addr); err != nil {
			logx.Info().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
