package bootstrap

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"nytinsight/internal/ai"
	appsvc "nytinsight/internal/app"
	"nytinsight/internal/compose"
	"nytinsight/internal/config"
	"nytinsight/internal/corpus"
	redisClient "nytinsight/internal/platform/redis"
	"nytinsight/internal/ratelimit"
)

type App struct {
	Config     *config.Config
	Corpus     *corpus.Loader
	AskService *appsvc.AskService
	Redis      *redis.Client
	Limiter    ratelimit.Limiter

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	return NewWithConfig(ctx, cfg)
}

// NewWithConfig wires the ask pipeline. Redis is only dialled when rate
// limiting is enabled, and an unreachable redis does not stop startup.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	catalog, err := corpus.LoadCatalog(cfg.Corpus.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load corpus catalog failed: %w", err)
	}
	loader := corpus.NewLoader(cfg.Corpus.Dir, catalog, cfg.Corpus.Extensions)

	composer, err := newComposer(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:     cfg,
		Corpus:     loader,
		AskService: appsvc.NewAskService(loader, composer),
		StartedAt:  time.Now(),
	}

	if cfg.RateLimit.Enabled {
		redisCli, err := redisClient.New(ctx, cfg.Redis)
		if err != nil {
			log.Printf("redis unavailable, rate limiting will fail open: %v", err)
		}
		app.Redis = redisCli
		app.Limiter = ratelimit.NewRedisLimiter(
			redisCli,
			cfg.RateLimit.Requests,
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
		)
	}
	return app, nil
}

func newComposer(cfg *config.Config) (compose.Composer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Composer.Provider)) {
	case "", "static":
		return compose.NewStatic(), nil
	case "llm":
		composer, err := compose.NewLLM(
			ai.NewOpenAICompatibleClient(),
			ai.ChatConfig{
				BaseURL: cfg.LLM.BaseURL,
				APIKey:  cfg.LLM.APIKey,
				Model:   cfg.LLM.Model,
			},
			time.Duration(cfg.Composer.TimeoutSeconds)*time.Second,
		)
		if err != nil {
			return nil, fmt.Errorf("init llm composer failed: %w", err)
		}
		return composer, nil
	default:
		return nil, fmt.Errorf("unknown composer provider %q", cfg.Composer.Provider)
	}
}

func (a *App) Close() error {
	if a.Redis != nil {
		return a.Redis.Close()
	}
	return nil
}
