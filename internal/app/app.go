// Package app wires configuration into a ready-to-run briefing pipeline.
// Both the server and the CLI build their dependencies through Build.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jimdaga/team-pulse/internal/claim"
	"github.com/jimdaga/team-pulse/internal/config"
	"github.com/jimdaga/team-pulse/internal/database"
	"github.com/jimdaga/team-pulse/internal/dispatch"
	"github.com/jimdaga/team-pulse/internal/health"
	"github.com/jimdaga/team-pulse/internal/llm"
	"github.com/jimdaga/team-pulse/internal/narrative"
	"github.com/jimdaga/team-pulse/internal/schedule"
	"github.com/jimdaga/team-pulse/internal/store"
	"github.com/jimdaga/team-pulse/internal/streams"
	"github.com/jimdaga/team-pulse/internal/webhook"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// App holds the long-lived pipeline dependencies.
type App struct {
	Config     *config.Config
	DB         *gorm.DB
	Redis      *redis.Client
	Store      *store.GormStore
	Publisher  *streams.Publisher
	Dispatcher *dispatch.Dispatcher
}

// Build opens the database and Redis, applies migrations and assembles the
// dispatcher. The caller owns the returned App and must Close it.
func Build(cfg *config.Config, logger *slog.Logger) (*App, error) {
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	policy, err := schedule.PolicyByName(cfg.WeekPolicy)
	if err != nil {
		return nil, fmt.Errorf("invalid WEEK_POLICY: %w", err)
	}

	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	if cfg.SeedDevData && cfg.IsDevelopment() {
		if err := database.SeedDevData(db); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("failed to seed dev data: %w", err)
		}
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	rdb := redis.NewClient(opts)

	a, err := assemble(cfg, logger, db, rdb, provider, policy)
	if err != nil {
		_ = rdb.Close()
		_ = database.Close(db)
		return nil, err
	}
	return a, nil
}

func assemble(cfg *config.Config, logger *slog.Logger, db *gorm.DB, rdb *redis.Client, provider llm.Provider, policy schedule.WeekPolicy) (*App, error) {
	var prompt *narrative.PromptTemplate
	if cfg.PromptFile != "" {
		p, err := narrative.LoadPromptFile(cfg.PromptFile)
		if err != nil {
			return nil, err
		}
		prompt = p
	}

	generator, err := narrative.NewGenerator(provider, prompt, logger)
	if err != nil {
		return nil, err
	}

	s := store.New(db)
	publisher := streams.NewPublisherFromClient(rdb, cfg.ResultStream)
	d := dispatch.New(
		s,
		generator,
		claim.NewRedisStoreFromClient(rdb),
		[]dispatch.Recorder{s, publisher},
		logger,
		dispatch.Options{ClaimTTL: cfg.ClaimTTL, WeekPolicy: policy},
	)

	logger.Info("Briefing pipeline ready",
		"provider", cfg.Provider,
		"week_policy", policy.Name(),
		"claim_ttl", cfg.ClaimTTL.String(),
		"stream", publisher.Stream(),
	)

	return &App{
		Config:     cfg,
		DB:         db,
		Redis:      rdb,
		Store:      s,
		Publisher:  publisher,
		Dispatcher: d,
	}, nil
}

// NewProvider selects the text-generation provider named by cfg.Provider.
func NewProvider(cfg *config.Config) (llm.Provider, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return llm.NewOpenAIProvider(llm.OpenAIConfig{
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
		}, nil)
	case config.ProviderWebhook:
		if cfg.WebhookURL == "" {
			return nil, fmt.Errorf("PROVIDER=webhook requires WEBHOOK_URL")
		}
		return webhook.NewClient(cfg.WebhookURL, cfg.WebhookSecret), nil
	case config.ProviderStub, "":
		return llm.StubProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// Checks returns readiness probes for the database and Redis.
func (a *App) Checks() map[string]health.Check {
	return map[string]health.Check{
		"database": func(ctx context.Context) error {
			sqlDB, err := a.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return a.Redis.Ping(ctx).Err()
		},
	}
}

// Close releases Redis and the database.
func (a *App) Close() error {
	var firstErr error
	if err := a.Redis.Close(); err != nil {
		firstErr = err
	}
	if err := database.Close(a.DB); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// ReadyTimeout bounds one readiness probe.
const ReadyTimeout = 2 * time.Second
