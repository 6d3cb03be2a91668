package container

import (
	"context"
	"fmt"
	"path/filepath"

	"sephora/crawler/internal/client"
	"sephora/crawler/internal/config"
	"sephora/crawler/internal/domain"
	"sephora/crawler/internal/loader"
	"sephora/crawler/internal/observability"
	"sephora/crawler/internal/replay"
	"sephora/crawler/internal/resolver"
	"sephora/crawler/internal/service"
	"sephora/crawler/internal/sink"
	"sephora/crawler/internal/state"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config       *config.Config
	Client       client.SephoraClient
	Resolver     *resolver.Resolver
	Sink         sink.Sink
	FileSink     *sink.FileSink
	Recorder     *replay.Recorder
	Replayer     *replay.Replayer
	StateManager state.StateManager
	Loader       *loader.Loader

	Service *service.Service

	categories []domain.Category

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	rawCategories, err := cfg.LoadCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	container.categories = domain.CategoriesFromMap(rawCategories)
	log.Infof("Loaded %d categories", len(container.categories))

	fileSink, err := sink.NewFileSink(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file sink: %w", err)
	}
	container.FileSink = fileSink
	container.Sink = fileSink

	if cfg.Database.Enabled {
		db, err := pgxpool.New(context.Background(),
			fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
				cfg.Database.Host,
				cfg.Database.Port,
				cfg.Database.User,
				cfg.Database.Password,
				cfg.Database.Name,
			))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		container.db = db
		container.Sink = sink.NewMultiSink(fileSink, sink.NewPostgresSink(db))
		log.Info("✅ Postgres sink enabled")
	}

	if cfg.Redis.Host != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})

		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		container.redis = rdb
		container.StateManager = state.NewRedisStateManager(rdb)
	} else {
		container.StateManager = state.NewMemoryStateManager()
	}

	recorder, err := replay.NewRecorder(filepath.Join(cfg.Storage.DataDir, "errors"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize error recorder: %w", err)
	}
	container.Recorder = recorder

	sephoraClient := client.NewSephoraClient(cfg.Sephora)
	container.Client = sephoraClient

	container.Resolver = resolver.New(sephoraClient)
	container.Replayer = replay.NewReplayer(recorder, container.Resolver, container.Sink)
	container.Loader = loader.New(cfg.Loader, cfg.Sephora.BaseURL, fileSink)

	container.Service = service.NewService(
		sephoraClient,
		container.Resolver,
		container.Sink,
		recorder,
		container.StateManager,
		cfg.Sephora.MaxWorkers,
	)

	observability.Start(cfg.Metrics.Port)

	return container, nil
}

// Scrape runs the full fetch -> enrich -> resolve -> persist pipeline.
func (c *Container) Scrape(ctx context.Context) error {
	return c.Service.ScrapeAll(ctx, c.categories)
}

// Replay re-drives previously recorded batch failures.
func (c *Container) Replay(ctx context.Context) error {
	results, err := c.Replayer.ReplayAll(ctx)
	if err != nil {
		return err
	}

	replayed := 0
	for _, result := range results {
		if result.Outcome == replay.OutcomeReplayed {
			replayed++
		}
	}
	log.Infof("✅ Replay finished: %d/%d records replayed", replayed, len(results))
	return nil
}

// Load pushes persisted SKU collections to the downstream catalog API.
func (c *Container) Load(ctx context.Context) error {
	return c.Loader.LoadAll(ctx)
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		c.redis.Close()
	}

	log.Info("Container shut down successfully")
	return nil
}
