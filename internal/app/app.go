package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/courtstats/internal/config"
	"github.com/riskibarqy/courtstats/internal/domain/boxscore"
	"github.com/riskibarqy/courtstats/internal/domain/game"
	"github.com/riskibarqy/courtstats/internal/domain/gameevent"
	"github.com/riskibarqy/courtstats/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/courtstats/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/courtstats/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/courtstats/internal/infrastructure/statfeed"
	"github.com/riskibarqy/courtstats/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/courtstats/internal/platform/cache"
	idgen "github.com/riskibarqy/courtstats/internal/platform/id"
	"github.com/riskibarqy/courtstats/internal/platform/keylock"
	"github.com/riskibarqy/courtstats/internal/platform/logging"
	"github.com/riskibarqy/courtstats/internal/platform/resilience"
	"github.com/riskibarqy/courtstats/internal/usecase"
)

// Server is the assembled API plus the resources it owns.
type Server struct {
	HTTP *http.Server

	feed  *statfeed.Broker
	db    *sqlx.DB
	redis *redis.Client
}

type repositories struct {
	games   game.Repository
	events  gameevent.Repository
	stats   boxscore.Repository
	seasons boxscore.SeasonRepository
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	out := &Server{}
	repos, err := out.openRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	out.feed = statfeed.NewBroker(cfg.StreamBuffer, logger)
	publishers := statfeed.MultiPublisher{out.feed}
	if cfg.RedisEnabled {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			out.closeResources(logger)
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		out.redis = redis.NewClient(opts)
		publishers = append(publishers, statfeed.NewRedisPublisher(out.redis, statfeed.RedisPublisherConfig{
			Stream:       cfg.RedisStream,
			MaxLen:       int64(cfg.RedisStreamMaxLen),
			WriteTimeout: cfg.StorageTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.RedisCircuitEnabled,
				FailureThreshold: cfg.RedisCircuitFailures,
				OpenTimeout:      cfg.RedisCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.RedisCircuitHalfOpenMax,
			},
		}, logger))
		logger.Info("redis change stream enabled", "stream", cfg.RedisStream)
	}

	ids := idgen.NewUUIDGenerator()
	engine := usecase.NewAggregationService(repos.games, repos.events, repos.stats, keylock.New(), publishers, logger)
	rollupSvc := usecase.NewSeasonRollupService(engine, repos.seasons, cfg.RollupMaxWorkers)
	recalcSvc := usecase.NewRecalculationService(engine, rollupSvc, cfg.RecalcMaxWorkers)

	handler := httpapi.NewHandler(
		usecase.NewGameService(repos.games, ids),
		usecase.NewEventService(engine, recalcSvc, ids),
		engine,
		recalcSvc,
		rollupSvc,
		usecase.NewStatsQueryService(repos.games, repos.stats, repos.seasons, engine),
		out.feed,
		cfg.CORSAllowedOrigins,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalToken:      cfg.InternalToken,
	})

	out.HTTP = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return out, nil
}

func (s *Server) openRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	var repos repositories
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := openDB(cfg)
		if err != nil {
			return repositories{}, err
		}
		s.db = db
		repos = repositories{
			games:   postgres.NewGameRepository(db),
			events:  postgres.NewEventRepository(db),
			stats:   postgres.NewStatsRepository(db),
			seasons: postgres.NewSeasonRepository(db),
		}
	default:
		repos = repositories{
			games:   memory.NewGameRepository(),
			events:  memory.NewEventRepository(),
			stats:   memory.NewStatsRepository(),
			seasons: memory.NewSeasonRepository(),
		}
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.games = cache.NewGameRepository(repos.games, store)
		repos.stats = cache.NewStatsRepository(repos.stats, store)
		repos.seasons = cache.NewSeasonRepository(repos.seasons, store)
	}

	logger.Info("storage ready", "driver", cfg.StoreDriver, "cache_enabled", cfg.CacheEnabled)
	return repos, nil
}

// Shutdown stops the HTTP server first, then closes live streams and storage.
func (s *Server) Shutdown(ctx context.Context, logger *logging.Logger) error {
	if logger == nil {
		logger = logging.Default()
	}
	var err error
	if s.HTTP != nil {
		err = s.HTTP.Shutdown(ctx)
	}
	s.closeResources(logger)
	return err
}

func (s *Server) closeResources(logger *logging.Logger) {
	if s.feed != nil {
		s.feed.Shutdown()
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			logger.Warn("close redis", "error", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Warn("close postgres", "error", err)
		}
	}
}
