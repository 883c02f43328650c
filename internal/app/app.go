package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/riskibarqy/teamsheet/internal/config"
	"github.com/riskibarqy/teamsheet/internal/domain/match"
	"github.com/riskibarqy/teamsheet/internal/domain/merge"
	"github.com/riskibarqy/teamsheet/internal/domain/notification"
	"github.com/riskibarqy/teamsheet/internal/domain/team"
	"github.com/riskibarqy/teamsheet/internal/domain/user"
	"github.com/riskibarqy/teamsheet/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/teamsheet/internal/infrastructure/account/jwtauth"
	"github.com/riskibarqy/teamsheet/internal/infrastructure/notify/webhook"
	cacherepo "github.com/riskibarqy/teamsheet/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/teamsheet/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/teamsheet/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/teamsheet/internal/interfaces/httpapi"
	"github.com/riskibarqy/teamsheet/internal/platform/cache"
	idgen "github.com/riskibarqy/teamsheet/internal/platform/id"
	"github.com/riskibarqy/teamsheet/internal/platform/logging"
	"github.com/riskibarqy/teamsheet/internal/platform/metrics"
	"github.com/riskibarqy/teamsheet/internal/platform/resilience"
	"github.com/riskibarqy/teamsheet/internal/usecase"
)

type repositories struct {
	users         user.Repository
	teams         team.Repository
	matches       match.Repository
	merges        merge.Repository
	notifications notification.Repository
}

// NewHTTPServer wires storage, services and the router. The returned cleanup
// drains background notification work and closes the database.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, closeDB, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var (
		recorder       metrics.Recorder = metrics.Nop{}
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		recorder = metrics.NewService(registry)
		metricsHandler = metrics.NewMetricsHandler(registry)
	}

	deliverer, err := buildDeliverer(cfg, logger)
	if err != nil {
		return nil, nil, errors.CombineErrors(err, closeDB())
	}

	verifier, err := buildVerifier(cfg, logger)
	if err != nil {
		return nil, nil, errors.CombineErrors(err, closeDB())
	}

	ids := idgen.NewUUIDGenerator()
	codes := idgen.NewRandomCodeGenerator()

	notificationSvc, err := usecase.NewNotificationService(repos.notifications, ids, deliverer, recorder, logger, cfg.NotifyWorkers)
	if err != nil {
		return nil, nil, errors.CombineErrors(err, closeDB())
	}

	var statsCache *cache.Store
	if cfg.CacheEnabled {
		statsCache = cache.NewStore(cfg.StatsCacheTTL)
	}
	statsSvc := usecase.NewStatsService(repos.matches, repos.teams, repos.users, statsCache)

	handler := httpapi.NewHandler(
		usecase.NewUserService(repos.users, codes),
		usecase.NewTeamService(repos.teams, repos.users, ids, codes, notificationSvc),
		usecase.NewMatchService(repos.matches, repos.teams, ids, statsSvc),
		usecase.NewMemberMergeService(repos.merges, repos.teams, repos.users, ids, notificationSvc, statsSvc, recorder),
		usecase.NewTeamMergeService(repos.merges, repos.teams, repos.matches, ids, notificationSvc, statsSvc, recorder),
		statsSvc,
		notificationSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, verifier, logger, httpapi.RouterOptions{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		MetricsHandler:     metricsHandler,
		Recorder:           recorder,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	cleanup := func(ctx context.Context) error {
		notificationSvc.Close()
		return closeDB()
	}
	return server, cleanup, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, func() error, error) {
	var (
		repos   repositories
		closeDB = func() error { return nil }
	)

	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		repos = repositories{
			users:         memory.NewUserRepository(store),
			teams:         memory.NewTeamRepository(store),
			matches:       memory.NewMatchRepository(store),
			merges:        memory.NewMergeRepository(store),
			notifications: memory.NewNotificationRepository(store),
		}
	default:
		db, err := openDatabase(cfg)
		if err != nil {
			return repositories{}, nil, err
		}
		logger.Info("database connected", "db_name", dbNameFromURL(cfg.DBURL))
		closeDB = db.Close
		repos = repositories{
			users:         postgres.NewUserRepository(db),
			teams:         postgres.NewTeamRepository(db),
			matches:       postgres.NewMatchRepository(db),
			merges:        postgres.NewMergeRepository(db),
			notifications: postgres.NewNotificationRepository(db),
		}
	}

	if cfg.CacheEnabled {
		entities := cache.NewStore(cfg.CacheTTL)
		repos.users = cacherepo.NewUserRepository(repos.users, entities)
		repos.teams = cacherepo.NewTeamRepository(repos.teams, entities)
	}
	return repos, closeDB, nil
}

func buildDeliverer(cfg config.Config, logger *logging.Logger) (notification.Deliverer, error) {
	if cfg.NotifyWebhookURL == "" {
		logger.Info("notification webhook disabled", "reason", "NOTIFY_WEBHOOK_URL empty")
		return nil, nil
	}

	deliverer, err := webhook.NewDeliverer(webhook.Config{
		URL:         cfg.NotifyWebhookURL,
		Secret:      cfg.NotifyWebhookSecret,
		Timeout:     cfg.NotifyWebhookTimeout,
		MaxAttempts: uint(cfg.NotifyWebhookMaxAttempts),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.NotifyCircuitEnabled,
			FailureThreshold: cfg.NotifyCircuitFailureCount,
			OpenTimeout:      cfg.NotifyCircuitOpenTimeout,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("build webhook deliverer: %w", err)
	}
	return deliverer, nil
}

func buildVerifier(cfg config.Config, logger *logging.Logger) (httpapi.TokenVerifier, error) {
	if cfg.AuthProvider == config.AuthJWT {
		verifier, err := jwtauth.NewVerifier(jwtauth.Config{
			Secret:   cfg.JWTSecret,
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
			Leeway:   cfg.JWTLeeway,
		})
		if err != nil {
			return nil, fmt.Errorf("build jwt verifier: %w", err)
		}
		return verifier, nil
	}

	return anubis.NewClient(
		&http.Client{Timeout: cfg.AnubisTimeout},
		anubis.Config{
			BaseURL:        cfg.AnubisBaseURL,
			IntrospectPath: cfg.AnubisIntrospectURL,
			AdminKey:       cfg.AnubisAdminKey,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.AnubisCircuitEnabled,
				FailureThreshold: cfg.AnubisCircuitFailureCount,
				OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
			},
		},
		logger,
	), nil
}
