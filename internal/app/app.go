package app

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/questlearn-backend/internal/catalog"
	dataagg "github.com/yungbote/questlearn-backend/internal/data/aggregates"
	"github.com/yungbote/questlearn-backend/internal/data/db"
	httpserver "github.com/yungbote/questlearn-backend/internal/http"
	"github.com/yungbote/questlearn-backend/internal/jobs"
	"github.com/yungbote/questlearn-backend/internal/observability"
	"github.com/yungbote/questlearn-backend/internal/platform/envutil"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
	"github.com/yungbote/questlearn-backend/internal/realtime"
)

const serviceName = "questlearn-api"

type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       db.Service
	Clients  Clients
	Repos    Repos
	Services Services

	// Set by New only; NewCore leaves them nil.
	SSEHub    *realtime.SSEHub
	Server    *httpserver.Server
	Scheduler *jobs.Scheduler
	Metrics   *observability.Metrics

	ctx          context.Context
	cancel       context.CancelFunc
	otelShutdown func(context.Context) error
	started      bool
}

// NewCore opens storage and wires repos and services without any serving
// surface. Admin commands use it directly.
func NewCore() (*App, error) {
	envErr := LoadDotEnv()
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if envErr != nil {
		log.Warn("could not read .env file", "error", envErr)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	dbs, err := db.Open(log, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(dbs.DB()); err != nil {
		_ = dbs.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		cancel()
		_ = dbs.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(dbs.DB(), log)
	return &App{
		Log:      log,
		Cfg:      cfg,
		DB:       dbs,
		Clients:  clients,
		Repos:    reposet,
		Services: wireServices(dbs.DB(), log, cfg, reposet, clients),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// New builds the API process: core wiring plus realtime fan-out, telemetry,
// the HTTP server and the job scheduler.
func New() (*App, error) {
	a, err := NewCore()
	if err != nil {
		return nil, err
	}

	a.otelShutdown = observability.InitOTel(a.ctx, a.Log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: a.Cfg.Environment,
		Version:     a.Cfg.Version,
	})
	a.Metrics = observability.Init(a.Log)

	a.SSEHub = realtime.NewSSEHub(a.Log)
	if err := a.Clients.SSEBus.StartForwarder(a.ctx, a.SSEHub.Broadcast); err != nil {
		a.Close()
		return nil, fmt.Errorf("start SSE forwarder: %w", err)
	}

	if a.Cfg.JobsEnabled {
		var opts []jobs.Option
		if rdb := a.Clients.universal(); rdb != nil {
			opts = append(opts, jobs.WithLocker(jobs.NewRedisLocker(rdb, 0)))
		}
		a.Scheduler, err = jobs.NewScheduler(a.Log, []jobs.Job{
			jobs.LeaderboardResync(a.Services.Leaderboard, a.Cfg.LeaderboardResyncEvery),
			jobs.CatalogCacheWarm(a.Services.Course, a.Cfg.CatalogWarmEvery),
		}, opts...)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	a.Server = wireHTTP(a.DB.DB(), a.Log, a.Cfg, a.Services, a.SSEHub, a.Metrics)
	return a, nil
}

// SeedCatalog upserts the configured catalog files, or the embedded catalog when
// none are configured.
func (a *App) SeedCatalog(ctx context.Context, files ...string) (catalog.Result, error) {
	if len(files) == 0 {
		files = a.Cfg.CatalogFiles
	}
	c, err := catalog.LoadFiles(ctx, files)
	if err != nil {
		return catalog.Result{}, fmt.Errorf("load catalog: %w", err)
	}
	seeder := catalog.NewSeeder(catalog.SeederDeps{
		Log:          a.Log,
		Runner:       dataagg.NewGormTxRunner(a.DB.DB()),
		Courses:      a.Repos.Course,
		Prereqs:      a.Repos.CoursePrerequisite,
		Lessons:      a.Repos.Lesson,
		Questions:    a.Repos.QuizQuestion,
		Achievements: a.Repos.Achievement,
		Cache:        a.Services.Course,
	})
	return seeder.Apply(ctx, c)
}

// Start seeds the catalog when asked to and launches background work. Seed
// failures abort startup.
func (a *App) Start() error {
	if a == nil || a.started {
		return nil
	}
	a.started = true

	if a.Cfg.SeedCatalog {
		if _, err := a.SeedCatalog(a.ctx); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}

	a.Metrics.StartDBCollector(a.ctx, a.Log, a.DB.DB())
	a.Metrics.StartRedisCollector(a.ctx, a.Log, a.Clients.universal())

	if a.Scheduler != nil {
		a.Scheduler.Start()
	}
	return nil
}

// Run blocks serving HTTP until the listener fails or Shutdown is called.
func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Server listening", "addr", a.Cfg.Addr())
	return a.Server.Run(a.Cfg.Addr())
}

// Shutdown drains in-flight requests, then releases everything Close does.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var err error
	if a.Server != nil {
		err = a.Server.Shutdown(ctx)
	}
	a.Close()
	return err
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Scheduler != nil {
		a.Scheduler.Stop()
		a.Scheduler = nil
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
		a.otelShutdown = nil
	}
	a.Clients.Close()
	a.Clients = Clients{}
	if a.DB != nil {
		_ = a.DB.Close()
		a.DB = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
