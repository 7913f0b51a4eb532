package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/yungbote/questlearn-backend/internal/observability"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

const (
	JobLeaderboardResync = "leaderboard_resync"
	JobCatalogCacheWarm  = "catalog_cache_warm"

	defaultJobTimeout = 2 * time.Minute
)

// Job is a named periodic task.
type Job struct {
	Name    string
	Every   time.Duration
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

type Resyncer interface {
	Resync(ctx context.Context) error
}

type CacheWarmer interface {
	WarmCache(ctx context.Context) error
}

func LeaderboardResync(r Resyncer, every time.Duration) Job {
	return Job{Name: JobLeaderboardResync, Every: every, Run: r.Resync}
}

func CatalogCacheWarm(w CacheWarmer, every time.Duration) Job {
	return Job{Name: JobCatalogCacheWarm, Every: every, Run: w.WarmCache}
}

// Scheduler runs jobs on fixed intervals. A job never overlaps with itself.
type Scheduler struct {
	log   *logger.Logger
	sched *gocron.Scheduler
	jobs  map[string]Job

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

type Option func(*gocron.Scheduler)

// WithLocker makes every run take a distributed lock first, so only one
// replica executes a given tick.
func WithLocker(l gocron.Locker) Option {
	return func(s *gocron.Scheduler) { s.WithDistributedLocker(l) }
}

func NewScheduler(log *logger.Logger, jobs []Job, opts ...Option) (*Scheduler, error) {
	sched := gocron.NewScheduler(time.UTC)
	sched.SingletonModeAll()
	for _, opt := range opts {
		opt(sched)
	}

	s := &Scheduler{
		log:   log.With("component", "JobScheduler"),
		sched: sched,
		jobs:  make(map[string]Job, len(jobs)),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	for _, j := range jobs {
		if j.Name == "" || j.Run == nil {
			return nil, fmt.Errorf("jobs: job needs a name and a run func")
		}
		if j.Every <= 0 {
			return nil, fmt.Errorf("jobs: %s: interval must be positive, got %s", j.Name, j.Every)
		}
		if _, dup := s.jobs[j.Name]; dup {
			return nil, fmt.Errorf("jobs: duplicate job %q", j.Name)
		}
		if j.Timeout <= 0 {
			j.Timeout = defaultJobTimeout
		}
		s.jobs[j.Name] = j
		job := j
		if _, err := sched.Every(j.Every).Name(j.Name).Tag(j.Name).Do(func() { _ = s.runJob(job) }); err != nil {
			return nil, fmt.Errorf("jobs: schedule %s: %w", j.Name, err)
		}
	}
	return s, nil
}

// Start runs every job once immediately, then on its interval.
func (s *Scheduler) Start() {
	s.log.Info("Starting job scheduler", "jobs", len(s.jobs))
	s.sched.StartAsync()
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()
	s.sched.Stop()
	s.log.Info("Job scheduler stopped")
}

// RunNow executes a job synchronously outside its schedule.
func (s *Scheduler) RunNow(name string) error {
	j, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("jobs: unknown job %q", name)
	}
	return s.runJob(j)
}

func (s *Scheduler) runJob(j Job) (err error) {
	s.mu.Lock()
	parent := s.ctx
	s.mu.Unlock()
	ctx, cancel := context.WithTimeout(parent, j.Timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("jobs: %s panicked: %v", j.Name, r)
		}
		status := "success"
		if err != nil {
			status = "failure"
			s.log.Warn("Job failed", "job", j.Name, "error", err, "duration", time.Since(start))
		} else {
			s.log.Debug("Job finished", "job", j.Name, "duration", time.Since(start))
		}
		observability.Current().ObserveJob(j.Name, status)
	}()
	return j.Run(ctx)
}
