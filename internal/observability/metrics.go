package observability

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/questlearn-backend/internal/platform/envutil"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	apiReqError *Counter

	quizSubmissions      *CounterVec
	progressUpdates      *CounterVec
	xpAwarded            *CounterVec
	achievementsUnlocked *CounterVec
	levelUps             *Counter
	sseClients           *Gauge
	jobRuns              *CounterVec

	dbStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

// Current returns the process metrics, or nil when metrics are disabled. Every
// method is safe on a nil receiver.
func Current() *Metrics {
	return instance
}

func scrapeInterval() time.Duration {
	return envutil.Duration("METRICS_SCRAPE_INTERVAL", 10*time.Second)
}

func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = newMetrics()
		if log != nil {
			log.Info("Observability metrics enabled")
		}
	})
	return instance
}

func newMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("ql_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"ql_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight: NewGauge("ql_api_inflight_requests", "In-flight API requests."),
		apiReqError: NewCounter("ql_api_requests_error_total", "Total API requests with 5xx status."),

		quizSubmissions:      NewCounterVec("ql_quiz_submissions_total", "Quiz submissions by outcome.", []string{"outcome"}),
		progressUpdates:      NewCounterVec("ql_progress_updates_total", "Progress updates by status and scope.", []string{"status", "scope"}),
		xpAwarded:            NewCounterVec("ql_xp_awarded_total", "XP credited to users by source.", []string{"source"}),
		achievementsUnlocked: NewCounterVec("ql_achievements_unlocked_total", "Achievements granted by category.", []string{"category"}),
		levelUps:             NewCounter("ql_level_ups_total", "Level increases across all users."),
		sseClients:           NewGauge("ql_sse_clients", "Connected realtime clients."),
		jobRuns:              NewCounterVec("ql_job_runs_total", "Scheduled job runs by job and status.", []string{"job", "status"}),

		dbStats:   NewGaugeVec("ql_db_pool", "Database pool statistics.", []string{"stat"}),
		redisUp:   NewGauge("ql_redis_up", "1 when the last redis ping succeeded."),
		redisPing: NewGauge("ql_redis_ping_seconds", "Latency of the last redis ping."),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

type promWriter interface {
	WritePrometheus(w io.Writer) error
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	all := []promWriter{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiReqError,
		m.quizSubmissions, m.progressUpdates, m.xpAwarded, m.achievementsUnlocked,
		m.levelUps, m.sseClients, m.jobRuns,
		m.dbStats, m.redisUp, m.redisPing,
	}
	for _, pw := range all {
		if err := pw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	code := strconv.Itoa(status)
	m.apiRequests.Inc(method, route, code)
	m.apiLatency.Observe(dur.Seconds(), method, route, code)
	if isServerErrorStatus(code) {
		m.apiReqError.Inc()
	}
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveQuiz buckets a submission as perfect, partial or failed.
func (m *Metrics) ObserveQuiz(correct, total int) {
	if m == nil {
		return
	}
	outcome := "partial"
	switch {
	case total > 0 && correct == total:
		outcome = "perfect"
	case correct == 0:
		outcome = "failed"
	}
	m.quizSubmissions.Inc(outcome)
}

func (m *Metrics) ObserveProgress(status string, courseLevel bool) {
	if m == nil {
		return
	}
	scope := "lesson"
	if courseLevel {
		scope = "course"
	}
	m.progressUpdates.Inc(status, scope)
}

func (m *Metrics) AddXP(source string, amount int) {
	if m == nil || amount <= 0 {
		return
	}
	m.xpAwarded.Add(float64(amount), source)
}

func (m *Metrics) IncAchievement(category string) {
	if m == nil {
		return
	}
	m.achievementsUnlocked.Inc(category)
}

func (m *Metrics) IncLevelUp() {
	if m == nil {
		return
	}
	m.levelUps.Inc()
}

func (m *Metrics) SSEClientConnected() {
	if m == nil {
		return
	}
	m.sseClients.Inc()
}

func (m *Metrics) SSEClientDisconnected() {
	if m == nil {
		return
	}
	m.sseClients.Dec()
}

func (m *Metrics) ObserveJob(job, status string) {
	if m == nil {
		return
	}
	m.jobRuns.Inc(job, status)
}

func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
				m.dbStats.Set(float64(stats.InUse), "in_use")
				m.dbStats.Set(float64(stats.Idle), "idle")
				m.dbStats.Set(float64(stats.WaitCount), "wait_count")
				m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
				m.dbStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
			}
		}
	}()
}

// StartRedisCollector pings the shared client; it does not own or close it.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb goredis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
