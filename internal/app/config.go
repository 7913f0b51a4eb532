package app

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/questlearn-backend/internal/http/middleware"
	"github.com/yungbote/questlearn-backend/internal/platform/envutil"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

const insecureJWTSecret = "defaultsecret"

type Config struct {
	Port        string
	Environment string
	Version     string

	JWTSecretKey   string
	AccessTokenTTL time.Duration

	DBDriver string
	DBDSN    string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RedisChannel    string
	CatalogCacheTTL time.Duration

	SeedCatalog  bool
	CatalogFiles []string

	CORSOrigins []string

	JobsEnabled            bool
	LeaderboardResyncEvery time.Duration
	CatalogWarmEvery       time.Duration
}

// LoadDotEnv reads ENV_FILE (default .env) into the environment. Variables that are
// already set win. A missing file is not an error.
func LoadDotEnv() error {
	path := envutil.String("ENV_FILE", ".env")
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),

		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", insecureJWTSecret),
		AccessTokenTTL: envutil.Duration("ACCESS_TOKEN_TTL", time.Hour),

		DBDriver: envutil.String("DB_DRIVER", "postgres"),

		RedisAddr:       envutil.String("REDIS_ADDR", ""),
		RedisPassword:   envutil.String("REDIS_PASSWORD", ""),
		RedisDB:         envutil.Int("REDIS_DB", 0),
		RedisChannel:    envutil.String("REDIS_CHANNEL", "questlearn:sse"),
		CatalogCacheTTL: envutil.Duration("CATALOG_CACHE_TTL", 5*time.Minute),

		SeedCatalog:  envutil.Bool("SEED_CATALOG", false),
		CatalogFiles: envutil.List("CATALOG_YAML", nil),

		CORSOrigins: envutil.List("CORS_ALLOWED_ORIGINS", middleware.DefaultAllowedOrigins),

		JobsEnabled:            envutil.Bool("JOBS_ENABLED", true),
		LeaderboardResyncEvery: envutil.Duration("LEADERBOARD_RESYNC_EVERY", time.Hour),
		CatalogWarmEvery:       envutil.Duration("CATALOG_WARM_EVERY", 10*time.Minute),
	}
	// Postgres reads DATABASE_URL or POSTGRES_* itself.
	if strings.HasPrefix(strings.ToLower(cfg.DBDriver), "sqlite") {
		cfg.DBDSN = envutil.String("SQLITE_PATH", "")
	}
	if cfg.JWTSecretKey == insecureJWTSecret && log != nil {
		log.Warn("JWT_SECRET_KEY not set, using the insecure default")
	}
	return cfg
}

func (c Config) Addr() string { return ":" + c.Port }
