package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

type Config struct {
	Port      string        `env:"PORT,        default=8080"`
	Env       string        `env:"ENV,         default=development"`
	LogLevel  string        `env:"LOG_LEVEL,   default=info"`
	JWTSecret string        `env:"JWT_SECRET,  required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,   default=24h"`
	HashCost  int           `env:"BCRYPT_COST, default=10"`

	StoreDriver  string   `env:"STORE_DRIVER,       default=mongo"`
	AuditWorkers int      `env:"AUDIT_WORKERS,      default=4"`
	CORSOrigins  []string `env:"CORS_ALLOW_ORIGINS, default=*"`

	Mongo  MongoConfig
	SQLite SQLiteConfig
	Redis  RedisConfig
	Login  LoginConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=task_api"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=data/tasks.db"`
}

// RedisConfig leaves Addr empty by default, which disables login throttling.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type LoginConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	Window      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

// IsDevelopment enables pretty console logs.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverSQLite:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverSQLite, c.StoreDriver)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	return nil
}
