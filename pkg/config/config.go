package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App    AppConfig
	DB     DBConfig
	Redis  RedisConfig
	JWT    JWTConfig
	Ledger LedgerConfig
	CORS   CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TANDOOR_APP_ENV" required:"true"`
	Port         string `envconfig:"TANDOOR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TANDOOR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TANDOOR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TANDOOR_DB_DSN"`
	Driver string `envconfig:"TANDOOR_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TANDOOR_DB_HOST"`
	LegacyPort     int    `envconfig:"TANDOOR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TANDOOR_DB_USER"`
	LegacyPassword string `envconfig:"TANDOOR_DB_PASSWORD"`
	LegacyName     string `envconfig:"TANDOOR_DB_NAME"`
	LegacySSLMode  string `envconfig:"TANDOOR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TANDOOR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TANDOOR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TANDOOR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TANDOOR_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"TANDOOR_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TANDOOR_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TANDOOR_REDIS_ADDR"`
	Password     string        `envconfig:"TANDOOR_REDIS_PASSWORD"`
	DB           int           `envconfig:"TANDOOR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TANDOOR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TANDOOR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TANDOOR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TANDOOR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TANDOOR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TANDOOR_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TANDOOR_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TANDOOR_JWT_EXPIRATION_MINUTES" required:"true"`
}

// LedgerConfig tunes the ledger core.
type LedgerConfig struct {
	// SummaryView declares at boot whether the customer_ledger_summaries
	// view may be queried. When false the summary builder rebuilds every
	// aggregate from the raw tables.
	SummaryView bool `envconfig:"TANDOOR_LEDGER_SUMMARY_VIEW" default:"true"`
	// WriteRetryAttempts bounds the retry loop around ledger writes that
	// fail with a concurrent-modification conflict.
	WriteRetryAttempts uint64        `envconfig:"TANDOOR_LEDGER_WRITE_RETRY_ATTEMPTS" default:"5"`
	WriteRetryBase     time.Duration `envconfig:"TANDOOR_LEDGER_WRITE_RETRY_BASE" default:"25ms"`
	IdempotencyTTL     time.Duration `envconfig:"TANDOOR_LEDGER_IDEMPOTENCY_TTL" default:"168h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"TANDOOR_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
