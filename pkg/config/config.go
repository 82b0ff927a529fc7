package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Pricing      PricingConfig
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
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
	Env          string `envconfig:"GASLINE_APP_ENV" required:"true"`
	Port         string `envconfig:"GASLINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GASLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GASLINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GASLINE_DB_DSN"`
	Driver string `envconfig:"GASLINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GASLINE_DB_HOST"`
	LegacyPort     int    `envconfig:"GASLINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GASLINE_DB_USER"`
	LegacyPassword string `envconfig:"GASLINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"GASLINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"GASLINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GASLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GASLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GASLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GASLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GASLINE_REDIS_URL"`
	Address      string        `envconfig:"GASLINE_REDIS_ADDR"`
	Password     string        `envconfig:"GASLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"GASLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GASLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GASLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GASLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GASLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GASLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all. The quote
// cache is optional and the API runs without it.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type PricingConfig struct {
	BaseCurrency  string        `envconfig:"GASLINE_PRICING_BASE_CURRENCY" default:"KES"`
	QuoteCacheTTL time.Duration `envconfig:"GASLINE_PRICING_QUOTE_CACHE_TTL" default:"2m"`
	StatsWindow   time.Duration `envconfig:"GASLINE_PRICING_STATS_WINDOW" default:"720h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GASLINE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GASLINE_AUTO_MIGRATE" default:"false"`
	QuoteCache  bool `envconfig:"GASLINE_FEATURE_QUOTE_CACHE" default:"true"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"GASLINE_CORS_ALLOWED_ORIGINS" default:"*"`
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
