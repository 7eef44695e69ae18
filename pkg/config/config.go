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
	Currency     CurrencyConfig
	Cart         CartConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Currency.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PIGEON_APP_ENV" required:"true"`
	Port         string `envconfig:"PIGEON_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PIGEON_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PIGEON_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PIGEON_DB_DSN"`
	Driver string `envconfig:"PIGEON_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PIGEON_DB_HOST"`
	LegacyPort     int    `envconfig:"PIGEON_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PIGEON_DB_USER"`
	LegacyPassword string `envconfig:"PIGEON_DB_PASSWORD"`
	LegacyName     string `envconfig:"PIGEON_DB_NAME"`
	LegacySSLMode  string `envconfig:"PIGEON_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PIGEON_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PIGEON_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PIGEON_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PIGEON_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PIGEON_REDIS_URL"`
	Address      string        `envconfig:"PIGEON_REDIS_ADDR"`
	Password     string        `envconfig:"PIGEON_REDIS_PASSWORD"`
	DB           int           `envconfig:"PIGEON_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PIGEON_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PIGEON_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PIGEON_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PIGEON_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PIGEON_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint is configured at all. The snapshot
// store falls back to the in-memory implementation when it is not.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// CurrencyConfig pins the single ISO currency code used for every monetary
// value in the system. Quotes are not convertible between currencies.
type CurrencyConfig struct {
	Code string `envconfig:"PIGEON_CURRENCY_CODE" default:"PLN"`
}

func (c CurrencyConfig) validate() error {
	code := strings.ToUpper(strings.TrimSpace(c.Code))
	if len(code) != 3 {
		return fmt.Errorf("currency code must be a 3-letter ISO code, got %q", c.Code)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("currency code must be a 3-letter ISO code, got %q", c.Code)
		}
	}
	return nil
}

// Normalized returns the uppercase currency code.
func (c CurrencyConfig) Normalized() string {
	return strings.ToUpper(strings.TrimSpace(c.Code))
}

type CartConfig struct {
	SnapshotTTL time.Duration `envconfig:"PIGEON_CART_SNAPSHOT_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PIGEON_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PIGEON_AUTO_MIGRATE" default:"false"`
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
