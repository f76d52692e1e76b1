package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App         AppConfig
	DB          DBConfig
	Redis       RedisConfig
	Shopify     ShopifyConfig
	Ambassadors AmbassadorsConfig
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
	Env          string `envconfig:"AMBASSADOR_APP_ENV" required:"true"`
	Port         string `envconfig:"AMBASSADOR_APP_PORT" default:"8081"`
	LogLevel     string `envconfig:"AMBASSADOR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AMBASSADOR_LOG_WARN_STACK" default:"false"`
	// DevShop short-circuits session token verification in dev.
	DevShop     string   `envconfig:"AMBASSADOR_DEV_SHOP"`
	CORSOrigins []string `envconfig:"AMBASSADOR_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AMBASSADOR_DB_DSN"`
	Driver string `envconfig:"AMBASSADOR_DB_DRIVER" default:"sqlite"`
	// Path is the SQLite file, shared with the shop session table.
	Path string `envconfig:"AMBASSADOR_DB_PATH" default:"ambassadors_db.sqlite"`

	MaxOpenConns    int           `envconfig:"AMBASSADOR_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"AMBASSADOR_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"AMBASSADOR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AMBASSADOR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	// URL is optional; idempotent creates are disabled without it.
	URL          string        `envconfig:"AMBASSADOR_REDIS_URL"`
	Address      string        `envconfig:"AMBASSADOR_REDIS_ADDR"`
	Password     string        `envconfig:"AMBASSADOR_REDIS_PASSWORD"`
	DB           int           `envconfig:"AMBASSADOR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AMBASSADOR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AMBASSADOR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AMBASSADOR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AMBASSADOR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AMBASSADOR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type ShopifyConfig struct {
	APIKey     string        `envconfig:"AMBASSADOR_SHOPIFY_API_KEY" required:"true"`
	APISecret  string        `envconfig:"AMBASSADOR_SHOPIFY_API_SECRET" required:"true"`
	Scopes     []string      `envconfig:"AMBASSADOR_SHOPIFY_SCOPES" default:"read_customers"`
	APIVersion string        `envconfig:"AMBASSADOR_SHOPIFY_API_VERSION" default:"2025-10"`
	Timeout    time.Duration `envconfig:"AMBASSADOR_SHOPIFY_TIMEOUT" default:"10s"`
	// ClockSkew tolerates drift between the platform and this host when checking token times.
	ClockSkew time.Duration `envconfig:"AMBASSADOR_SHOPIFY_CLOCK_SKEW" default:"5s"`
}

type AmbassadorsConfig struct {
	StrictValidation bool          `envconfig:"AMBASSADOR_STRICT_VALIDATION" default:"false"`
	EnrichCustomers  bool          `envconfig:"AMBASSADOR_ENRICH_CUSTOMERS" default:"false"`
	IdempotencyTTL   time.Duration `envconfig:"AMBASSADOR_IDEMPOTENCY_TTL" default:"24h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.IsSQLite() {
		if db.DSN == "" {
			if strings.TrimSpace(db.Path) == "" {
				return fmt.Errorf("either %s or %s is required", EnvDBDSN, EnvDBPath)
			}
			db.DSN = db.Path
		}
		return nil
	}

	if !strings.EqualFold(db.Driver, DBDriverPostgres) {
		return fmt.Errorf("unsupported %s %q", EnvDBDriver, db.Driver)
	}
	if db.DSN == "" {
		return fmt.Errorf("%s is required for the %s driver", EnvDBDSN, DBDriverPostgres)
	}
	u, err := url.Parse(db.DSN)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvDBDSN, err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return fmt.Errorf("%s must be a postgres url", EnvDBDSN)
	}
	return nil
}
