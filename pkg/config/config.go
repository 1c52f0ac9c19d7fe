package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "FORNECEDORES"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "FORNECEDORES_DB_DSN"
	EnvDBHost = "FORNECEDORES_DB_HOST"
	EnvDBUser = "FORNECEDORES_DB_USER"
	EnvDBName = "FORNECEDORES_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Trial         TrialConfig
	Stripe        StripeConfig
	Cron          CronConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"FORNECEDORES_APP_ENV" required:"true"`
	Port         string `envconfig:"FORNECEDORES_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FORNECEDORES_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FORNECEDORES_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FORNECEDORES_DB_DSN"`
	Driver string `envconfig:"FORNECEDORES_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FORNECEDORES_DB_HOST"`
	LegacyPort     int    `envconfig:"FORNECEDORES_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FORNECEDORES_DB_USER"`
	LegacyPassword string `envconfig:"FORNECEDORES_DB_PASSWORD"`
	LegacyName     string `envconfig:"FORNECEDORES_DB_NAME"`
	LegacySSLMode  string `envconfig:"FORNECEDORES_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FORNECEDORES_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FORNECEDORES_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FORNECEDORES_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FORNECEDORES_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FORNECEDORES_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FORNECEDORES_REDIS_ADDR"`
	Password     string        `envconfig:"FORNECEDORES_REDIS_PASSWORD"`
	DB           int           `envconfig:"FORNECEDORES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FORNECEDORES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FORNECEDORES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FORNECEDORES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FORNECEDORES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FORNECEDORES_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FORNECEDORES_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FORNECEDORES_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FORNECEDORES_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FORNECEDORES_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FORNECEDORES_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FORNECEDORES_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FORNECEDORES_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FORNECEDORES_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FORNECEDORES_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FORNECEDORES_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FORNECEDORES_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FORNECEDORES_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FORNECEDORES_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FORNECEDORES_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type TrialConfig struct {
	Duration      time.Duration `envconfig:"FORNECEDORES_TRIAL_DURATION" default:"168h"`
	RuleCacheTTL  time.Duration `envconfig:"FORNECEDORES_TRIAL_RULE_CACHE_TTL" default:"1m"`
	LookupTimeout time.Duration `envconfig:"FORNECEDORES_TRIAL_LOOKUP_TIMEOUT" default:"3s"`
}

type StripeConfig struct {
	APIKey        string        `envconfig:"FORNECEDORES_STRIPE_API_KEY"`
	Secret        string        `envconfig:"FORNECEDORES_STRIPE_SECRET"`
	Env           string        `envconfig:"FORNECEDORES_STRIPE_ENV" default:"test"`
	EventGuardTTL time.Duration `envconfig:"FORNECEDORES_STRIPE_EVENT_GUARD_TTL" default:"72h"`
	LookupTimeout time.Duration `envconfig:"FORNECEDORES_STRIPE_LOOKUP_TIMEOUT" default:"10s"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type CronConfig struct {
	Interval time.Duration `envconfig:"FORNECEDORES_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"FORNECEDORES_CRON_LOCK_TTL" default:"55m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FORNECEDORES_AUTO_MIGRATE" default:"false"`
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
