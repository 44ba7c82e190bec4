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
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	Providers    ProvidersConfig
	Checkout     CheckoutConfig
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
	Env          string `envconfig:"SVETLINE_APP_ENV" required:"true"`
	Port         string `envconfig:"SVETLINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SVETLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SVETLINE_LOG_WARN_STACK" default:"false"`
	PublicURL    string `envconfig:"SVETLINE_PUBLIC_URL"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SVETLINE_DB_DSN"`
	Driver string `envconfig:"SVETLINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SVETLINE_DB_HOST"`
	LegacyPort     int    `envconfig:"SVETLINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SVETLINE_DB_USER"`
	LegacyPassword string `envconfig:"SVETLINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SVETLINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SVETLINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SVETLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SVETLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SVETLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SVETLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SVETLINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SVETLINE_REDIS_ADDR"`
	Password     string        `envconfig:"SVETLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SVETLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SVETLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SVETLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SVETLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SVETLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SVETLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SVETLINE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SVETLINE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SVETLINE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SVETLINE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SVETLINE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SVETLINE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SVETLINE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SVETLINE_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SVETLINE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SVETLINE_AUTO_MIGRATE" default:"false"`
}

// CheckoutConfig bounds the outbound provider calls made at initiation.
type CheckoutConfig struct {
	ProviderTimeout time.Duration `envconfig:"SVETLINE_PROVIDER_HTTP_TIMEOUT" default:"20s"`
	IdempotencyTTL  time.Duration `envconfig:"SVETLINE_CHECKOUT_IDEMPOTENCY_TTL" default:"24h"`
	WebhookGuardTTL time.Duration `envconfig:"SVETLINE_WEBHOOK_GUARD_TTL" default:"720h"`
}

// ProvidersConfig groups the per-gateway credentials. Each section is
// optional; a provider with blank credentials simply rejects initiation
// requests while leaving the others usable.
type ProvidersConfig struct {
	TBank    TBankConfig
	Platron  PlatronConfig
	YooKassa YooKassaConfig
	SBPQR    SBPQRConfig
}

type TBankConfig struct {
	TerminalKey string `envconfig:"SVETLINE_TBANK_TERMINAL_KEY"`
	Password    string `envconfig:"SVETLINE_TBANK_PASSWORD"`
	BaseURL     string `envconfig:"SVETLINE_TBANK_BASE_URL" default:"https://securepay.tinkoff.ru/v2"`
}

func (t TBankConfig) Configured() bool {
	return strings.TrimSpace(t.TerminalKey) != "" && strings.TrimSpace(t.Password) != ""
}

type PlatronConfig struct {
	MerchantID string `envconfig:"SVETLINE_PLATRON_MERCHANT_ID"`
	Secret     string `envconfig:"SVETLINE_PLATRON_SECRET"`
	BaseURL    string `envconfig:"SVETLINE_PLATRON_BASE_URL" default:"https://pay.platron.ru"`
}

func (p PlatronConfig) Configured() bool {
	return strings.TrimSpace(p.MerchantID) != "" && strings.TrimSpace(p.Secret) != ""
}

type YooKassaConfig struct {
	ShopID    string `envconfig:"SVETLINE_YOOKASSA_SHOP_ID"`
	SecretKey string `envconfig:"SVETLINE_YOOKASSA_SECRET_KEY"`
	BaseURL   string `envconfig:"SVETLINE_YOOKASSA_BASE_URL" default:"https://api.yookassa.ru/v3"`
	ReturnURL string `envconfig:"SVETLINE_YOOKASSA_RETURN_URL"`
}

func (y YooKassaConfig) Configured() bool {
	return strings.TrimSpace(y.ShopID) != "" && strings.TrimSpace(y.SecretKey) != ""
}

type SBPQRConfig struct {
	MerchantID string `envconfig:"SVETLINE_SBPQR_MERCHANT_ID"`
	APIKey     string `envconfig:"SVETLINE_SBPQR_API_KEY"`
	BaseURL    string `envconfig:"SVETLINE_SBPQR_BASE_URL" default:"https://api.sbpqr.example/v1"`
}

func (s SBPQRConfig) Configured() bool {
	return strings.TrimSpace(s.MerchantID) != "" && strings.TrimSpace(s.APIKey) != ""
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
