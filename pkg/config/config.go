package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Paystack     PaystackConfig
	SMS          SMSConfig
	Reconcile    ReconcileConfig
	Cron         CronConfig
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
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DISCREETKIT_APP_ENV" required:"true"`
	Port         string `envconfig:"DISCREETKIT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"DISCREETKIT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DISCREETKIT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DISCREETKIT_DB_DSN"`
	Driver string `envconfig:"DISCREETKIT_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"DISCREETKIT_DB_HOST"`
	Port     int    `envconfig:"DISCREETKIT_DB_PORT" default:"5432"`
	User     string `envconfig:"DISCREETKIT_DB_USER"`
	Password string `envconfig:"DISCREETKIT_DB_PASSWORD"`
	Name     string `envconfig:"DISCREETKIT_DB_NAME"`
	SSLMode  string `envconfig:"DISCREETKIT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DISCREETKIT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DISCREETKIT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DISCREETKIT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DISCREETKIT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DISCREETKIT_REDIS_URL"`
	Address      string        `envconfig:"DISCREETKIT_REDIS_ADDR"`
	Password     string        `envconfig:"DISCREETKIT_REDIS_PASSWORD"`
	DB           int           `envconfig:"DISCREETKIT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DISCREETKIT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DISCREETKIT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DISCREETKIT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DISCREETKIT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DISCREETKIT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DISCREETKIT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DISCREETKIT_JWT_ISSUER" default:"discreetkit"`
	ExpirationMinutes int    `envconfig:"DISCREETKIT_JWT_EXPIRATION_MINUTES" default:"60"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PaystackConfig struct {
	SecretKey     string        `envconfig:"DISCREETKIT_PAYSTACK_SECRET_KEY" required:"true"`
	BaseURL       string        `envconfig:"DISCREETKIT_PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
	VerifyTimeout time.Duration `envconfig:"DISCREETKIT_PAYSTACK_VERIFY_TIMEOUT" default:"10s"`
	WebhookTTL    time.Duration `envconfig:"DISCREETKIT_PAYSTACK_WEBHOOK_TTL" default:"72h"`
}

type SMSConfig struct {
	Enabled  bool          `envconfig:"DISCREETKIT_SMS_ENABLED" default:"false"`
	APIKey   string        `envconfig:"DISCREETKIT_SMS_API_KEY"`
	SenderID string        `envconfig:"DISCREETKIT_SMS_SENDER_ID" default:"DiscreetKit"`
	BaseURL  string        `envconfig:"DISCREETKIT_SMS_BASE_URL" default:"https://sms.arkesel.com/api/v2"`
	Timeout  time.Duration `envconfig:"DISCREETKIT_SMS_TIMEOUT" default:"5s"`
}

type ReconcileConfig struct {
	Secret    string        `envconfig:"DISCREETKIT_RECONCILE_SECRET" required:"true"`
	MinAge    time.Duration `envconfig:"DISCREETKIT_RECONCILE_MIN_AGE" default:"10m"`
	BatchSize int           `envconfig:"DISCREETKIT_RECONCILE_BATCH_SIZE" default:"25"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"DISCREETKIT_CRON_INTERVAL" default:"10m"`
	LockTTL  time.Duration `envconfig:"DISCREETKIT_CRON_LOCK_TTL" default:"9m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DISCREETKIT_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	required := []struct {
		name  string
		value string
	}{
		{"DISCREETKIT_DB_HOST", db.Host},
		{"DISCREETKIT_DB_USER", db.User},
		{"DISCREETKIT_DB_NAME", db.Name},
	}
	for _, field := range required {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either DISCREETKIT_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
