package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Checkout CheckoutConfig
	Orders   OrdersConfig
	GCP      GCPConfig
	PubSub   PubSubConfig
	Outbox   OutboxConfig
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
	Env          string `envconfig:"PAINTHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"PAINTHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PAINTHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PAINTHUB_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"PAINTHUB_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PAINTHUB_DB_DSN"`
	Driver string `envconfig:"PAINTHUB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PAINTHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"PAINTHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PAINTHUB_DB_USER"`
	LegacyPassword string `envconfig:"PAINTHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"PAINTHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"PAINTHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PAINTHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PAINTHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PAINTHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PAINTHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PAINTHUB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PAINTHUB_REDIS_ADDR"`
	Password     string        `envconfig:"PAINTHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"PAINTHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PAINTHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PAINTHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PAINTHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PAINTHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PAINTHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CheckoutConfig carries the pricing policy values the engine consumes but does
// not own: delivery fee and the free-shipping threshold, both in the smallest
// currency unit.
type CheckoutConfig struct {
	DeliveryFeeCents           int `envconfig:"PAINTHUB_CHECKOUT_DELIVERY_FEE_CENTS" default:"200"`
	FreeShippingThresholdCents int `envconfig:"PAINTHUB_CHECKOUT_FREE_SHIPPING_THRESHOLD_CENTS" default:"5000"`
	DeliveryEstimateDays       int `envconfig:"PAINTHUB_CHECKOUT_DELIVERY_ESTIMATE_DAYS" default:"5"`
}

type OrdersConfig struct {
	PendingTTL   time.Duration `envconfig:"PAINTHUB_ORDERS_PENDING_TTL" default:"240h"`
	CronInterval time.Duration `envconfig:"PAINTHUB_ORDERS_CRON_INTERVAL" default:"1h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"PAINTHUB_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"PAINTHUB_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"PAINTHUB_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"PAINTHUB_PUBSUB_ORDERS_TOPIC" default:"ph-order-events"`
	OrdersSubscription string `envconfig:"PAINTHUB_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"PAINTHUB_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"PAINTHUB_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"PAINTHUB_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
