package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	YooKassa  YooKassaConfig  `mapstructure:"yookassa"`
	Exnode    ExnodeConfig    `mapstructure:"exnode"`
	Market    MarketConfig    `mapstructure:"market"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Payments  PaymentsConfig  `mapstructure:"payments"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrateOnStart  bool          `mapstructure:"migrate_on_start"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type NATSConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Stream  string `mapstructure:"stream"`
	Subject string `mapstructure:"subject"` // live feed subject for case openings
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// YooKassaConfig configures the card gateway.
type YooKassaConfig struct {
	APIURL    string        `mapstructure:"api_url"`
	ShopID    string        `mapstructure:"shop_id"`
	SecretKey string        `mapstructure:"secret_key"`
	ReturnURL string        `mapstructure:"return_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MinAmount int64         `mapstructure:"min_amount"` // kopecks
	// VerifyNotifications re-reads the payment from the API before trusting a push.
	VerifyNotifications bool `mapstructure:"verify_notifications"`
}

// ExnodeConfig configures the crypto gateway.
type ExnodeConfig struct {
	APIURL      string        `mapstructure:"api_url"`
	PublicKey   string        `mapstructure:"public_key"`
	PrivateKey  string        `mapstructure:"private_key"`
	MerchantID  string        `mapstructure:"merchant_id"`
	Token       string        `mapstructure:"token"`
	CallbackURL string        `mapstructure:"callback_url"`
	ReturnURL   string        `mapstructure:"return_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MinAmount   int64         `mapstructure:"min_amount"` // kopecks
	OrderTTL    time.Duration `mapstructure:"order_ttl"`
}

// MarketConfig configures the market price source.
type MarketConfig struct {
	APIURL    string        `mapstructure:"api_url"`
	APIKey    string        `mapstructure:"api_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
	BatchSize int           `mapstructure:"batch_size"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

type PaymentsConfig struct {
	MaxAmount      int64         `mapstructure:"max_amount"` // kopecks
	PendingTTL     time.Duration `mapstructure:"pending_ttl"`
	ReturnStateTTL time.Duration `mapstructure:"return_state_ttl"`
	IdempotencyTTL time.Duration `mapstructure:"idempotency_ttl"`
}

type SchedulerConfig struct {
	Enabled              bool          `mapstructure:"enabled"`
	SweepInterval        time.Duration `mapstructure:"sweep_interval"`
	PriceRefreshInterval time.Duration `mapstructure:"price_refresh_interval"`
	LockTTL              time.Duration `mapstructure:"lock_ttl"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: COP_.
// Nested keys use underscore: COP_DATABASE_HOST, COP_YOOKASSA_SHOP_ID, etc.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("COP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints that defaults cannot express.
func (c *Config) Validate() error {
	if c.Market.BatchSize < 1 || c.Market.BatchSize > 50 {
		return fmt.Errorf("market.batch_size must be between 1 and 50, got %d", c.Market.BatchSize)
	}
	if c.YooKassa.MinAmount <= 0 || c.Exnode.MinAmount <= 0 {
		return fmt.Errorf("provider minimum amounts must be positive")
	}
	if c.Payments.MaxAmount < c.YooKassa.MinAmount || c.Payments.MaxAmount < c.Exnode.MinAmount {
		return fmt.Errorf("payments.max_amount is below a provider minimum")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "case_platform")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.migrate_on_start", true)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("nats.enabled", true)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.stream", "live_feed")
	v.SetDefault("nats.subject", "live.openings")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "case-opening-platform")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("yookassa.api_url", "https://api.yookassa.ru")
	v.SetDefault("yookassa.return_url", "http://localhost:8080/api/v1/payments/return")
	v.SetDefault("yookassa.timeout", "15s")
	v.SetDefault("yookassa.min_amount", 1000)
	v.SetDefault("yookassa.verify_notifications", false)

	v.SetDefault("exnode.api_url", "https://my.exnode.io")
	v.SetDefault("exnode.token", "USDTTRC")
	v.SetDefault("exnode.callback_url", "http://localhost:8080/api/v1/webhooks/exnode")
	v.SetDefault("exnode.return_url", "http://localhost:8080/api/v1/payments/return")
	v.SetDefault("exnode.timeout", "15s")
	v.SetDefault("exnode.min_amount", 45000)
	v.SetDefault("exnode.order_ttl", "12h")

	v.SetDefault("market.api_url", "https://market.csgo.com/api/v2")
	v.SetDefault("market.timeout", "20s")
	v.SetDefault("market.batch_size", 50)

	v.SetDefault("catalog.path", "data/skins-cache.json")

	v.SetDefault("payments.max_amount", 10_000_000)
	v.SetDefault("payments.pending_ttl", "24h")
	v.SetDefault("payments.return_state_ttl", "1h")
	v.SetDefault("payments.idempotency_ttl", "24h")

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.sweep_interval", "1h")
	v.SetDefault("scheduler.price_refresh_interval", "24h")
	v.SetDefault("scheduler.lock_ttl", "10m")
}
