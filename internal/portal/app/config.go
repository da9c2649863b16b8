package app

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage modes.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

type Config struct {
	APIURL     string        `env:"PORTAL_API_URL" env-required:"true" env-description:"Base URL of the payments API"`
	APITimeout time.Duration `env:"PORTAL_API_TIMEOUT" env-default:"10s" env-description:"Timeout of a single API request"`

	Env                 string        `env:"ENV" env-default:"dev" env-description:"Environment (dev, staging, prod)"`
	LogLevel            string        `env:"LOG_LEVEL" env-default:"info" env-description:"Log level (debug, info, warn, error)"`
	LogFormat           string        `env:"LOG_FORMAT" env-default:"json" env-description:"Log format (json, text)"`
	Port                int           `env:"PORT" env-default:"8080" env-description:"HTTP server port"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" env-default:"10s" env-description:"Graceful shutdown timeout"`

	StorageMode   string `env:"PORTAL_STORAGE_MODE" env-default:"sqlite" env-description:"Visitor storage (sqlite, redis)"`
	DatabaseFile  string `env:"PORTAL_DATABASE_FILE" env-default:"portal.db" env-description:"SQLite database file"`
	RedisAddr     string `env:"PORTAL_REDIS_ADDR" env-default:"localhost:6379" env-description:"Redis address"`
	RedisPassword string `env:"PORTAL_REDIS_PASSWORD" env-description:"Redis password"`
	RedisDB       int    `env:"PORTAL_REDIS_DB" env-default:"0" env-description:"Redis database number"`

	// CookieSecret is expanded into the cookie signing key. When empty a random
	// one is generated and every visitor is forgotten on restart.
	CookieSecret string        `env:"PORTAL_COOKIE_SECRET" env-description:"Secret the cookie signing key is derived from"`
	CookieSecure bool          `env:"PORTAL_COOKIE_SECURE" env-default:"false" env-description:"Mark cookies Secure (HTTPS only)"`
	DeviceTTL    time.Duration `env:"PORTAL_DEVICE_TTL" env-default:"720h" env-description:"Lifetime of the device cookie and its storage"`
	TabTTL       time.Duration `env:"PORTAL_TAB_TTL" env-default:"2h" env-description:"Lifetime of tab-scoped storage"`

	RedirectDelay  time.Duration `env:"PORTAL_REDIRECT_DELAY" env-default:"3s" env-description:"Delay before returning an active user"`
	MaxUploadBytes int64         `env:"PORTAL_MAX_UPLOAD_BYTES" env-default:"10485760" env-description:"Largest accepted proof upload"`
	Locale         string        `env:"PORTAL_LOCALE" env-default:"es" env-description:"Copy language (es, en)"`
	ReturnHosts    []string      `env:"PORTAL_RETURN_HOSTS" env-separator:"," env-description:"Hosts allowed to receive the token on return (comma separated, .example.com for subdomains); empty allows any"`

	BankName    string `env:"PORTAL_BANK_NAME" env-description:"Bank shown with the payment form"`
	BankHolder  string `env:"PORTAL_BANK_HOLDER" env-description:"Account holder shown with the payment form"`
	BankAccount string `env:"PORTAL_BANK_ACCOUNT" env-description:"Account number shown with the payment form"`

	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" env-default:"1h" env-description:"How often expired visitor storage is purged"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("PORTAL_API_URL is required")
	}
	switch c.StorageMode {
	case StorageSQLite, StorageRedis:
	default:
		return fmt.Errorf("unknown PORTAL_STORAGE_MODE %q", c.StorageMode)
	}
	if c.TabTTL <= 0 || c.DeviceTTL <= 0 {
		return fmt.Errorf("PORTAL_DEVICE_TTL and PORTAL_TAB_TTL must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("PORTAL_MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// Usage describes every environment variable.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return err.Error()
	}
	return text
}
