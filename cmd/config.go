package cmd

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "DISPATCH"

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config is read from DISPATCH_* environment variables.
type Config struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`

	StoreDriver string `envconfig:"STORE_DRIVER" default:"memory"`
	DBHost      string `envconfig:"DB_HOST"      default:"localhost"`
	DBPort      string `envconfig:"DB_PORT"      default:"5432"`
	DBUser      string `envconfig:"DB_USER"`
	DBPassword  string `envconfig:"DB_PASSWORD"`
	DBName      string `envconfig:"DB_NAME"`
	DBSslMode   string `envconfig:"DB_SSLMODE"   default:"disable"`
	// DBDSN overrides the DB_* parts when set.
	DBDSN      string `envconfig:"DB_DSN"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"dispatch.db"`

	RedisURL string        `envconfig:"REDIS_URL"`
	LockTTL  time.Duration `envconfig:"LOCK_TTL"  default:"10s"`

	KafkaBrokers           []string `envconfig:"KAFKA_BROKERS"`
	KafkaOrderChangedTopic string   `envconfig:"KAFKA_ORDER_CHANGED_TOPIC" default:"dispatch.order.changed"`
	KafkaQuoteDecidedTopic string   `envconfig:"KAFKA_QUOTE_DECIDED_TOPIC" default:"dispatch.quote.decided"`

	SlotDuration    time.Duration `envconfig:"SLOT_DURATION"     default:"2h"`
	Timezone        string        `envconfig:"TIMEZONE"          default:"UTC"`
	StoreRetryDelay time.Duration `envconfig:"STORE_RETRY_DELAY" default:"50ms"`

	DelaySweepSchedule      string `envconfig:"DELAY_SWEEP_SCHEDULE"      default:"0 * * * * *"`
	MaintenanceScanSchedule string `envconfig:"MAINTENANCE_SCAN_SCHEDULE" default:"0 0 * * * *"`

	LogLevel        string        `envconfig:"LOG_LEVEL"        default:"info"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// LoadConfig reads the environment and checks the values that would
// otherwise only fail at first use.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory, StorePostgres, StoreSQLite:
	default:
		return fmt.Errorf("unsupported store driver %q", c.StoreDriver)
	}
	if c.StoreDriver == StorePostgres && c.DBDSN == "" && (c.DBUser == "" || c.DBName == "") {
		return fmt.Errorf("postgres store needs DB_DSN or DB_USER and DB_NAME")
	}
	if c.SlotDuration <= 0 || c.SlotDuration > 24*time.Hour {
		return fmt.Errorf("slot duration %s must be within (0, 24h]", c.SlotDuration)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	return nil
}

// Location returns the zone assignments are interpreted in.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// PostgresDSN builds a libpq URL from the DB_* parts unless DB_DSN is set.
func (c Config) PostgresDSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSslMode),
	}
	return u.String()
}

func (c Config) KafkaEnabled() bool {
	for _, b := range c.KafkaBrokers {
		if strings.TrimSpace(b) != "" {
			return true
		}
	}
	return false
}
