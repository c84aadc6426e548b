package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server        ServerConfig
	DB            DBConfig
	Redis         RedisConfig
	CORS          CORSConfig
	Log           LogConfig
	JWT           JWTConfig
	Store         StoreConfig
	Authorization AuthorizationConfig
	Poller        PollerConfig
	Sweeper       SweeperConfig
	Notifier      NotifierConfig
	Approval      ApprovalConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	DBName   string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Tokyo"`
}

type RedisConfig struct {
	URL string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Tokyo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"24h"`
}

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendLog      = "log"
)

// StoreConfig selects where authorization requests and carts live.
type StoreConfig struct {
	Backend     string `envconfig:"STORE_BACKEND" default:"memory"`      // memory | redis | postgres
	CartBackend string `envconfig:"STORE_CART_BACKEND" default:"memory"` // memory | postgres
}

func (c StoreConfig) UsesBackend(backend string) bool {
	return c.Backend == backend || c.CartBackend == backend
}

type AuthorizationConfig struct {
	TTL             time.Duration `envconfig:"AUTHZ_TTL" default:"5m"`
	MinPollInterval time.Duration `envconfig:"AUTHZ_MIN_POLL_INTERVAL" default:"2s"`
}

type PollerConfig struct {
	Interval                 time.Duration `envconfig:"POLL_INTERVAL" default:"5s"`
	MaxAttempts              int           `envconfig:"POLL_MAX_ATTEMPTS" default:"60"`
	BackoffFactor            float64       `envconfig:"POLL_BACKOFF_FACTOR" default:"1.5"`
	MaxInterval              time.Duration `envconfig:"POLL_MAX_INTERVAL" default:"30s"`
	MaxConsecutiveErrors     int           `envconfig:"POLL_MAX_CONSECUTIVE_ERRORS" default:"3"`
	MaxConsecutiveRejections int           `envconfig:"POLL_MAX_CONSECUTIVE_REJECTIONS" default:"3"`
	StatusEvery              int           `envconfig:"POLL_STATUS_EVERY" default:"3"`
	HardTimeout              time.Duration `envconfig:"POLL_HARD_TIMEOUT" default:"6m"`
}

type SweeperConfig struct {
	Enabled   bool          `envconfig:"SWEEPER_ENABLED" default:"true"`
	Schedule  string        `envconfig:"SWEEPER_SCHEDULE" default:"@every 1m"`
	Retention time.Duration `envconfig:"SWEEPER_RETENTION" default:"10m"`
}

type NotifierConfig struct {
	Backend      string `envconfig:"NOTIFIER_BACKEND" default:"log"` // log | redis
	RedisChannel string `envconfig:"NOTIFIER_REDIS_CHANNEL" default:"checkout:authorization_requested"`
}

type ApprovalConfig struct {
	PopupReturnURL string `envconfig:"APPROVAL_POPUP_RETURN_URL" default:"/approval-complete"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Tokyo",
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Tokyo",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 32400,
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: time.Hour,
		},
		Store: StoreConfig{
			Backend:     BackendMemory,
			CartBackend: BackendMemory,
		},
		Authorization: AuthorizationConfig{
			TTL:             5 * time.Minute,
			MinPollInterval: 0,
		},
		Poller: PollerConfig{
			Interval:                 10 * time.Millisecond,
			MaxAttempts:              50,
			BackoffFactor:            1.5,
			MaxInterval:              50 * time.Millisecond,
			MaxConsecutiveErrors:     3,
			MaxConsecutiveRejections: 3,
			StatusEvery:              3,
			HardTimeout:              5 * time.Second,
		},
		Sweeper: SweeperConfig{
			Enabled:   false,
			Schedule:  "@every 1m",
			Retention: 10 * time.Minute,
		},
		Notifier: NotifierConfig{
			Backend: BackendLog,
		},
		Approval: ApprovalConfig{
			PopupReturnURL: "/approval-complete",
		},
	}
}
