package config

import (
	"strings"
	"time"
)

// Storage drivers.
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config is the root application configuration.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	CORS         CORSConfig         `yaml:"cors"`
	Log          LogConfig          `yaml:"log"`
	Storage      StorageConfig      `yaml:"storage"`
	Database     DatabaseConfig     `yaml:"database"`
	Generation   GenerationConfig   `yaml:"generation"`
	Registration RegistrationConfig `yaml:"registration"`
	Wallet       WalletConfig       `yaml:"wallet"`
	App          AppConfig          `yaml:"app"`
	RateLimit    RateLimitConfig    `yaml:"rate_limit"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// StorageConfig selects the key-value backend that stands in for browser
// local storage.
type StorageConfig struct {
	Driver     string `yaml:"driver"      env:"STORAGE_DRIVER"      env-default:"sqlite"`
	SQLitePath string `yaml:"sqlite_path" env:"STORAGE_SQLITE_PATH" env-default:"./mintmind.db"`
	// MemoryQuotaBytes caps the in-memory backend; 0 means unlimited.
	MemoryQuotaBytes int `yaml:"memory_quota_bytes" env:"STORAGE_MEMORY_QUOTA_BYTES" env-default:"0"`
}

// DatabaseConfig holds PostgreSQL connection settings. Only used when
// storage.driver is "postgres".
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// GenerationConfig configures the content generation client.
// The mock path is used when UseMock is set or APIKey is empty.
type GenerationConfig struct {
	UseMock  bool          `yaml:"use_mock"  env:"USE_MOCK"         env-default:"false"`
	APIKey   string        `yaml:"api_key"   env:"ABV_API_KEY"`
	DelayMin time.Duration `yaml:"delay_min" env:"ABV_DELAY_MIN"    env-default:"1500ms"`
	DelayMax time.Duration `yaml:"delay_max" env:"ABV_DELAY_MAX"    env-default:"2500ms"`
}

// RegistrationConfig configures the IP registration client.
type RegistrationConfig struct {
	UseMock     bool          `yaml:"use_mock"     env:"USE_MOCK"            env-default:"false"`
	APIKey      string        `yaml:"api_key"      env:"STORY_API_KEY"`
	DelayMin    time.Duration `yaml:"delay_min"    env:"STORY_DELAY_MIN"     env-default:"1s"`
	DelayMax    time.Duration `yaml:"delay_max"    env:"STORY_DELAY_MAX"     env-default:"2500ms"`
	FailureRate float64       `yaml:"failure_rate" env:"STORY_FAILURE_RATE"  env-default:"0.1"`
}

// WalletConfig configures the wallet provider. An empty RPCURL means no
// wallet is available.
type WalletConfig struct {
	RPCURL       string        `yaml:"rpc_url"       env:"WALLET_RPC_URL"`
	PollInterval time.Duration `yaml:"poll_interval" env:"WALLET_POLL_INTERVAL" env-default:"4s"`
	// Flavor names the wallet for display ("metamask", "coinbase", ...).
	Flavor string `yaml:"flavor" env:"WALLET_FLAVOR"`
}

// AppConfig holds application-state defaults.
type AppConfig struct {
	// DefaultTheme is used when no theme has been stored yet.
	DefaultTheme  string        `yaml:"default_theme"  env:"APP_DEFAULT_THEME"  env-default:"light"`
	AutoRegister  bool          `yaml:"auto_register"  env:"APP_AUTO_REGISTER"  env-default:"true"`
	DisplayWindow time.Duration `yaml:"display_window" env:"APP_DISPLAY_WINDOW" env-default:"3s"`
	Creator       string        `yaml:"creator"        env:"APP_CREATOR"        env-default:"MintMind User"`
}

// RateLimitConfig caps the generate/register endpoints per client.
type RateLimitConfig struct {
	GeneratePerMinute int           `yaml:"generate_per_minute" env:"RATE_LIMIT_GENERATE_PER_MINUTE" env-default:"30"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"    env:"RATE_LIMIT_CLEANUP_INTERVAL"    env-default:"5m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// UsesMock reports whether the generation client runs in mock mode.
func (c GenerationConfig) UsesMock() bool {
	return c.UseMock || strings.TrimSpace(c.APIKey) == ""
}

// UsesMock reports whether the registration client runs in mock mode.
func (c RegistrationConfig) UsesMock() bool {
	return c.UseMock || strings.TrimSpace(c.APIKey) == ""
}
