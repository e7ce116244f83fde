package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

// unsetEnv removes key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	_ = os.Unsetenv(key)
}

// validConfig returns a Config that passes Validate.
func validConfig() *Config {
	return &Config{
		Storage: StorageConfig{Driver: StorageMemory},
		Generation: GenerationConfig{
			UseMock:  true,
			DelayMin: 1500 * time.Millisecond,
			DelayMax: 2500 * time.Millisecond,
		},
		Registration: RegistrationConfig{
			UseMock:     true,
			DelayMin:    time.Second,
			DelayMax:    2500 * time.Millisecond,
			FailureRate: 0.1,
		},
		Wallet: WalletConfig{PollInterval: 4 * time.Second},
		App: AppConfig{
			DefaultTheme:  "light",
			AutoRegister:  true,
			DisplayWindow: 3 * time.Second,
			Creator:       "MintMind User",
		},
		RateLimit: RateLimitConfig{GeneratePerMinute: 30, CleanupInterval: 5 * time.Minute},
	}
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"

storage:
  driver: "postgres"

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 4

generation:
  use_mock: false
  api_key: "abv-key"
  delay_min: "10ms"
  delay_max: "20ms"

registration:
  failure_rate: 0.25

wallet:
  rpc_url: "http://localhost:8545"
  poll_interval: "2s"
  flavor: "metamask"

app:
  default_theme: "dark"
  auto_register: false
  display_window: "5s"

log:
  level: "debug"
  format: "text"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want %v", cfg.Server.ReadTimeout, 5*time.Second)
	}

	if cfg.Storage.Driver != StoragePostgres {
		t.Errorf("storage.driver = %q", cfg.Storage.Driver)
	}
	if cfg.Database.MaxConns != 4 {
		t.Errorf("database.max_conns = %d, want 4", cfg.Database.MaxConns)
	}

	if cfg.Generation.UsesMock() {
		t.Error("generation should use the real backend when a key is set and use_mock is false")
	}
	if cfg.Generation.DelayMax != 20*time.Millisecond {
		t.Errorf("generation.delay_max = %v", cfg.Generation.DelayMax)
	}
	if cfg.Registration.FailureRate != 0.25 {
		t.Errorf("registration.failure_rate = %v", cfg.Registration.FailureRate)
	}
	if !cfg.Registration.UsesMock() {
		t.Error("registration without api key must use the mock")
	}

	if cfg.Wallet.Flavor != "metamask" || cfg.Wallet.PollInterval != 2*time.Second {
		t.Errorf("wallet = %+v", cfg.Wallet)
	}

	if cfg.App.DefaultTheme != "dark" || cfg.App.AutoRegister || cfg.App.DisplayWindow != 5*time.Second {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.App.Creator != "MintMind User" {
		t.Errorf("app.creator = %q (default expected)", cfg.App.Creator)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("USE_MOCK", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
	if !cfg.Generation.UsesMock() {
		t.Error("USE_MOCK=true must force the generation mock")
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Storage.Driver != StorageSQLite {
		t.Errorf("storage.driver = %q, want sqlite (default)", cfg.Storage.Driver)
	}
	if cfg.Generation.DelayMin != 1500*time.Millisecond || cfg.Generation.DelayMax != 2500*time.Millisecond {
		t.Errorf("generation delays = %v..%v", cfg.Generation.DelayMin, cfg.Generation.DelayMax)
	}
	if cfg.Registration.FailureRate != 0.1 {
		t.Errorf("registration.failure_rate = %v, want 0.1", cfg.Registration.FailureRate)
	}
	if !cfg.App.AutoRegister || cfg.App.DisplayWindow != 3*time.Second {
		t.Errorf("app defaults = %+v", cfg.App)
	}
}

func TestLoad_APIKeysWithoutMockFlagSelectRealBackends(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	unsetEnv(t, "USE_MOCK")
	t.Setenv("STORAGE_DRIVER", StorageMemory)
	t.Setenv("ABV_API_KEY", "abv-key")
	t.Setenv("STORY_API_KEY", "story-key")

	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Generation.UsesMock() {
		t.Error("generation with a key and no USE_MOCK must use the real backend")
	}
	if cfg.Registration.UsesMock() {
		t.Error("registration with a key and no USE_MOCK must use the real backend")
	}
}

func TestLoad_NoKeysUseMocks(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	unsetEnv(t, "USE_MOCK")
	unsetEnv(t, "ABV_API_KEY")
	unsetEnv(t, "STORY_API_KEY")
	t.Setenv("STORAGE_DRIVER", StorageMemory)

	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cfg.Generation.UsesMock() || !cfg.Registration.UsesMock() {
		t.Errorf("missing keys must select the mocks: %+v %+v", cfg.Generation, cfg.Registration)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)

	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	cases := map[string]func(c *Config){
		"unknown driver":        func(c *Config) { c.Storage.Driver = "redis" },
		"sqlite without path":   func(c *Config) { c.Storage.Driver = StorageSQLite; c.Storage.SQLitePath = "" },
		"postgres without dsn":  func(c *Config) { c.Storage.Driver = StoragePostgres },
		"negative quota":        func(c *Config) { c.Storage.MemoryQuotaBytes = -1 },
		"generation max < min":  func(c *Config) { c.Generation.DelayMax = time.Millisecond },
		"negative delay":        func(c *Config) { c.Registration.DelayMin = -time.Second },
		"failure rate above 1":  func(c *Config) { c.Registration.FailureRate = 1.5 },
		"wallet zero poll":      func(c *Config) { c.Wallet.RPCURL = "http://x"; c.Wallet.PollInterval = 0 },
		"bad theme":             func(c *Config) { c.App.DefaultTheme = "sepia" },
		"zero display window":   func(c *Config) { c.App.DisplayWindow = 0 },
		"empty creator":         func(c *Config) { c.App.Creator = "" },
		"negative rate limit":   func(c *Config) { c.RateLimit.GeneratePerMinute = -1 },
		"zero cleanup interval": func(c *Config) { c.RateLimit.CleanupInterval = 0 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestUsesMock(t *testing.T) {
	if !(GenerationConfig{UseMock: false, APIKey: "  "}).UsesMock() {
		t.Error("blank key must select the mock")
	}
	if (GenerationConfig{UseMock: false, APIKey: "k"}).UsesMock() {
		t.Error("key without mock flag must select the real backend")
	}
	if !(RegistrationConfig{UseMock: true, APIKey: "k"}).UsesMock() {
		t.Error("mock flag wins over the key")
	}
}
