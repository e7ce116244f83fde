package config

import (
	"fmt"
	"slices"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Storage.validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if c.Storage.Driver == StoragePostgres && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required when storage.driver is %q", StoragePostgres)
	}

	if err := validateDelay(c.Generation.DelayMin, c.Generation.DelayMax); err != nil {
		return fmt.Errorf("generation: %w", err)
	}
	if err := validateDelay(c.Registration.DelayMin, c.Registration.DelayMax); err != nil {
		return fmt.Errorf("registration: %w", err)
	}
	if c.Registration.FailureRate < 0 || c.Registration.FailureRate > 1 {
		return fmt.Errorf("registration.failure_rate must be within [0, 1] (got %v)", c.Registration.FailureRate)
	}

	if c.Wallet.RPCURL != "" && c.Wallet.PollInterval <= 0 {
		return fmt.Errorf("wallet.poll_interval must be > 0 (got %v)", c.Wallet.PollInterval)
	}

	if err := c.App.validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}

	if c.RateLimit.GeneratePerMinute < 0 {
		return fmt.Errorf("rate_limit.generate_per_minute must be >= 0 (got %d)", c.RateLimit.GeneratePerMinute)
	}
	if c.RateLimit.CleanupInterval <= 0 {
		return fmt.Errorf("rate_limit.cleanup_interval must be > 0 (got %v)", c.RateLimit.CleanupInterval)
	}

	return nil
}

func (s *StorageConfig) validate() error {
	drivers := []string{StorageMemory, StorageSQLite, StoragePostgres}
	if !slices.Contains(drivers, s.Driver) {
		return fmt.Errorf("driver must be one of %v (got %q)", drivers, s.Driver)
	}
	if s.Driver == StorageSQLite && s.SQLitePath == "" {
		return fmt.Errorf("sqlite_path is required for the sqlite driver")
	}
	if s.MemoryQuotaBytes < 0 {
		return fmt.Errorf("memory_quota_bytes must be >= 0 (got %d)", s.MemoryQuotaBytes)
	}
	return nil
}

func (a *AppConfig) validate() error {
	if a.DefaultTheme != "light" && a.DefaultTheme != "dark" {
		return fmt.Errorf("default_theme must be \"light\" or \"dark\" (got %q)", a.DefaultTheme)
	}
	if a.DisplayWindow <= 0 {
		return fmt.Errorf("display_window must be > 0 (got %v)", a.DisplayWindow)
	}
	if a.Creator == "" {
		return fmt.Errorf("creator is required")
	}
	return nil
}

func validateDelay(lo, hi time.Duration) error {
	if lo < 0 {
		return fmt.Errorf("delay_min must be >= 0 (got %v)", lo)
	}
	if hi < lo {
		return fmt.Errorf("delay_max (%v) must be >= delay_min (%v)", hi, lo)
	}
	return nil
}
