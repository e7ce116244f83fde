// Package settings persists user preferences that outlive a wallet session.
package settings

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/mintmind/internal/domain"
)

// ThemeKey is the storage key of the colour scheme preference.
const ThemeKey = "mintmind_theme"

type kvStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Store reads and writes preferences. Like the asset store it is best-effort.
type Store struct {
	kv           kvStore
	defaultTheme domain.Theme
	log          *slog.Logger
}

// New creates a Store. defaultTheme is used when nothing valid is stored;
// an invalid default falls back to light.
func New(kv kvStore, defaultTheme domain.Theme, logger *slog.Logger) *Store {
	if !defaultTheme.IsValid() {
		defaultTheme = domain.ThemeLight
	}
	return &Store{
		kv:           kv,
		defaultTheme: defaultTheme,
		log:          logger.With("service", "settings"),
	}
}

// Theme returns the stored theme, or the default.
func (s *Store) Theme(ctx context.Context) domain.Theme {
	raw, ok, err := s.kv.Get(ctx, ThemeKey)
	if err != nil {
		s.log.ErrorContext(ctx, "load theme", slog.String("error", err.Error()))
		return s.defaultTheme
	}
	if !ok {
		return s.defaultTheme
	}
	theme, err := domain.ParseTheme(raw)
	if err != nil {
		s.log.WarnContext(ctx, "ignoring stored theme", slog.String("value", raw))
		return s.defaultTheme
	}
	return theme
}

// SetTheme stores theme. Failures are logged.
func (s *Store) SetTheme(ctx context.Context, theme domain.Theme) {
	if err := s.kv.Set(ctx, ThemeKey, theme.String()); err != nil {
		s.log.ErrorContext(ctx, "save theme", slog.String("theme", theme.String()), slog.String("error", err.Error()))
	}
}
