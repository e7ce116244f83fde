package appstate

import (
	"context"
	"fmt"

	"github.com/heartmarshall/mintmind/internal/domain"
)

// ToggleTheme flips between light and dark and persists the result.
func (s *Store) ToggleTheme(ctx context.Context) domain.Theme {
	var next domain.Theme
	s.update(func(st *State) {
		st.Theme = st.Theme.Toggle()
		next = st.Theme
	})
	s.settings.SetTheme(ctx, next)
	return next
}

// SetTheme sets and persists the theme.
func (s *Store) SetTheme(ctx context.Context, theme domain.Theme) error {
	if !theme.IsValid() {
		return fmt.Errorf("appstate.SetTheme: %w", domain.NewValidationError("theme", fmt.Sprintf("unknown theme %q", theme)))
	}
	s.update(func(st *State) { st.Theme = theme })
	s.settings.SetTheme(ctx, theme)
	return nil
}
