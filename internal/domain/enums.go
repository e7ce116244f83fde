package domain

import (
	"fmt"
	"strings"
)

// ContentKind is the kind of artifact the generation service produces.
type ContentKind string

const (
	KindText  ContentKind = "text"
	KindImage ContentKind = "image"
	KindVideo ContentKind = "video"
)

// ContentKinds lists every supported kind in display order.
var ContentKinds = []ContentKind{KindText, KindImage, KindVideo}

func (k ContentKind) String() string { return string(k) }

func (k ContentKind) IsValid() bool {
	switch k {
	case KindText, KindImage, KindVideo:
		return true
	}
	return false
}

// Title returns the kind with an upper-cased first letter ("Text", "Image").
func (k ContentKind) Title() string {
	if k == "" {
		return ""
	}
	s := string(k)
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseContentKind converts user input into a ContentKind.
func ParseContentKind(s string) (ContentKind, error) {
	k := ContentKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
	}
	return k, nil
}

// Theme is the presentation colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) String() string { return string(t) }

func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the opposite theme. Anything invalid toggles to dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme converts a stored or user-supplied string into a Theme.
func ParseTheme(s string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", NewValidationError("theme", fmt.Sprintf("must be %q or %q", ThemeLight, ThemeDark))
	}
	return t, nil
}
