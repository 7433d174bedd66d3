package prefsservice

import (
	"fmt"
	"strings"
	"sync"
)

// Theme is the colour scheme of the display.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Unit is the temperature display unit.
type Unit string

const (
	UnitCelsius    Unit = "C"
	UnitFahrenheit Unit = "F"
)

// Persisted keys.
const (
	ThemeKey = "wx-theme"
	UnitKey  = "wx-unit"
)

// Preferences is a snapshot of both flags.
type Preferences struct {
	Theme Theme
	Unit  Unit
}

// DefaultPreferences is what a fresh install shows before anything is
// stored and without a dark-mode signal.
func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeLight, Unit: UnitCelsius}
}

// ParseTheme accepts "light" or "dark" in any case.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("invalid theme %q (want light or dark)", s)
}

// ParseUnit accepts C/F, also spelled out.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "C", "CELSIUS":
		return UnitCelsius, nil
	case "F", "FAHRENHEIT":
		return UnitFahrenheit, nil
	}
	return "", fmt.Errorf("invalid unit %q (want C or F)", s)
}

// KV is the persistence the Store needs.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Store exposes typed get/set/subscribe over the two preference flags.
type Store struct {
	kv          KV
	prefersDark func() bool

	mu        sync.Mutex
	listeners map[int]func(Preferences)
	nextID    int
}

// NewStore wraps kv. prefersDark is consulted when no theme was ever set;
// nil means "light".
func NewStore(kv KV, prefersDark func() bool) *Store {
	if prefersDark == nil {
		prefersDark = func() bool { return false }
	}
	return &Store{
		kv:          kv,
		prefersDark: prefersDark,
		listeners:   make(map[int]func(Preferences)),
	}
}

// Theme returns the stored theme, falling back to the dark-mode signal.
// Unreadable or corrupt values also fall back.
func (s *Store) Theme() Theme {
	if v, ok, err := s.kv.Get(ThemeKey); err == nil && ok {
		if t, err := ParseTheme(v); err == nil {
			return t
		}
	}
	if s.prefersDark() {
		return ThemeDark
	}
	return ThemeLight
}

// Unit returns the stored unit, falling back to Celsius.
func (s *Store) Unit() Unit {
	if v, ok, err := s.kv.Get(UnitKey); err == nil && ok {
		if u, err := ParseUnit(v); err == nil {
			return u
		}
	}
	return UnitCelsius
}

// Preferences returns both flags.
func (s *Store) Preferences() Preferences {
	return Preferences{Theme: s.Theme(), Unit: s.Unit()}
}

// SetTheme persists t and notifies subscribers.
func (s *Store) SetTheme(t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	if err := s.kv.Set(ThemeKey, string(t)); err != nil {
		return err
	}
	s.notify()
	return nil
}

// SetUnit persists u and notifies subscribers.
func (s *Store) SetUnit(u Unit) error {
	if _, err := ParseUnit(string(u)); err != nil {
		return err
	}
	if err := s.kv.Set(UnitKey, string(u)); err != nil {
		return err
	}
	s.notify()
	return nil
}

// ToggleTheme flips light/dark and returns the new value.
func (s *Store) ToggleTheme() (Theme, error) {
	next := ThemeDark
	if s.Theme() == ThemeDark {
		next = ThemeLight
	}
	return next, s.SetTheme(next)
}

// ToggleUnit flips C/F and returns the new value.
func (s *Store) ToggleUnit() (Unit, error) {
	next := UnitFahrenheit
	if s.Unit() == UnitFahrenheit {
		next = UnitCelsius
	}
	return next, s.SetUnit(next)
}

// Subscribe registers fn for every successful set. Call the returned func
// to unsubscribe.
func (s *Store) Subscribe(fn func(Preferences)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify() {
	prefs := s.Preferences()

	s.mu.Lock()
	fns := make([]func(Preferences), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(prefs)
	}
}
