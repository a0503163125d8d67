package game

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var builtinTables []byte

// ErrInvalidTables is returned when a tables file would make a lookup partial.
var ErrInvalidTables = errors.New("invalid tables")

// Tables holds the theme styles and habit rules. Both lookups are total:
// unknown themes get the Blue Drop style and unknown habits get Fallback.
type Tables struct {
	Themes   map[string]ThemeStyle `yaml:"themes"`
	Rules    map[string]HabitRule  `yaml:"rules"`
	Fallback HabitRule             `yaml:"fallback"`
}

var defaultTables = mustParseTables(builtinTables)

// DefaultTables returns the built-in tables.
func DefaultTables() *Tables { return defaultTables }

// LoadTables loads tables from a YAML file. An empty path means the built-in
// tables.
func LoadTables(path string) (*Tables, error) {
	if path == "" {
		return defaultTables, nil
	}
	cleanPath := filepath.Clean(path)
	b, err := os.ReadFile(cleanPath) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, err
	}
	return ParseTables(b)
}

// ParseTables decodes and validates a tables document.
func ParseTables(b []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, err
	}
	if _, ok := t.Themes[DefaultTheme]; !ok {
		return nil, fmt.Errorf("%w: missing %q theme", ErrInvalidTables, DefaultTheme)
	}
	if t.Fallback == (HabitRule{}) {
		return nil, fmt.Errorf("%w: missing fallback rule", ErrInvalidTables)
	}
	rules := make(map[string]HabitRule, len(t.Rules))
	for k, v := range t.Rules {
		rules[strings.ToLower(k)] = v
	}
	t.Rules = rules
	return &t, nil
}

func mustParseTables(b []byte) *Tables {
	t, err := ParseTables(b)
	if err != nil {
		panic(err)
	}
	return t
}

// ResolveTheme returns the style for a theme name, or the Blue Drop style
// when the name is unknown.
func (t *Tables) ResolveTheme(name string) ThemeStyle {
	if s, ok := t.Themes[name]; ok {
		return s
	}
	return t.Themes[DefaultTheme]
}

// RulesFor returns the game rule for a habit, matched case-insensitively,
// or the fallback rule.
func (t *Tables) RulesFor(habit string) HabitRule {
	if r, ok := t.Rules[strings.ToLower(habit)]; ok {
		return r
	}
	return t.Fallback
}

// ResolveTheme looks the theme up in the built-in tables.
func ResolveTheme(name string) ThemeStyle { return defaultTables.ResolveTheme(name) }

// RulesFor looks the habit up in the built-in tables.
func RulesFor(habit string) HabitRule { return defaultTables.RulesFor(habit) }
