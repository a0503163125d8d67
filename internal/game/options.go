package game

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Choices offered on the form.
var (
	Settings = []string{"bathroom", "garden", "school", "beach", "forest"}
	Habits   = []string{"brushing teeth", "watering plants", "taking showers", "fixing leaks"}
	Themes   = []string{"Blue Drop", "Nature Kids", "Clean City", "Water Warriors"}
)

const (
	DefaultTheme = "Blue Drop"
	MaxHeroLen   = 64
)

// DefaultSelection is what the form shows before the player touches it.
func DefaultSelection() UserSelection {
	return UserSelection{
		Setting:  Settings[0],
		Habit:    Habits[0],
		Theme:    DefaultTheme,
		HintMode: true,
	}
}

// Title is the story heading, e.g. "Andy's Adventure in the Garden".
func (s UserSelection) Title() string {
	return s.Hero + "'s Adventure in the " + capitalize(s.Setting)
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// CleanHero trims the hero name and caps it at MaxHeroLen runes.
func CleanHero(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxHeroLen {
		name = string([]rune(name)[:MaxHeroLen])
	}
	return name
}
