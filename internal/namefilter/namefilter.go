// Package namefilter validates the names players give their climbers.
package namefilter

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Default length bounds, in runes.
const (
	DefaultMinLength = 2
	DefaultMaxLength = 16
)

// Config holds the name filter configuration
type Config struct {
	Enabled     bool     `yaml:"enabled"`
	MinLength   int      `yaml:"min_length"`
	MaxLength   int      `yaml:"max_length"`
	BannedWords []string `yaml:"banned_words"`
	BannedNames []string `yaml:"banned_names"`
}

// Result contains the outcome of checking a name
type Result struct {
	Allowed bool   // Whether the name is allowed
	Name    string // Normalized name (when allowed)
	Reason  string // Reason for rejection (if not allowed)
}

// NameFilter checks name shape and, when enabled, banned words and names
type NameFilter struct {
	enabled     bool
	minLength   int
	maxLength   int
	bannedWords []string // Lowercase banned words (partial match)
	bannedNames []string // Lowercase banned names (exact match)
}

// New creates a new NameFilter from a Config. A nil config checks shape only.
func New(cfg *Config) *NameFilter {
	nf := &NameFilter{minLength: DefaultMinLength, maxLength: DefaultMaxLength}
	if cfg == nil {
		return nf
	}

	nf.enabled = cfg.Enabled
	if cfg.MinLength > 0 {
		nf.minLength = cfg.MinLength
	}
	if cfg.MaxLength > 0 {
		nf.maxLength = cfg.MaxLength
	}

	// Store lowercase versions for case-insensitive matching
	for _, word := range cfg.BannedWords {
		if word != "" {
			nf.bannedWords = append(nf.bannedWords, strings.ToLower(word))
		}
	}
	for _, name := range cfg.BannedNames {
		if name != "" {
			nf.bannedNames = append(nf.bannedNames, strings.ToLower(name))
		}
	}

	return nf
}

// Normalize trims a name and collapses runs of spaces.
func Normalize(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// Check validates a name against the filter rules
func (nf *NameFilter) Check(name string) Result {
	name = Normalize(name)

	n := utf8.RuneCountInString(name)
	if n < nf.minLength || n > nf.maxLength {
		return Result{Reason: fmt.Sprintf("Names must be %d to %d characters long.", nf.minLength, nf.maxLength)}
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' && r != '-' && r != '\'' {
			return Result{Reason: "Names may only contain letters, digits, spaces, hyphens and apostrophes."}
		}
	}
	if !unicode.IsLetter([]rune(name)[0]) {
		return Result{Reason: "Names must start with a letter."}
	}

	if nf.enabled {
		nameLower := strings.ToLower(name)
		for _, banned := range nf.bannedNames {
			if nameLower == banned {
				return Result{Reason: "That name is not allowed."}
			}
		}
		for _, word := range nf.bannedWords {
			if strings.Contains(nameLower, word) {
				return Result{Reason: "That name contains a word that is not allowed."}
			}
		}
	}

	return Result{Allowed: true, Name: name}
}

// IsEnabled returns whether the banned word lists are enforced
func (nf *NameFilter) IsEnabled() bool {
	return nf.enabled
}
