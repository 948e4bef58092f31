// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package title turns free-form model output into labels that are safe to
// use as bookmark titles and file names.
package title

import (
	"strings"
	"unicode"
)

const (
	// MaxLen is the maximum length of a sanitized title, in runes.
	MaxLen = 40

	// Fallback is returned when nothing survives sanitization.
	Fallback = "Untitled"
)

// Sanitize keeps word characters, CJK ideographs, hyphens and spaces, trims
// the result, replaces inner spaces with underscores and truncates it to
// MaxLen runes. An empty result becomes Fallback. Sanitize is idempotent.
func Sanitize(s string) string {
	cleaned := strings.Trim(filter(s), " ")
	cleaned = strings.ReplaceAll(cleaned, " ", "_")
	if r := []rune(cleaned); len(r) > MaxLen {
		cleaned = string(r[:MaxLen])
	}
	if cleaned == "" {
		return Fallback
	}
	return cleaned
}

// Valid reports whether s contains at least one word character, ideograph
// or hyphen.
func Valid(s string) bool {
	return strings.Trim(filter(s), " ") != ""
}

func filter(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func keep(r rune) bool {
	switch {
	case r == '_', r == '-', r == ' ':
		return true
	case r >= 0x4E00 && r <= 0x9FFF:
		return true
	default:
		return unicode.IsLetter(r) || unicode.IsNumber(r)
	}
}
