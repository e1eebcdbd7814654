// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from display text,
// with Vietnamese diacritic folding, and a best-effort uniqueness resolver.
package slug

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SuffixLength is the number of characters appended on collision.
const SuffixLength = 8

// Generate lower-cases s, folds Vietnamese diacritics to their base Latin
// letters and replaces spaces with hyphens. Other punctuation is kept.
// Example: "Bài Viết Đầu Tiên" → "bai-viet-dau-tien"
func Generate(s string) string {
	result := strings.ToLower(s)
	// đ is a distinct letter, not a d with a combining mark.
	result = strings.ReplaceAll(result, "đ", "d")
	result = foldMarks(result)
	result = strings.ReplaceAll(result, " ", "-")
	return result
}

// foldMarks decomposes s and drops every non-spacing mark (tone marks, the
// horn on ư/ơ, the breve on ă, the circumflex on â/ê/ô).
func foldMarks(s string) string {
	// transform.Chain is stateful, so a fresh chain is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// ExistsFunc reports whether a slug is already taken for one entity type.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// SuffixFunc returns a random disambiguation suffix.
type SuffixFunc func() string

// RandomSuffix returns the first eight characters of a fresh UUID.
func RandomSuffix() string {
	return uuid.NewString()[:SuffixLength]
}

// Unique returns candidate if exists reports it free, otherwise
// candidate + "-" + suffix(). The suffixed value is not re-checked; the
// storage layer's unique constraint is the only backstop.
func Unique(ctx context.Context, candidate string, exists ExistsFunc, suffix SuffixFunc) (string, error) {
	taken, err := exists(ctx, candidate)
	if err != nil {
		return "", fmt.Errorf("check slug %q: %w", candidate, err)
	}
	if !taken {
		return candidate, nil
	}
	if suffix == nil {
		suffix = RandomSuffix
	}
	return candidate + "-" + suffix(), nil
}
