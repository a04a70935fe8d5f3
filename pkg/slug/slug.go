// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// # Usage
//
// Slugs are used as human-readable identifiers for stories (e.g., "la-sombra-del-viento").
// This package handles normalization, accent removal, character sanitization,
// and the random suffix the import pipeline appends for uniqueness.
package slug

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// invalidChars matches everything that is dropped outright: anything but
	// lowercase alphanumerics, whitespace, and hyphens. "D&D" becomes "dd",
	// not "d-d".
	invalidChars = regexp.MustCompile(`[^a-z0-9\s-]+`)
	// whitespaceRun matches whitespace sequences, which become single hyphens.
	whitespaceRun = regexp.MustCompile(`\s+`)
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)
	// validSlug matches a well-formed slug: lowercase letters, digits, hyphens.
	validSlug = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// suffixAlphabet is the base36 character set used for random slug suffixes.
const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// SuffixLength is the number of random characters appended by [New].
const SuffixLength = 6

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Converts to lowercase.
// 4. Removes special characters, then hyphenates whitespace runs.
// 5. Collapses multiple hyphens and trims leading/trailing hyphens.
func From(s string) string {
	// 1. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	// 2. Lowercase
	result = strings.ToLower(result)

	// 3. Remove special characters first, so "D&D" yields "dd". Only the
	// surviving whitespace becomes hyphens.
	result = invalidChars.ReplaceAllString(result, "")
	result = whitespaceRun.ReplaceAllString(result, "-")

	// 4. Clean up hyphenation
	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	return result
}

// New builds a slug from title and appends a random base36 suffix.
//
// The suffix makes freshly generated slugs collision-resistant without a
// database round-trip; callers still re-check uniqueness before persisting
// and call New again on a collision.
func New(title string) string {
	base := From(title)
	if base == "" {
		base = "untitled"
	}
	return base + "-" + randomSuffix(SuffixLength)
}

// IsValid reports whether s is a well-formed slug.
func IsValid(s string) bool {
	return validSlug.MatchString(s)
}

// randomSuffix returns n cryptographically random base36 characters.
func randomSuffix(n int) string {
	var sb strings.Builder
	alphabetSize := big.NewInt(int64(len(suffixAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken;
			// degrade to a fixed character rather than abort an import.
			sb.WriteByte('x')
			continue
		}
		sb.WriteByte(suffixAlphabet[idx.Int64()])
	}
	return sb.String()
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
