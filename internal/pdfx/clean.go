// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package pdfx

import (
	"regexp"
	"strings"
)

var (
	hyphenLineBreakPattern = regexp.MustCompile(`-\s*\n`)
	// Spaces and tabs only: \s would swallow the newline runs that
	// blankRunPattern needs to see to preserve paragraph breaks.
	trailingSpacePattern = regexp.MustCompile(`[ \t]+\n`)
	blankRunPattern      = regexp.MustCompile(`\n{3,}`)
	spaceRunPattern      = regexp.MustCompile(`[ \t]{2,}`)
)

// CleanPageText normalizes raw page text for storage and heading detection.
//
// It removes soft hyphens, joins hyphen-broken line wraps, strips trailing
// whitespace before newlines, collapses 3+ blank lines to a single blank
// line, collapses runs of spaces/tabs, and trims both ends.
func CleanPageText(text string) string {
	if text == "" {
		return ""
	}

	cleaned := strings.ReplaceAll(text, "\u00ad", "")
	cleaned = hyphenLineBreakPattern.ReplaceAllString(cleaned, "")
	cleaned = trailingSpacePattern.ReplaceAllString(cleaned, "\n")
	cleaned = blankRunPattern.ReplaceAllString(cleaned, "\n\n")
	cleaned = spaceRunPattern.ReplaceAllString(cleaned, " ")

	return strings.TrimSpace(cleaned)
}
