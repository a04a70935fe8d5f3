// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package pdfx

import (
	"regexp"
	"strconv"
	"strings"
)

// headingScanDepth limits heading detection to the top lines of each page.
// Chapter headings sit at the top; scanning further produces false positives
// from in-prose mentions.
const headingScanDepth = 20

var (
	chapterHeadingPattern  = regexp.MustCompile(`(?i)^(cap[ií]tulo|cap\.|chapter)\s+([ivxlcdm]+|\d+)\b[ .:-]*(.*)$`)
	prologueHeadingPattern = regexp.MustCompile(`(?i)^(pr[oó]logo)\b[ .:-]*(.*)$`)
	epilogueHeadingPattern = regexp.MustCompile(`(?i)^(ep[ií]logo)\b[ .:-]*(.*)$`)

	bulletPrefixPattern = regexp.MustCompile(`^\s*[*.•\-]\s+`)
	lineSplitPattern    = regexp.MustCompile(`\n+`)
	arabicDigitPattern  = regexp.MustCompile(`\d+`)
)

// SplitOptions tunes heading-based chapter splitting.
type SplitOptions struct {
	// Language selects fallback chapter titles ("es", "pt", "en").
	// Defaults to "es".
	Language string
}

type headingMarker struct {
	page       int
	title      string
	numberHint int
	hasHint    bool
}

// SplitChaptersByHeadings groups cleaned pages into chapter blocks.
//
// Each page's first lines are scanned for a chapter/prologue/epilogue
// heading; every match starts a block running to the page before the next
// match. A document with zero matches is returned whole as chapter 1.
// Blocks are numbered 1..N in marker order; the number parsed from a heading
// is informational only and never drives numbering.
func SplitChaptersByHeadings(pages []PageText, options SplitOptions) []ChapterBlock {
	language := options.Language
	if language == "" {
		language = "es"
	}

	normalized := make([]PageText, 0, len(pages))
	for _, page := range pages {
		normalized = append(normalized, PageText{Index: page.Index, Text: CleanPageText(page.Text)})
	}

	markers := collectMarkers(normalized)

	if len(markers) == 0 {
		return wholeDocumentBlock(normalized, language)
	}

	lastPage := normalized[len(normalized)-1].Index

	blocks := make([]ChapterBlock, 0, len(markers))
	for markerIndex, marker := range markers {
		endPage := lastPage
		if markerIndex+1 < len(markers) {
			endPage = markers[markerIndex+1].page - 1
		}

		var pageTexts []string
		for _, page := range normalized {
			if page.Index >= marker.page && page.Index <= endPage {
				pageTexts = append(pageTexts, page.Text)
			}
		}

		number := markerIndex + 1
		title := marker.title
		if title == "" {
			title = chapterTitleFallback(number, language)
		}

		blocks = append(blocks, ChapterBlock{
			Number:   number,
			Title:    title,
			Text:     strings.TrimSpace(strings.Join(pageTexts, "\n\n")),
			PageFrom: marker.page,
			PageTo:   endPage,
		})
	}

	return blocks
}

func collectMarkers(pages []PageText) []headingMarker {
	var markers []headingMarker

	for _, page := range pages {
		var lines []string
		for _, line := range lineSplitPattern.Split(page.Text, -1) {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}

		depth := len(lines)
		if depth > headingScanDepth {
			depth = headingScanDepth
		}

		for lineIndex := 0; lineIndex < depth; lineIndex++ {
			line := lines[lineIndex]

			if match := chapterHeadingPattern.FindStringSubmatch(line); match != nil {
				markers = append(markers, chapterMarker(page.Index, line, match[2], match[3]))
				continue
			}
			if match := prologueHeadingPattern.FindStringSubmatch(line); match != nil {
				markers = append(markers, plainMarker(page.Index, line, match[2]))
				continue
			}
			if match := epilogueHeadingPattern.FindStringSubmatch(line); match != nil {
				markers = append(markers, plainMarker(page.Index, line, match[2]))
			}
		}
	}

	return markers
}

func chapterMarker(page int, line, rawNumber, trailing string) headingMarker {
	marker := plainMarker(page, line, trailing)

	if rawNumber != "" {
		if arabicDigitPattern.MatchString(rawNumber) {
			parsed, err := strconv.Atoi(rawNumber)
			if err == nil {
				marker.numberHint = parsed
				marker.hasHint = true
			}
		} else {
			marker.numberHint = RomanToInt(strings.ToUpper(rawNumber))
			marker.hasHint = true
		}
	}

	return marker
}

func plainMarker(page int, line, trailing string) headingMarker {
	title := strings.TrimSpace(trailing)
	if title == "" {
		// A bare heading keeps the whole heading line as its title.
		title = strings.TrimSpace(line)
	}
	return headingMarker{page: page, title: title}
}

func wholeDocumentBlock(pages []PageText, language string) []ChapterBlock {
	firstPage, lastPage := 1, 1
	var texts []string
	for _, page := range pages {
		texts = append(texts, page.Text)
	}
	if len(pages) > 0 {
		firstPage = pages[0].Index
		lastPage = pages[len(pages)-1].Index
	}

	return []ChapterBlock{{
		Number:   1,
		Title:    chapterTitleFallback(1, language),
		Text:     strings.TrimSpace(strings.Join(texts, "\n\n")),
		PageFrom: firstPage,
		PageTo:   lastPage,
	}}
}

func chapterTitleFallback(number int, language string) string {
	if language == "en" {
		return "Chapter " + strconv.Itoa(number)
	}
	// Spanish and Portuguese share the spelling.
	return "Capítulo " + strconv.Itoa(number)
}

// RomanToInt parses a Roman numeral using standard subtractive notation.
// Unknown characters count as zero; an unparsable input yields 0.
func RomanToInt(numeral string) int {
	values := map[byte]int{'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000}

	total := 0
	for position := 0; position < len(numeral); position++ {
		current := values[numeral[position]]
		next := 0
		if position+1 < len(numeral) {
			next = values[numeral[position+1]]
		}

		if current < next {
			total -= current
		} else {
			total += current
		}
	}

	return total
}

// ToMarkdown assembles a chapter body into markdown with an H1 title.
//
// Bullet-like lines (*, ., •, -) are normalized to "- " list items; all
// other non-blank lines become paragraphs separated by blank lines.
func ToMarkdown(title, text string) string {
	var paragraphs []string

	for _, line := range lineSplitPattern.Split(text, -1) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if bulletPrefixPattern.MatchString(trimmed) {
			paragraphs = append(paragraphs, "- "+bulletPrefixPattern.ReplaceAllString(trimmed, ""))
		} else {
			paragraphs = append(paragraphs, trimmed)
		}
	}

	return "# " + title + "\n\n" + strings.TrimSpace(strings.Join(paragraphs, "\n\n"))
}
