// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package importer

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Filename shapes recognized by ExtractChapterNumber, tried in priority
// order against the basename without extension. First match wins.
var chapterNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d+)$`),                   // "001", "7"
	regexp.MustCompile(`(?i)^capitulo[_-]?(\d+)$`),  // "capitulo_3"
	regexp.MustCompile(`(?i)^chapter[_-]?(\d+)$`),   // "chapter-12"
	regexp.MustCompile(`(?i)^cap[_-]?(\d+)$`),       // "cap4"
	regexp.MustCompile(`^(\d+)[_-].*$`),             // "1-introducao"
	regexp.MustCompile(`^.*[_-](\d+)$`),             // "introducao-1"
)

var headingMarkerPrefix = regexp.MustCompile(`^#+\s*`)

// ExtractChapterNumber infers a chapter number from a filename.
//
// The directory path and markdown extension are stripped before matching.
// The boolean is false when no pattern matches.
func ExtractChapterNumber(filename string) (int, bool) {
	base := path.Base(filename)
	base = strings.TrimSuffix(base, path.Ext(base))

	for _, pattern := range chapterNumberPatterns {
		match := pattern.FindStringSubmatch(base)
		if match == nil {
			continue
		}

		number, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		return number, true
	}

	return 0, false
}

// ExtractChapterTitle returns the first non-blank line of the content with
// leading markdown heading markers stripped. Empty content yields "".
func ExtractChapterTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		return strings.TrimSpace(headingMarkerPrefix.ReplaceAllString(trimmed, ""))
	}
	return ""
}

// IsValidChapterFile reports whether an archive entry is a chapter source:
// a markdown file living at the archive root or under chapters/.
func IsValidChapterFile(filename string) bool {
	if !strings.HasSuffix(strings.ToLower(filename), ".md") {
		return false
	}

	if !strings.Contains(filename, "/") {
		return true
	}

	return strings.HasPrefix(filename, "chapters/")
}

// ProcessChapterFiles turns named text blobs into an ordered chapter list.
//
// Each entry gets a number guess from its filename (falling back to
// 1 + input index) and a title from its first line (falling back to
// "Chapter N"). Entries are stable-sorted by (guess, input index), then
// renumbered densely 1..N; the guesses only decide ordering, never the
// final numbers. This guarantees no gaps or duplicates whatever the
// source naming scheme.
func ProcessChapterFiles(entries []FileEntry) []ChapterInfo {
	type workingChapter struct {
		guess      int
		inputIndex int
		info       ChapterInfo
	}

	working := make([]workingChapter, 0, len(entries))

	for index, entry := range entries {
		content := string(entry.Data)

		guess, found := ExtractChapterNumber(entry.Name)
		if !found {
			guess = index + 1
		}

		title := ExtractChapterTitle(content)
		if title == "" {
			title = fmt.Sprintf("Chapter %d", guess)
		}

		working = append(working, workingChapter{
			guess:      guess,
			inputIndex: index,
			info: ChapterInfo{
				Title:    title,
				Content:  content,
				Filename: entry.Name,
			},
		})
	}

	// Ties keep input order; filename lexical order never decides.
	sort.SliceStable(working, func(i, j int) bool {
		if working[i].guess != working[j].guess {
			return working[i].guess < working[j].guess
		}
		return working[i].inputIndex < working[j].inputIndex
	})

	chapters := make([]ChapterInfo, 0, len(working))
	for index, item := range working {
		item.info.Number = index + 1
		chapters = append(chapters, item.info)
	}

	return chapters
}
