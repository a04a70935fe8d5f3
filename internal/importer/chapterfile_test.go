// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package importer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractChapterNumber(t *testing.T) {
	tests := []struct {
		filename string
		expected int
		found    bool
	}{
		{"001.md", 1, true},
		{"7.md", 7, true},
		{"capitulo-7.md", 7, true},
		{"Capitulo_12.md", 12, true},
		{"chapter-3.md", 3, true},
		{"CHAPTER_10.md", 10, true},
		{"cap-4.md", 4, true},
		{"cap9.md", 9, true},
		{"1-introducao.md", 1, true},
		{"introducao-1.md", 1, true},
		{"chapters/capitulo-2.md", 2, true},
		{"intro.md", 0, false},
		{"notas-del-autor.md", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			number, found := ExtractChapterNumber(tt.filename)
			assert.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, tt.expected, number)
			}
		})
	}
}

func TestExtractChapterTitle(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"heading", "# Hello\nBody", "Hello"},
		{"deep_heading", "### El Encuentro\n\ntexto", "El Encuentro"},
		{"no_heading", "\n\nNo heading here", "No heading here"},
		{"blank_lines_first", "\n\n\n# Primero", "Primero"},
		{"empty", "", ""},
		{"only_whitespace", "  \n\t\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractChapterTitle(tt.content))
		})
	}
}

func TestIsValidChapterFile(t *testing.T) {
	assert.True(t, IsValidChapterFile("001.md"))
	assert.True(t, IsValidChapterFile("chapters/capitulo-1.md"))
	assert.True(t, IsValidChapterFile("INTRO.MD"))

	assert.False(t, IsValidChapterFile("story.json"))
	assert.False(t, IsValidChapterFile("cover.jpg"))
	assert.False(t, IsValidChapterFile("extras/bonus.md"))
	assert.False(t, IsValidChapterFile("chapters/notas.txt"))
}

func TestProcessChapterFiles_DenseRenumbering(t *testing.T) {
	entries := []FileEntry{
		{Name: "capitulo-10.md", Data: []byte("# Diez\ncuerpo")},
		{Name: "capitulo-2.md", Data: []byte("# Dos\ncuerpo")},
		{Name: "capitulo-7.md", Data: []byte("# Siete\ncuerpo")},
	}

	chapters := ProcessChapterFiles(entries)

	require.Len(t, chapters, 3)
	// Sorted by guessed number, then renumbered densely.
	assert.Equal(t, []int{1, 2, 3}, []int{chapters[0].Number, chapters[1].Number, chapters[2].Number})
	assert.Equal(t, "Dos", chapters[0].Title)
	assert.Equal(t, "Siete", chapters[1].Title)
	assert.Equal(t, "Diez", chapters[2].Title)
}

func TestProcessChapterFiles_TiesKeepInputOrder(t *testing.T) {
	entries := []FileEntry{
		{Name: "zzz.md", Data: []byte("# Primero en llegar")},
		{Name: "aaa.md", Data: []byte("# Segundo en llegar")},
	}

	// Neither filename yields a number, so guesses are 1 and 2 by input
	// index; lexical filename order must not reorder them.
	chapters := ProcessChapterFiles(entries)

	require.Len(t, chapters, 2)
	assert.Equal(t, "Primero en llegar", chapters[0].Title)
	assert.Equal(t, "Segundo en llegar", chapters[1].Title)
}

func TestProcessChapterFiles_TitleFallback(t *testing.T) {
	entries := []FileEntry{
		{Name: "5.md", Data: []byte("")},
	}

	chapters := ProcessChapterFiles(entries)

	require.Len(t, chapters, 1)
	assert.Equal(t, 1, chapters[0].Number)
	assert.Equal(t, "Chapter 5", chapters[0].Title)
}

func TestProcessChapterFiles_AlwaysDense(t *testing.T) {
	var entries []FileEntry
	for _, n := range []int{30, 5, 12, 1, 99} {
		entries = append(entries, FileEntry{
			Name: fmt.Sprintf("capitulo-%d.md", n),
			Data: []byte("cuerpo"),
		})
	}

	chapters := ProcessChapterFiles(entries)

	require.Len(t, chapters, 5)
	for index, chapter := range chapters {
		assert.Equal(t, index+1, chapter.Number)
	}
}
