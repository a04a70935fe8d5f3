// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package pdfx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitChaptersByHeadings_NoMarkers(t *testing.T) {
	pages := []PageText{
		{Index: 1, Text: "Una mañana cualquiera.\n\nNada anunciaba lo que vendría."},
		{Index: 2, Text: "El pueblo seguía dormido."},
	}

	blocks := SplitChaptersByHeadings(pages, SplitOptions{Language: "es"})

	require.Len(t, blocks, 1)
	assert.Equal(t, 1, blocks[0].Number)
	assert.Equal(t, "Capítulo 1", blocks[0].Title)
	assert.Equal(t, 1, blocks[0].PageFrom)
	assert.Equal(t, 2, blocks[0].PageTo)
	assert.Contains(t, blocks[0].Text, "Una mañana cualquiera.")
	assert.Contains(t, blocks[0].Text, "El pueblo seguía dormido.")
}

func TestSplitChaptersByHeadings_ChapterMarkers(t *testing.T) {
	pages := []PageText{
		{Index: 1, Text: "Capítulo 1: El comienzo\n\nPrimer párrafo."},
		{Index: 2, Text: "Texto intermedio sin encabezado."},
		{Index: 3, Text: "Capítulo II\n\nSegundo tramo."},
		{Index: 4, Text: "Cierre de la historia."},
	}

	blocks := SplitChaptersByHeadings(pages, SplitOptions{})

	require.Len(t, blocks, 2)

	assert.Equal(t, 1, blocks[0].Number)
	assert.Equal(t, "El comienzo", blocks[0].Title)
	assert.Equal(t, 1, blocks[0].PageFrom)
	assert.Equal(t, 2, blocks[0].PageTo)

	assert.Equal(t, 2, blocks[1].Number)
	// Bare heading with a Roman numeral keeps the heading line as title.
	assert.Equal(t, "Capítulo II", blocks[1].Title)
	assert.Equal(t, 3, blocks[1].PageFrom)
	assert.Equal(t, 4, blocks[1].PageTo)
	assert.Contains(t, blocks[1].Text, "Cierre de la historia.")
}

func TestSplitChaptersByHeadings_PrologueAndEpilogue(t *testing.T) {
	pages := []PageText{
		{Index: 1, Text: "Prólogo\n\nAntes de todo."},
		{Index: 2, Text: "Chapter 1 - The Road\n\nFirst steps."},
		{Index: 3, Text: "Epílogo\n\nDespués de todo."},
	}

	blocks := SplitChaptersByHeadings(pages, SplitOptions{Language: "en"})

	require.Len(t, blocks, 3)
	assert.Equal(t, "Prólogo", blocks[0].Title)
	assert.Equal(t, "The Road", blocks[1].Title)
	assert.Equal(t, "Epílogo", blocks[2].Title)

	// Numbering follows marker order, not the numbers inside headings.
	assert.Equal(t, []int{1, 2, 3}, []int{blocks[0].Number, blocks[1].Number, blocks[2].Number})
}

func TestSplitChaptersByHeadings_IgnoresDeepLines(t *testing.T) {
	var deepText string
	for i := 0; i < 25; i++ {
		deepText += "Línea de relleno número suficiente.\n"
	}
	deepText += "Capítulo 2: Escondido"

	pages := []PageText{{Index: 1, Text: deepText}}

	blocks := SplitChaptersByHeadings(pages, SplitOptions{})

	// The heading sits past the scan depth, so the document is one block.
	require.Len(t, blocks, 1)
	assert.Equal(t, "Capítulo 1", blocks[0].Title)
}

func TestRomanToInt(t *testing.T) {
	tests := []struct {
		numeral  string
		expected int
	}{
		{"I", 1},
		{"IV", 4},
		{"IX", 9},
		{"XIV", 14},
		{"XL", 40},
		{"MCMXCIV", 1994},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RomanToInt(tt.numeral), "numeral %q", tt.numeral)
	}
}

func TestToMarkdown(t *testing.T) {
	body := "Primera línea.\n* punto uno\n• punto dos\nSegunda línea."

	markdown := ToMarkdown("El comienzo", body)

	assert.Equal(t, "# El comienzo\n\nPrimera línea.\n\n- punto uno\n\n- punto dos\n\nSegunda línea.", markdown)
}

func TestExtractEstimated_PageCountFromBufferSize(t *testing.T) {
	extractor := NewExtractor(Config{})

	small, err := extractor.extractEstimated(context.Background(), make([]byte, 10))
	require.NoError(t, err)
	assert.Len(t, small, 1)

	large, err := extractor.extractEstimated(context.Background(), make([]byte, 3*estimatedBytesPerPage))
	require.NoError(t, err)
	assert.Len(t, large, 3)
	assert.Equal(t, 1, large[0].Index)
	assert.Equal(t, 3, large[2].Index)
	assert.Contains(t, large[0].Text, "no pudo ser procesado")
}
