// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velmoras/lectoria/pkg/slug"
)

/*
TestFrom verifies the normalization pipeline against common story titles.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Hello World", "hello-world"},
		{"accents", "Canción de Hielo", "cancion-de-hielo"},
		{"portuguese", "Coração Selvagem", "coracao-selvagem"},
		{"punctuation", "¿Qué pasó ayer?", "que-paso-ayer"},
		{"special_chars_removed", "D&D", "dd"},
		{"apostrophe_removed", "L'été d'Anna", "lete-danna"},
		{"multi_space", "a   b", "a-b"},
		{"leading_trailing", "  --tilde--  ", "tilde"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}

/*
TestNew checks the random-suffix slug generator used by the import pipeline.
*/
func TestNew(t *testing.T) {
	s := slug.New("El Ministerio del Tiempo")
	require.True(t, slug.IsValid(s), "generated slug must be well-formed: %q", s)
	assert.True(t, strings.HasPrefix(s, "el-ministerio-del-tiempo-"))

	// Suffix length is fixed.
	parts := strings.Split(s, "-")
	assert.Len(t, parts[len(parts)-1], slug.SuffixLength)

	// Two generations of the same title must differ.
	assert.NotEqual(t, s, slug.New("El Ministerio del Tiempo"))
}

func TestNew_EmptyTitle(t *testing.T) {
	s := slug.New("¡¡¡")
	require.True(t, slug.IsValid(s))
	assert.True(t, strings.HasPrefix(s, "untitled-"))
}

func TestIsValid(t *testing.T) {
	assert.True(t, slug.IsValid("la-obra-7"))
	assert.False(t, slug.IsValid("La Obra"))
	assert.False(t, slug.IsValid("obra_7"))
	assert.False(t, slug.IsValid(""))
}
