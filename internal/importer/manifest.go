// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package importer

import (
	"encoding/json"
	"strings"

	"github.com/velmoras/lectoria/internal/platform/validate"
)

// Allowed manifest enum values.
var (
	supportedLanguages = []string{"es", "pt", "en"}
	supportedStatuses  = []string{"ONGOING", "COMPLETED", "HIATUS"}
)

// ManifestAuthor is the author block of a story manifest.
type ManifestAuthor struct {
	PenName string `json:"penName"`
	Bio     string `json:"bio,omitempty"`
}

// Manifest is the story.json descriptor at the root of an import archive.
// The PDF import flow synthesizes one when the caller supplies no metadata.
type Manifest struct {
	Title        string         `json:"title"`
	Slug         string         `json:"slug,omitempty"`
	Language     string         `json:"language"`
	Status       string         `json:"status"`
	Description  string         `json:"description"`
	Author       ManifestAuthor `json:"author"`
	Categories   []string       `json:"categories,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
	CoverFile    string         `json:"coverFile,omitempty"`
	ManualRating *float64       `json:"manualRating,omitempty"`
}

// ParseManifest decodes and validates a story manifest.
//
// Validation failures come back as a tagged error value (an
// apperr.ValidationError carrying per-field details), never as a panic:
// manifests are externally supplied input.
func ParseManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, validate.ErrInvalidJSON
	}

	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	return &manifest, nil
}

// Validate checks the manifest against the story metadata schema.
func (manifest *Manifest) Validate() error {
	validator := &validate.Validator{}

	validator.
		Required("title", manifest.Title).
		MinLen("title", manifest.Title, 2).
		OneOf("language", manifest.Language, supportedLanguages...).
		OneOf("status", manifest.Status, supportedStatuses...).
		Required("description", manifest.Description).
		MinLen("description", manifest.Description, 10).
		Required("author.penName", manifest.Author.PenName).
		MinLen("author.penName", manifest.Author.PenName, 2)

	if manifest.Slug != "" {
		validator.Slug("slug", manifest.Slug)
	}

	if manifest.ManualRating != nil {
		validator.FloatRange("manualRating", *manifest.ManualRating, 0, 5)
	}

	return validator.Err()
}

// DefaultPDFManifest builds the fallback metadata for a PDF imported
// without a caller-supplied manifest.
func DefaultPDFManifest(filename string) Manifest {
	title := strings.TrimSpace(strings.TrimSuffix(filename, ".pdf"))
	if title == "" {
		title = "Sin título"
	}

	return Manifest{
		Title:       title,
		Language:    "es",
		Status:      "ONGOING",
		Description: "Obra importada desde PDF. La descripción aún no ha sido editada.",
		Author:      ManifestAuthor{PenName: "Anónimo"},
	}
}
