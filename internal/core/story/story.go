// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

/*
Package story defines the public catalogue domain of Lectoria.

It covers discovery (filtered listings), story detail pages with their chapter
index, and the chapter reader payload. Stories enter the catalogue exclusively
through the import pipeline; this package only reads and counts.

Core Responsibility:

  - Discovery: Filtered, paginated story listings (category, tag, status, search).
  - Detail: Story metadata with author, taxonomy, and the chapter index.
  - Reading: Single-chapter payloads with previous/next navigation.
*/
package story

import "time"

// # Domain Enums

// Status represents the publication status of a story.
type Status string

const (
	// StatusOngoing indicates the story is actively receiving chapters.
	StatusOngoing Status = "ONGOING"

	// StatusCompleted indicates the story has been fully published.
	StatusCompleted Status = "COMPLETED"

	// StatusHiatus indicates publication is paused indefinitely.
	StatusHiatus Status = "HIATUS"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOngoing, StatusCompleted, StatusHiatus:
		return true
	}
	return false
}

// # Core Entities

// Story is the central aggregate of the public catalogue.
type Story struct {
	ID           string   `json:"id"`
	Slug         string   `json:"slug"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Language     string   `json:"language"`
	Status       Status   `json:"status"`
	ManualRating *float64 `json:"manual_rating,omitempty"`
	CoverURL     *string  `json:"cover_url,omitempty"`
	SourcePDFURL *string  `json:"source_pdf_url,omitempty"`

	Author     Author `json:"author"`
	Categories []Term `json:"categories"`
	Tags       []Term `json:"tags"`

	ViewCount    int64      `json:"view_count"`
	ChapterCount int        `json:"chapter_count"`
	PublishedAt  time.Time  `json:"published_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"` // nil = active; non-nil = soft-deleted
}

// Author is the writer credit attached to a [Story].
type Author struct {
	ID      string `json:"id"`
	PenName string `json:"pen_name"`
}

// Term represents a category or tag attached to a [Story].
type Term struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// ChapterSummary is a chapter index entry on the story detail page. It carries
// no content so the index stays light even for long serials.
type ChapterSummary struct {
	Number      int       `json:"number"`
	Title       string    `json:"title"`
	LengthChars int       `json:"length_chars"`
	IsPDFOnly   bool      `json:"is_pdf_only"`
	CreatedAt   time.Time `json:"created_at"`
}

// Chapter is the full reader payload for a single chapter.
type Chapter struct {
	ID          string    `json:"id"`
	StoryID     string    `json:"story_id"`
	Number      int       `json:"number"`
	Title       string    `json:"title"`
	ContentMd   string    `json:"content_md"`
	LengthChars int       `json:"length_chars"`
	IsPDFOnly   bool      `json:"is_pdf_only"`
	ViewCount   int64     `json:"view_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Detail is the story page payload: the aggregate plus its chapter index.
type Detail struct {
	Story    Story            `json:"story"`
	Chapters []ChapterSummary `json:"chapters"`
}

// Reading is the reader payload: one chapter plus navigation anchors.
// PrevNumber/NextNumber are nil at the corresponding end of the story.
type Reading struct {
	Chapter    Chapter `json:"chapter"`
	PrevNumber *int    `json:"prev_number,omitempty"`
	NextNumber *int    `json:"next_number,omitempty"`
}

// # Search & Filtering

// Filter holds the parameters for a filtered story list query.
type Filter struct {
	Category string `json:"category,omitempty"` // category slug
	Tag      string `json:"tag,omitempty"`      // tag slug
	Status   Status `json:"status,omitempty"`
	Language string `json:"language,omitempty"`
	Query    string `json:"q,omitempty"`        // substring search over title/description
	Sort     string `json:"sort,omitempty"`     // latest, popular, rating, az
	SortDir  string `json:"sort_dir,omitempty"` // "asc" or "desc"
}

// # Field Identifiers

// Field names for validation and query parameter mapping.
const (
	FieldID       = "id"
	FieldSlug     = "slug"
	FieldTitle    = "title"
	FieldStatus   = "status"
	FieldCategory = "category"
	FieldTag      = "tag"
	FieldLanguage = "language"
	FieldNumber   = "number"
	FieldRating   = "manual_rating"
)
