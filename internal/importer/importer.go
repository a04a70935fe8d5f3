// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

/*
Package importer implements the story ingestion pipeline.

It covers three flows, all exposed through the admin API:

  - Archive import: a ZIP with a story.json manifest plus markdown chapters
    becomes a new story with its author, taxonomy, and chapters.
  - PDF import: a single PDF becomes a new story, either as one embedded
    viewer chapter or as extracted and heading-split chapters, depending on
    the configured import mode.
  - Bulk chapter import: a ZIP of chapter files appended to an existing story.

# Deduplication

Archive and PDF imports are deduplicated by a SHA-1 checksum of the uploaded
bytes, tracked through import jobs with a PENDING/DONE/ERROR lifecycle.
Re-uploading identical bytes returns the already-imported story instead of
creating a duplicate.
*/
package importer

import "time"

// # Job Lifecycle

// Job status values.
const (
	JobStatusPending = "PENDING"
	JobStatusDone    = "DONE"
	JobStatusError   = "ERROR"
)

// Job source kinds.
const (
	JobKindArchive = "zip"
	JobKindPDF     = "pdf"
)

// Job is one tracked, deduplicated ingestion attempt.
type Job struct {
	ID       string `json:"id"`
	Checksum string `json:"checksum"`
	Filename string `json:"filename"`
	Kind     string `json:"kind"`
	Status   string `json:"status"`

	// StoryID is set once a story has been successfully created.
	StoryID *string `json:"story_id,omitempty"`

	// ErrorMessage is the last failure text, present only on ERROR jobs.
	ErrorMessage *string `json:"error_message,omitempty"`

	// PayloadMeta records outcome details: chapter count and source PDF URL
	// on DONE jobs, the failure detail on ERROR jobs.
	PayloadMeta map[string]any `json:"payload_meta,omitempty"`

	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	CreatedAt  time.Time  `json:"-"`
	UpdatedAt  time.Time  `json:"-"`
}

// # Parser Types

// FileEntry is one named blob handed to the chapter file parser.
type FileEntry struct {
	Name string
	Data []byte
}

// ChapterInfo is the parser's output: an ordered, uniquely numbered,
// titled chapter. Numbers are dense 1..N after renumbering.
type ChapterInfo struct {
	Number   int
	Title    string
	Content  string
	Filename string // origin reference, diagnostic only
}

// # Results

// Result is the outcome of an archive or PDF import.
type Result struct {
	StoryID      string `json:"story_id"`
	ChapterCount int    `json:"chapter_count"`

	// SourcePDFURL is the stored original document, set on PDF imports when
	// the blob store accepted the upload.
	SourcePDFURL *string `json:"source_pdf_url,omitempty"`

	// AlreadyImported is true when the checksum matched a DONE job and the
	// existing story was returned without re-processing.
	AlreadyImported bool `json:"already_imported"`
}

// BulkResult is the outcome of a bulk chapter import.
type BulkResult struct {
	ChaptersAdded int `json:"chapters_added"`
}
