// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package importer

import "context"

// StoryGraph is the full set of rows persisted for one imported story.
// The repository writes the whole graph in a single transaction.
type StoryGraph struct {
	Slug         string
	Title        string
	Description  string
	Language     string
	Status       string
	ManualRating *float64
	CoverURL     *string
	SourcePDFURL *string
	IsPDFOnly    bool

	AuthorPenName string
	AuthorBio     string

	Categories []string
	Tags       []string

	Chapters []ChapterInfo
}

// Repository is the persistence contract of the import pipeline.
type Repository interface {
	// Jobs. GetJobByChecksum returns dberr.ErrNotFound for unseen checksums.
	GetJobByChecksum(context context.Context, checksum string) (*Job, error)
	CreateJob(context context.Context, job *Job) error
	DeleteJob(context context.Context, jobID string) error
	MarkJobDone(context context.Context, jobID, storyID string, meta map[string]any) error
	MarkJobError(context context.Context, jobID, message string) error

	// Stories.
	StoryExists(context context.Context, storyID string) (bool, error)
	SlugExists(context context.Context, slug string) (bool, error)
	CountChapters(context context.Context, storyID string) (int, error)
	ChapterNumbers(context context.Context, storyID string) ([]int, error)

	// CreateStoryGraph atomically persists the story with its author,
	// taxonomy links, and chapters, returning the new story ID.
	CreateStoryGraph(context context.Context, graph StoryGraph) (string, error)

	// AddChapters atomically appends chapters to an existing story.
	AddChapters(context context.Context, storyID string, chapters []ChapterInfo) error
}
