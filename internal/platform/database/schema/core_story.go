// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package schema

// CoreStoryTable represents the 'core.story' table
type CoreStoryTable struct {
	Table        string
	ID           string
	AuthorID     string
	Slug         string
	Title        string
	Description  string
	Language     string
	Status       string
	ManualRating string
	CoverURL     string
	SourcePDFURL string
	ViewCount    string
	PublishedAt  string
	CreatedAt    string
	UpdatedAt    string
	DeletedAt    string
}

// CoreStory is the schema definition for core.story
var CoreStory = CoreStoryTable{
	Table:        "core.story",
	ID:           "id",
	AuthorID:     "authorid",
	Slug:         "slug",
	Title:        "title",
	Description:  "description",
	Language:     "language",
	Status:       "status",
	ManualRating: "manualrating",
	CoverURL:     "coverurl",
	SourcePDFURL: "sourcepdfurl",
	ViewCount:    "viewcount",
	PublishedAt:  "publishedat",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
	DeletedAt:    "deletedat",
}

func (t CoreStoryTable) Columns() []string {
	return []string{
		t.ID, t.AuthorID, t.Slug, t.Title, t.Description, t.Language, t.Status,
		t.ManualRating, t.CoverURL, t.SourcePDFURL, t.ViewCount,
		t.PublishedAt, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
