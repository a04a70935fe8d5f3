// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package schema

// CoreChapterTable represents the 'core.chapter' table
type CoreChapterTable struct {
	Table       string
	ID          string
	StoryID     string
	Number      string
	Title       string
	ContentMd   string
	LengthChars string
	IsPublished string
	IsPDFOnly   string
	ViewCount   string
	CreatedAt   string
	UpdatedAt   string
}

// CoreChapter is the schema definition for core.chapter
var CoreChapter = CoreChapterTable{
	Table:       "core.chapter",
	ID:          "id",
	StoryID:     "storyid",
	Number:      "number",
	Title:       "title",
	ContentMd:   "contentmd",
	LengthChars: "lengthchars",
	IsPublished: "ispublished",
	IsPDFOnly:   "ispdfonly",
	ViewCount:   "viewcount",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t CoreChapterTable) Columns() []string {
	return []string{
		t.ID, t.StoryID, t.Number, t.Title, t.ContentMd, t.LengthChars,
		t.IsPublished, t.IsPDFOnly, t.ViewCount, t.CreatedAt, t.UpdatedAt,
	}
}
