// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package schema

// CoreStoryTagTable represents the 'core.storytag' join table
type CoreStoryTagTable struct {
	Table   string
	StoryID string
	TagID   string
}

// CoreStoryTag is the schema definition for core.storytag
var CoreStoryTag = CoreStoryTagTable{
	Table:   "core.storytag",
	StoryID: "storyid",
	TagID:   "tagid",
}

func (t CoreStoryTagTable) Columns() []string {
	return []string{t.StoryID, t.TagID}
}
