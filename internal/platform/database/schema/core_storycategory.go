// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package schema

// CoreStoryCategoryTable represents the 'core.storycategory' join table
type CoreStoryCategoryTable struct {
	Table      string
	StoryID    string
	CategoryID string
}

// CoreStoryCategory is the schema definition for core.storycategory
var CoreStoryCategory = CoreStoryCategoryTable{
	Table:      "core.storycategory",
	StoryID:    "storyid",
	CategoryID: "categoryid",
}

func (t CoreStoryCategoryTable) Columns() []string {
	return []string{t.StoryID, t.CategoryID}
}
