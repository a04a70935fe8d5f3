// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package schema

// CoreTagTable represents the 'core.tag' table
type CoreTagTable struct {
	Table     string
	ID        string
	Slug      string
	Name      string
	CreatedAt string
}

// CoreTag is the schema definition for core.tag
var CoreTag = CoreTagTable{
	Table:     "core.tag",
	ID:        "id",
	Slug:      "slug",
	Name:      "name",
	CreatedAt: "createdat",
}

func (t CoreTagTable) Columns() []string {
	return []string{t.ID, t.Slug, t.Name, t.CreatedAt}
}
