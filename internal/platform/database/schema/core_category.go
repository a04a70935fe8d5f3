// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package schema

// CoreCategoryTable represents the 'core.category' table
type CoreCategoryTable struct {
	Table     string
	ID        string
	Slug      string
	Name      string
	CreatedAt string
}

// CoreCategory is the schema definition for core.category
var CoreCategory = CoreCategoryTable{
	Table:     "core.category",
	ID:        "id",
	Slug:      "slug",
	Name:      "name",
	CreatedAt: "createdat",
}

func (t CoreCategoryTable) Columns() []string {
	return []string{t.ID, t.Slug, t.Name, t.CreatedAt}
}
