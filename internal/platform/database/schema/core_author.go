// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package schema

// CoreAuthorTable represents the 'core.author' table
type CoreAuthorTable struct {
	Table     string
	ID        string
	PenName   string
	Bio       string
	CreatedAt string
	UpdatedAt string
}

// CoreAuthor is the schema definition for core.author
var CoreAuthor = CoreAuthorTable{
	Table:     "core.author",
	ID:        "id",
	PenName:   "penname",
	Bio:       "bio",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t CoreAuthorTable) Columns() []string {
	return []string{t.ID, t.PenName, t.Bio, t.CreatedAt, t.UpdatedAt}
}
