// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package schema

// CoreImportJobTable represents the 'core.importjob' table
type CoreImportJobTable struct {
	Table        string
	ID           string
	Checksum     string
	Filename     string
	Kind         string
	Status       string
	StoryID      string
	ErrorMessage string
	PayloadMeta  string
	StartedAt    string
	FinishedAt   string
	CreatedAt    string
	UpdatedAt    string
}

// CoreImportJob is the schema definition for core.importjob
var CoreImportJob = CoreImportJobTable{
	Table:        "core.importjob",
	ID:           "id",
	Checksum:     "checksum",
	Filename:     "filename",
	Kind:         "kind",
	Status:       "status",
	StoryID:      "storyid",
	ErrorMessage: "errormessage",
	PayloadMeta:  "payloadmeta",
	StartedAt:    "startedat",
	FinishedAt:   "finishedat",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

func (t CoreImportJobTable) Columns() []string {
	return []string{
		t.ID, t.Checksum, t.Filename, t.Kind, t.Status, t.StoryID,
		t.ErrorMessage, t.PayloadMeta, t.StartedAt, t.FinishedAt, t.CreatedAt, t.UpdatedAt,
	}
}
