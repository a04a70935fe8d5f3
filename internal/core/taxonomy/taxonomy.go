// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

/*
Package taxonomy exposes the public classification vocabulary of the catalogue.

Categories and tags are created implicitly by the import pipeline; this
package only lists them, annotated with how many live stories carry each term.
*/
package taxonomy

import "context"

// Term is a category or tag with its usage count.
type Term struct {
	ID         string `json:"id"`
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	StoryCount int    `json:"story_count"`
}

// # Taxonomy Data Access

// Repository defines the read-side contract for the classification vocabulary.
type Repository interface {
	// ListCategories returns all categories with live-story counts, by name.
	ListCategories(context context.Context) ([]Term, error)

	// ListTags returns all tags with live-story counts, by name.
	ListTags(context context.Context) ([]Term, error)
}
