// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package importer

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velmoras/lectoria/internal/platform/database/schema"
	"github.com/velmoras/lectoria/internal/platform/dberr"
	"github.com/velmoras/lectoria/pkg/slug"
	"github.com/velmoras/lectoria/pkg/uuidv7"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Jobs

func (repository *PostgresRepository) GetJobByChecksum(context context.Context, checksum string) (*Job, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.CoreImportJob.ID, schema.CoreImportJob.Checksum, schema.CoreImportJob.Filename,
		schema.CoreImportJob.Kind, schema.CoreImportJob.Status, schema.CoreImportJob.StoryID,
		schema.CoreImportJob.ErrorMessage, schema.CoreImportJob.PayloadMeta,
		schema.CoreImportJob.StartedAt, schema.CoreImportJob.FinishedAt,
		schema.CoreImportJob.CreatedAt, schema.CoreImportJob.UpdatedAt,
		schema.CoreImportJob.Table, schema.CoreImportJob.Checksum,
	)

	job := &Job{}
	err := repository.db.QueryRow(context, query, checksum).Scan(
		&job.ID, &job.Checksum, &job.Filename, &job.Kind, &job.Status, &job.StoryID,
		&job.ErrorMessage, &job.PayloadMeta, &job.StartedAt, &job.FinishedAt,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_import_job_by_checksum")
	}

	return job, nil
}

func (repository *PostgresRepository) CreateJob(context context.Context, job *Job) error {
	if job.ID == "" {
		job.ID = uuidv7.New()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, now(), now(), now())
	`,
		schema.CoreImportJob.Table,
		schema.CoreImportJob.ID, schema.CoreImportJob.Checksum, schema.CoreImportJob.Filename,
		schema.CoreImportJob.Kind, schema.CoreImportJob.Status,
		schema.CoreImportJob.StartedAt, schema.CoreImportJob.CreatedAt, schema.CoreImportJob.UpdatedAt,
	)

	_, err := repository.db.Exec(context, query,
		job.ID, job.Checksum, job.Filename, job.Kind, job.Status,
	)
	if err != nil {
		// Unique violations surface raw so the orchestrator can detect a
		// lost race on the checksum and re-read the winning job.
		return err
	}

	return nil
}

func (repository *PostgresRepository) DeleteJob(context context.Context, jobID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CoreImportJob.Table, schema.CoreImportJob.ID)

	if _, err := repository.db.Exec(context, query, jobID); err != nil {
		return dberr.Wrap(err, "delete_import_job")
	}
	return nil
}

func (repository *PostgresRepository) MarkJobDone(context context.Context, jobID, storyID string, meta map[string]any) error {
	if meta == nil {
		meta = map[string]any{}
	}

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = now(), %s = now() WHERE %s = $1
	`,
		schema.CoreImportJob.Table,
		schema.CoreImportJob.Status, schema.CoreImportJob.StoryID, schema.CoreImportJob.PayloadMeta,
		schema.CoreImportJob.FinishedAt, schema.CoreImportJob.UpdatedAt,
		schema.CoreImportJob.ID,
	)

	if _, err := repository.db.Exec(context, query, jobID, JobStatusDone, storyID, meta); err != nil {
		return dberr.Wrap(err, "mark_import_job_done")
	}
	return nil
}

func (repository *PostgresRepository) MarkJobError(context context.Context, jobID, message string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = now(), %s = now() WHERE %s = $1
	`,
		schema.CoreImportJob.Table,
		schema.CoreImportJob.Status, schema.CoreImportJob.ErrorMessage, schema.CoreImportJob.PayloadMeta,
		schema.CoreImportJob.FinishedAt, schema.CoreImportJob.UpdatedAt,
		schema.CoreImportJob.ID,
	)

	meta := map[string]any{"error": message}
	if _, err := repository.db.Exec(context, query, jobID, JobStatusError, message, meta); err != nil {
		return dberr.Wrap(err, "mark_import_job_error")
	}
	return nil
}

// # Stories

func (repository *PostgresRepository) StoryExists(context context.Context, storyID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s IS NULL)`,
		schema.CoreStory.Table, schema.CoreStory.ID, schema.CoreStory.DeletedAt)

	var exists bool
	if err := repository.db.QueryRow(context, query, storyID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "story_exists")
	}
	return exists, nil
}

func (repository *PostgresRepository) SlugExists(context context.Context, storySlug string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.CoreStory.Table, schema.CoreStory.Slug)

	var exists bool
	if err := repository.db.QueryRow(context, query, storySlug).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "slug_exists")
	}
	return exists, nil
}

func (repository *PostgresRepository) CountChapters(context context.Context, storyID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.CoreChapter.Table, schema.CoreChapter.StoryID)

	var count int
	if err := repository.db.QueryRow(context, query, storyID).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_chapters")
	}
	return count, nil
}

func (repository *PostgresRepository) ChapterNumbers(context context.Context, storyID string) ([]int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		schema.CoreChapter.Number, schema.CoreChapter.Table,
		schema.CoreChapter.StoryID, schema.CoreChapter.Number)

	rows, err := repository.db.Query(context, query, storyID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_chapter_numbers")
	}
	defer rows.Close()

	numbers := make([]int, 0)
	for rows.Next() {
		var number int
		if err := rows.Scan(&number); err != nil {
			return nil, dberr.Wrap(err, "scan_chapter_number")
		}
		numbers = append(numbers, number)
	}

	return numbers, rows.Err()
}

// CreateStoryGraph persists the author, story, taxonomy links, and chapters
// in one transaction. Nothing is visible until commit.
func (repository *PostgresRepository) CreateStoryGraph(context context.Context, graph StoryGraph) (string, error) {
	transaction, err := repository.db.BeginTx(context, pgx.TxOptions{})
	if err != nil {
		return "", dberr.Wrap(err, "begin_import_transaction")
	}
	defer func() { _ = transaction.Rollback(context) }()

	authorID, err := upsertAuthor(context, transaction, graph.AuthorPenName, graph.AuthorBio)
	if err != nil {
		return "", err
	}

	storyID := uuidv7.New()
	storyQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, now(), now(), now())
	`,
		schema.CoreStory.Table,
		schema.CoreStory.ID, schema.CoreStory.AuthorID, schema.CoreStory.Slug,
		schema.CoreStory.Title, schema.CoreStory.Description, schema.CoreStory.Language,
		schema.CoreStory.Status, schema.CoreStory.ManualRating, schema.CoreStory.CoverURL,
		schema.CoreStory.SourcePDFURL, schema.CoreStory.ViewCount,
		schema.CoreStory.PublishedAt, schema.CoreStory.CreatedAt, schema.CoreStory.UpdatedAt,
	)

	_, err = transaction.Exec(context, storyQuery,
		storyID, authorID, graph.Slug, graph.Title, graph.Description,
		graph.Language, graph.Status, graph.ManualRating, graph.CoverURL, graph.SourcePDFURL,
	)
	if err != nil {
		return "", dberr.Wrap(err, "insert_story")
	}

	if err := linkTaxonomy(context, transaction, storyID, graph.Categories, categoryTables); err != nil {
		return "", err
	}
	if err := linkTaxonomy(context, transaction, storyID, graph.Tags, tagTables); err != nil {
		return "", err
	}

	if err := insertChapters(context, transaction, storyID, graph.Chapters, graph.IsPDFOnly); err != nil {
		return "", err
	}

	if err := transaction.Commit(context); err != nil {
		return "", dberr.Wrap(err, "commit_import_transaction")
	}

	return storyID, nil
}

// AddChapters appends chapters to an existing story atomically.
func (repository *PostgresRepository) AddChapters(context context.Context, storyID string, chapters []ChapterInfo) error {
	transaction, err := repository.db.BeginTx(context, pgx.TxOptions{})
	if err != nil {
		return dberr.Wrap(err, "begin_bulk_chapter_transaction")
	}
	defer func() { _ = transaction.Rollback(context) }()

	if err := insertChapters(context, transaction, storyID, chapters, false); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_bulk_chapter_transaction")
	}

	return nil
}

// # Transaction Helpers

func upsertAuthor(context context.Context, transaction pgx.Tx, penName, bio string) (string, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (%s) DO UPDATE SET %s = now()
		RETURNING %s
	`,
		schema.CoreAuthor.Table,
		schema.CoreAuthor.ID, schema.CoreAuthor.PenName, schema.CoreAuthor.Bio,
		schema.CoreAuthor.CreatedAt, schema.CoreAuthor.UpdatedAt,
		schema.CoreAuthor.PenName, schema.CoreAuthor.UpdatedAt,
		schema.CoreAuthor.ID,
	)

	var authorID string
	err := transaction.QueryRow(context, query, uuidv7.New(), penName, bio).Scan(&authorID)
	if err != nil {
		return "", dberr.Wrap(err, "upsert_author")
	}

	return authorID, nil
}

// taxonomyTables names the term and junction tables of one vocabulary.
// Category and tag storage share the same column layout.
type taxonomyTables struct {
	Term          string
	TermID        string
	TermSlug      string
	TermName      string
	TermCreatedAt string

	Link        string
	LinkStoryID string
	LinkTermID  string
}

var (
	categoryTables = taxonomyTables{
		Term:          schema.CoreCategory.Table,
		TermID:        schema.CoreCategory.ID,
		TermSlug:      schema.CoreCategory.Slug,
		TermName:      schema.CoreCategory.Name,
		TermCreatedAt: schema.CoreCategory.CreatedAt,
		Link:          schema.CoreStoryCategory.Table,
		LinkStoryID:   schema.CoreStoryCategory.StoryID,
		LinkTermID:    schema.CoreStoryCategory.CategoryID,
	}

	tagTables = taxonomyTables{
		Term:          schema.CoreTag.Table,
		TermID:        schema.CoreTag.ID,
		TermSlug:      schema.CoreTag.Slug,
		TermName:      schema.CoreTag.Name,
		TermCreatedAt: schema.CoreTag.CreatedAt,
		Link:          schema.CoreStoryTag.Table,
		LinkStoryID:   schema.CoreStoryTag.StoryID,
		LinkTermID:    schema.CoreStoryTag.TagID,
	}
)

// linkTaxonomy upserts each named term by its slugified name and links it to
// the story.
func linkTaxonomy(context context.Context, transaction pgx.Tx, storyID string, names []string, tables taxonomyTables) error {
	termQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s
		RETURNING %s
	`,
		tables.Term,
		tables.TermID, tables.TermSlug, tables.TermName, tables.TermCreatedAt,
		tables.TermSlug, tables.TermName, tables.TermName,
		tables.TermID,
	)

	linkQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, tables.Link, tables.LinkStoryID, tables.LinkTermID)

	for _, name := range names {
		termSlug := slug.From(name)
		if termSlug == "" {
			continue
		}

		var termID string
		if err := transaction.QueryRow(context, termQuery, uuidv7.New(), termSlug, name).Scan(&termID); err != nil {
			return dberr.Wrap(err, "upsert_taxonomy_term")
		}

		if _, err := transaction.Exec(context, linkQuery, storyID, termID); err != nil {
			return dberr.Wrap(err, "link_taxonomy_term")
		}
	}

	return nil
}

func insertChapters(context context.Context, transaction pgx.Tx, storyID string, chapters []ChapterInfo, isPDFOnly bool) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, true, $7, 0, now(), now())
	`,
		schema.CoreChapter.Table,
		schema.CoreChapter.ID, schema.CoreChapter.StoryID, schema.CoreChapter.Number,
		schema.CoreChapter.Title, schema.CoreChapter.ContentMd, schema.CoreChapter.LengthChars,
		schema.CoreChapter.IsPublished, schema.CoreChapter.IsPDFOnly, schema.CoreChapter.ViewCount,
		schema.CoreChapter.CreatedAt, schema.CoreChapter.UpdatedAt,
	)

	for _, chapter := range chapters {
		_, err := transaction.Exec(context, query,
			uuidv7.New(), storyID, chapter.Number, chapter.Title,
			chapter.Content, len(chapter.Content), isPDFOnly,
		)
		if err != nil {
			return dberr.Wrap(err, "insert_chapter")
		}
	}

	return nil
}
