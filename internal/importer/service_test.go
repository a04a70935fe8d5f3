// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package importer

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velmoras/lectoria/internal/platform/apperr"
	"github.com/velmoras/lectoria/internal/platform/config"
	"github.com/velmoras/lectoria/internal/platform/dberr"
	"github.com/velmoras/lectoria/internal/platform/storage"
	"github.com/velmoras/lectoria/internal/pdfx"
)

// # Test Doubles

type fakeRepository struct {
	jobs      map[string]*Job // keyed by checksum
	stories   map[string]StoryGraph
	chapters  map[string][]ChapterInfo
	slugs     map[string]bool
	nextStory int

	createJobErr  error
	failCreateOne bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		jobs:     make(map[string]*Job),
		stories:  make(map[string]StoryGraph),
		chapters: make(map[string][]ChapterInfo),
		slugs:    make(map[string]bool),
	}
}

func (repo *fakeRepository) GetJobByChecksum(_ context.Context, checksum string) (*Job, error) {
	job, found := repo.jobs[checksum]
	if !found {
		return nil, dberr.ErrNotFound
	}
	copied := *job
	return &copied, nil
}

func (repo *fakeRepository) CreateJob(_ context.Context, job *Job) error {
	if repo.createJobErr != nil {
		err := repo.createJobErr
		if repo.failCreateOne {
			repo.createJobErr = nil
		}
		return err
	}
	if _, exists := repo.jobs[job.Checksum]; exists {
		return &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	}
	if job.ID == "" {
		job.ID = "job-" + job.Checksum[:8]
	}
	stored := *job
	repo.jobs[job.Checksum] = &stored
	return nil
}

func (repo *fakeRepository) DeleteJob(_ context.Context, jobID string) error {
	for checksum, job := range repo.jobs {
		if job.ID == jobID {
			delete(repo.jobs, checksum)
		}
	}
	return nil
}

func (repo *fakeRepository) MarkJobDone(_ context.Context, jobID, storyID string, meta map[string]any) error {
	for _, job := range repo.jobs {
		if job.ID == jobID {
			job.Status = JobStatusDone
			job.StoryID = &storyID
			job.PayloadMeta = meta
		}
	}
	return nil
}

func (repo *fakeRepository) MarkJobError(_ context.Context, jobID, message string) error {
	for _, job := range repo.jobs {
		if job.ID == jobID {
			job.Status = JobStatusError
			job.ErrorMessage = &message
		}
	}
	return nil
}

func (repo *fakeRepository) StoryExists(_ context.Context, storyID string) (bool, error) {
	_, found := repo.stories[storyID]
	return found, nil
}

func (repo *fakeRepository) SlugExists(_ context.Context, slug string) (bool, error) {
	return repo.slugs[slug], nil
}

func (repo *fakeRepository) CountChapters(_ context.Context, storyID string) (int, error) {
	return len(repo.chapters[storyID]), nil
}

func (repo *fakeRepository) ChapterNumbers(_ context.Context, storyID string) ([]int, error) {
	var numbers []int
	for _, chapter := range repo.chapters[storyID] {
		numbers = append(numbers, chapter.Number)
	}
	return numbers, nil
}

func (repo *fakeRepository) CreateStoryGraph(_ context.Context, graph StoryGraph) (string, error) {
	repo.nextStory++
	storyID := fmt.Sprintf("story-%d", repo.nextStory)
	repo.stories[storyID] = graph
	repo.chapters[storyID] = graph.Chapters
	repo.slugs[graph.Slug] = true
	return storyID, nil
}

func (repo *fakeRepository) AddChapters(_ context.Context, storyID string, chapters []ChapterInfo) error {
	repo.chapters[storyID] = append(repo.chapters[storyID], chapters...)
	return nil
}

type fakeBlobStore struct {
	uploads map[string][]byte
	fail    bool
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{uploads: make(map[string][]byte)}
}

func (store *fakeBlobStore) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	if store.fail {
		return fmt.Errorf("upload rejected")
	}
	content, _ := io.ReadAll(reader)
	store.uploads[key] = content
	return nil
}

func (store *fakeBlobStore) Download(context.Context, string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("not implemented")
}

func (store *fakeBlobStore) Delete(context.Context, string) error { return nil }

func (store *fakeBlobStore) Exists(_ context.Context, key string) (bool, error) {
	_, found := store.uploads[key]
	return found, nil
}

func (store *fakeBlobStore) PublicURL(key string) string { return "https://cdn.test/" + key }

func (store *fakeBlobStore) Enabled() bool { return true }

// # Helpers

func newTestService(repo Repository, blobs storage.BlobStore, mode string) *Service {
	extractor := pdfx.NewExtractor(pdfx.Config{Logger: slog.Default()})
	return NewService(repo, blobs, extractor, mode, slog.Default())
}

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)
	for name, content := range files {
		entry, err := writer.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	return buffer.Bytes()
}

func validArchive(t *testing.T) []byte {
	return buildZip(t, map[string]string{
		"story.json":      string(validManifestJSON()),
		"capitulo-1.md":   "# Uno\n\nPrimer capítulo.",
		"capitulo-2.md":   "# Dos\n\nSegundo capítulo.",
		"chapters/3.md":   "# Tres\n\nTercer capítulo.",
		"cover.jpg":       "not-really-a-jpeg",
		"notes/extra.txt": "ignored",
	})
}

// # Archive Import

func TestImportArchive_HappyPath(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, newFakeBlobStore(), config.PDFModeViewer)

	result, err := service.ImportArchive(context.Background(), validArchive(t), "obra.zip")

	require.NoError(t, err)
	assert.False(t, result.AlreadyImported)
	assert.Equal(t, 3, result.ChapterCount)

	graph := repo.stories[result.StoryID]
	assert.Equal(t, "La Sombra del Viento", graph.Title)
	assert.Equal(t, "C. Ruiz", graph.AuthorPenName)
	assert.Equal(t, []string{"Drama"}, graph.Categories)
	require.Len(t, graph.Chapters, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{graph.Chapters[0].Number, graph.Chapters[1].Number, graph.Chapters[2].Number})

	// Exactly one job, now DONE and pointing at the story.
	require.Len(t, repo.jobs, 1)
	for _, job := range repo.jobs {
		assert.Equal(t, JobStatusDone, job.Status)
		require.NotNil(t, job.StoryID)
		assert.Equal(t, result.StoryID, *job.StoryID)
		assert.Equal(t, 3, job.PayloadMeta["chapter_count"])
	}
}

func TestImportArchive_IdempotentReplay(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, newFakeBlobStore(), config.PDFModeViewer)
	archive := validArchive(t)

	first, err := service.ImportArchive(context.Background(), archive, "obra.zip")
	require.NoError(t, err)

	second, err := service.ImportArchive(context.Background(), archive, "obra.zip")
	require.NoError(t, err)

	assert.Equal(t, first.StoryID, second.StoryID)
	assert.True(t, second.AlreadyImported)
	assert.Equal(t, first.ChapterCount, second.ChapterCount)
	assert.Len(t, repo.stories, 1)
}

func TestImportArchive_SelfHealsStaleDoneJob(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, newFakeBlobStore(), config.PDFModeViewer)
	archive := validArchive(t)

	first, err := service.ImportArchive(context.Background(), archive, "obra.zip")
	require.NoError(t, err)

	// The story vanishes out from under its DONE job.
	delete(repo.stories, first.StoryID)
	delete(repo.chapters, first.StoryID)

	second, err := service.ImportArchive(context.Background(), archive, "obra.zip")
	require.NoError(t, err)

	assert.NotEqual(t, first.StoryID, second.StoryID)
	assert.False(t, second.AlreadyImported)
	assert.Len(t, repo.stories, 1)
}

func TestImportArchive_RetryAfterError(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, newFakeBlobStore(), config.PDFModeViewer)

	// A broken archive leaves an ERROR job behind.
	broken := buildZip(t, map[string]string{"capitulo-1.md": "# Uno\n\ncuerpo"})
	_, err := service.ImportArchive(context.Background(), broken, "roto.zip")
	require.Error(t, err)

	checksum := Checksum(broken)
	require.Contains(t, repo.jobs, checksum)
	assert.Equal(t, JobStatusError, repo.jobs[checksum].Status)

	// Retrying identical bytes replaces the stale ERROR job. The archive is
	// still broken, so the retry fails too, but with a fresh job.
	_, err = service.ImportArchive(context.Background(), broken, "roto.zip")
	require.Error(t, err)
	assert.Equal(t, JobStatusError, repo.jobs[checksum].Status)
}

func TestImportArchive_MissingManifest(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, newFakeBlobStore(), config.PDFModeViewer)

	archive := buildZip(t, map[string]string{"capitulo-1.md": "# Uno\n\ncuerpo"})
	_, err := service.ImportArchive(context.Background(), archive, "sin-manifest.zip")

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Empty(t, repo.stories)
}

func TestImportArchive_SlugCollisionRegenerates(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, newFakeBlobStore(), config.PDFModeViewer)

	first, err := service.ImportArchive(context.Background(), validArchive(t), "obra.zip")
	require.NoError(t, err)

	// Same title, different bytes: forces a new checksum but colliding base slug.
	second, err := service.ImportArchive(context.Background(), buildZip(t, map[string]string{
		"story.json":    string(validManifestJSON()),
		"capitulo-1.md": "# Uno\n\nOtro cuerpo distinto.",
	}), "obra-v2.zip")
	require.NoError(t, err)

	assert.NotEqual(t, repo.stories[first.StoryID].Slug, repo.stories[second.StoryID].Slug)
	assert.Len(t, repo.stories, 2)
}

func TestImportArchive_UploadsCover(t *testing.T) {
	repo := newFakeRepository()
	blobs := newFakeBlobStore()
	service := newTestService(repo, blobs, config.PDFModeViewer)

	manifest := `{
		"title": "Con Portada",
		"language": "es",
		"status": "ONGOING",
		"description": "Una historia con portada incluida en el archivo.",
		"author": {"penName": "AB"},
		"coverFile": "cover.jpg"
	}`
	archive := buildZip(t, map[string]string{
		"story.json":    manifest,
		"cover.jpg":     "jpeg-bytes",
		"capitulo-1.md": "# Uno\n\ncuerpo",
	})

	result, err := service.ImportArchive(context.Background(), archive, "obra.zip")
	require.NoError(t, err)

	graph := repo.stories[result.StoryID]
	require.NotNil(t, graph.CoverURL)
	assert.Contains(t, *graph.CoverURL, "covers/")
	assert.Len(t, blobs.uploads, 1)
}

func TestImportArchive_ConcurrentChecksumRace(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, newFakeBlobStore(), config.PDFModeViewer)
	archive := validArchive(t)

	// Simulate losing the insert race: the winner finished in between.
	winnerID := "story-race"
	repo.stories[winnerID] = StoryGraph{Slug: "ganadora"}
	repo.chapters[winnerID] = []ChapterInfo{{Number: 1}}
	repo.createJobErr = &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	repo.failCreateOne = true
	repo.jobs[Checksum(archive)] = &Job{
		ID: "job-winner", Checksum: Checksum(archive), Status: JobStatusDone, StoryID: &winnerID,
	}

	result, err := service.ImportArchive(context.Background(), archive, "obra.zip")

	require.NoError(t, err)
	assert.True(t, result.AlreadyImported)
	assert.Equal(t, winnerID, result.StoryID)
	assert.Equal(t, 1, result.ChapterCount)
}

// # PDF Import

func TestImportPDF_ViewerMode(t *testing.T) {
	repo := newFakeRepository()
	blobs := newFakeBlobStore()
	service := newTestService(repo, blobs, config.PDFModeViewer)

	pdfBytes := []byte("%PDF-1.4 fake content")
	result, err := service.ImportPDF(context.Background(), pdfBytes, PDFInput{Filename: "tormenta.pdf"})

	require.NoError(t, err)
	assert.Equal(t, 1, result.ChapterCount)

	graph := repo.stories[result.StoryID]
	assert.True(t, graph.IsPDFOnly)
	assert.Equal(t, "tormenta", graph.Title)
	assert.Equal(t, "Anónimo", graph.AuthorPenName)
	require.NotNil(t, graph.SourcePDFURL)
	assert.Contains(t, *graph.SourcePDFURL, "pdfs/")
	require.Len(t, graph.Chapters, 1)
	assert.Contains(t, graph.Chapters[0].Content, "visor integrado")

	require.NotNil(t, result.SourcePDFURL)
	for _, job := range repo.jobs {
		assert.Equal(t, 1, job.PayloadMeta["chapter_count"])
		assert.Equal(t, *result.SourcePDFURL, job.PayloadMeta["source_pdf_url"])
	}
}

func TestImportPDF_StorageFailureTolerated(t *testing.T) {
	repo := newFakeRepository()
	blobs := newFakeBlobStore()
	blobs.fail = true
	service := newTestService(repo, blobs, config.PDFModeViewer)

	result, err := service.ImportPDF(context.Background(), []byte("%PDF-1.4"), PDFInput{
		Filename: "obra.pdf",
		Cover:    []byte("jpeg"), CoverFilename: "cover.jpg",
	})

	require.NoError(t, err)
	graph := repo.stories[result.StoryID]
	assert.Nil(t, graph.SourcePDFURL)
	assert.Nil(t, graph.CoverURL)
}

func TestImportPDF_DisabledStorageTolerated(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, storage.NewDisabled(), config.PDFModeViewer)

	result, err := service.ImportPDF(context.Background(), []byte("%PDF-1.4"), PDFInput{Filename: "obra.pdf"})

	require.NoError(t, err)
	graph := repo.stories[result.StoryID]
	assert.Nil(t, graph.SourcePDFURL)
}

func TestImportPDF_CoverURLFallback(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, newFakeBlobStore(), config.PDFModeViewer)

	result, err := service.ImportPDF(context.Background(), []byte("%PDF-1.4"), PDFInput{
		Filename: "obra.pdf",
		CoverURL: "https://example.com/portada.jpg",
	})

	require.NoError(t, err)
	graph := repo.stories[result.StoryID]
	require.NotNil(t, graph.CoverURL)
	assert.Equal(t, "https://example.com/portada.jpg", *graph.CoverURL)
}

func TestImportPDF_CustomMetadata(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, newFakeBlobStore(), config.PDFModeViewer)

	result, err := service.ImportPDF(context.Background(), []byte("%PDF-1.4"), PDFInput{
		Filename: "obra.pdf",
		MetaJSON: validManifestJSON(),
	})

	require.NoError(t, err)
	assert.Equal(t, "La Sombra del Viento", repo.stories[result.StoryID].Title)
}

// # Bulk Chapter Import

func TestImportChapters_Appends(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, newFakeBlobStore(), config.PDFModeViewer)

	storyID := "story-existing"
	repo.stories[storyID] = StoryGraph{}
	repo.chapters[storyID] = []ChapterInfo{{Number: 1}, {Number: 2}}

	// These renumber to 1 and 2 — a full collision with the existing rows.
	entries := []FileEntry{
		{Name: "capitulo-3.md", Data: []byte("# Tres\n\ncuerpo")},
		{Name: "capitulo-4.md", Data: []byte("# Cuatro\n\ncuerpo")},
	}

	_, err := service.ImportChapters(context.Background(), storyID, entries)

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
	assert.ElementsMatch(t, []int{1, 2}, ae.Meta["conflicts"])
	// Nothing persisted.
	assert.Len(t, repo.chapters[storyID], 2)
}

func TestImportChapters_NoConflict(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, newFakeBlobStore(), config.PDFModeViewer)

	storyID := "story-existing"
	repo.stories[storyID] = StoryGraph{}
	repo.chapters[storyID] = []ChapterInfo{{Number: 8}, {Number: 9}}

	result, err := service.ImportChapters(context.Background(), storyID, []FileEntry{
		{Name: "capitulo-1.md", Data: []byte("# Uno\n\ncuerpo")},
		{Name: "capitulo-2.md", Data: []byte("# Dos\n\ncuerpo")},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.ChaptersAdded)
	assert.Len(t, repo.chapters[storyID], 4)
}

func TestImportChapters_UnknownStory(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, newFakeBlobStore(), config.PDFModeViewer)

	_, err := service.ImportChapters(context.Background(), "missing", []FileEntry{
		{Name: "1.md", Data: []byte("cuerpo")},
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}
