// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package importer

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/velmoras/lectoria/internal/platform/apperr"
	"github.com/velmoras/lectoria/internal/platform/config"
	"github.com/velmoras/lectoria/internal/platform/dberr"
	"github.com/velmoras/lectoria/internal/platform/storage"
	"github.com/velmoras/lectoria/internal/pdfx"
	"github.com/velmoras/lectoria/pkg/slug"
)

// slugAttempts bounds slug regeneration on collision before giving up.
const slugAttempts = 5

// Service orchestrates the import pipeline: dedup, job lifecycle, parsing,
// extraction, blob uploads, and transactional persistence.
type Service struct {
	repo      Repository
	blobs     storage.BlobStore
	extractor *pdfx.Extractor
	pdfMode   string
	logger    *slog.Logger
}

// NewService wires the import orchestrator.
//
// # Parameters
//   - repo: persistence for jobs and story graphs.
//   - blobs: blob store for covers and source PDFs (may be disabled).
//   - extractor: staged PDF text extractor.
//   - pdfMode: config.PDFModeViewer or config.PDFModeExtract.
func NewService(repo Repository, blobs storage.BlobStore, extractor *pdfx.Extractor, pdfMode string, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		blobs:     blobs,
		extractor: extractor,
		pdfMode:   pdfMode,
		logger:    logger,
	}
}

// Checksum returns the hex SHA-1 digest used as the deduplication key.
func Checksum(buffer []byte) string {
	digest := sha1.Sum(buffer)
	return hex.EncodeToString(digest[:])
}

// # Archive Import

// ImportArchive ingests a ZIP archive into a new story.
func (service *Service) ImportArchive(ctx context.Context, buffer []byte, filename string) (*Result, error) {
	job, shortCircuit, err := service.resolveJob(ctx, Checksum(buffer), JobKindArchive, filename)
	if err != nil {
		return nil, err
	}
	if shortCircuit != nil {
		return shortCircuit, nil
	}

	result, err := service.runArchiveImport(ctx, job, buffer)
	if err != nil {
		service.failJob(ctx, job, err)
		return nil, err
	}

	if err := service.repo.MarkJobDone(ctx, job.ID, result.StoryID, jobMeta(result)); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "archive_import_done",
		slog.String("job_id", job.ID),
		slog.String("story_id", result.StoryID),
		slog.Int("chapters", result.ChapterCount),
	)

	return result, nil
}

func (service *Service) runArchiveImport(ctx context.Context, job *Job, buffer []byte) (*Result, error) {
	archive, err := OpenArchive(buffer)
	if err != nil {
		return nil, err
	}

	manifestBytes, found := archive.Manifest()
	if !found {
		return nil, apperr.ValidationError("Archive is missing the story.json manifest")
	}

	manifest, err := ParseManifest(manifestBytes)
	if err != nil {
		return nil, err
	}

	storySlug, err := service.resolveSlug(ctx, manifest.Title, manifest.Slug)
	if err != nil {
		return nil, err
	}

	coverURL, err := service.uploadArchiveCover(ctx, archive, manifest, storySlug)
	if err != nil {
		return nil, err
	}

	chapters := ProcessChapterFiles(archive.ChapterEntries())

	storyID, err := service.repo.CreateStoryGraph(ctx, StoryGraph{
		Slug:          storySlug,
		Title:         manifest.Title,
		Description:   manifest.Description,
		Language:      manifest.Language,
		Status:        manifest.Status,
		ManualRating:  manifest.ManualRating,
		CoverURL:      coverURL,
		AuthorPenName: manifest.Author.PenName,
		AuthorBio:     manifest.Author.Bio,
		Categories:    manifest.Categories,
		Tags:          manifest.Tags,
		Chapters:      chapters,
	})
	if err != nil {
		return nil, err
	}

	return &Result{StoryID: storyID, ChapterCount: len(chapters)}, nil
}

// uploadArchiveCover stores a referenced cover image. A missing reference or
// a disabled blob store leaves the cover unset; a real upload failure is
// fatal on the archive path.
func (service *Service) uploadArchiveCover(ctx context.Context, archive *Archive, manifest *Manifest, storySlug string) (*string, error) {
	if manifest.CoverFile == "" {
		return nil, nil
	}

	coverBytes, found := archive.File(manifest.CoverFile)
	if !found {
		return nil, nil
	}

	key := storage.CoverKey(storySlug, strings.ToLower(path.Ext(manifest.CoverFile)))
	err := service.blobs.Upload(ctx, key, bytes.NewReader(coverBytes), int64(len(coverBytes)), coverContentType(manifest.CoverFile))
	if err != nil {
		if errors.Is(err, storage.ErrDisabled) {
			service.logger.WarnContext(ctx, "cover_upload_skipped_storage_disabled", slog.String("slug", storySlug))
			return nil, nil
		}
		return nil, apperr.ImportFailed("Cover upload failed: " + err.Error())
	}

	url := service.blobs.PublicURL(key)
	return &url, nil
}

// # PDF Import

// PDFInput carries the optional parts of a PDF import request.
type PDFInput struct {
	Filename string

	// MetaJSON is an optional manifest blob; defaults are synthesized from
	// the filename when absent.
	MetaJSON []byte

	// Cover is an optional uploaded cover image.
	Cover         []byte
	CoverFilename string

	// CoverURL is used when no cover file was uploaded.
	CoverURL string
}

// ImportPDF ingests a single PDF into a new story.
//
// Depending on the configured mode the story gets either one synthetic
// viewer chapter pointing at the stored PDF, or real chapters produced by
// staged extraction and heading-based splitting.
func (service *Service) ImportPDF(ctx context.Context, buffer []byte, input PDFInput) (*Result, error) {
	job, shortCircuit, err := service.resolveJob(ctx, Checksum(buffer), JobKindPDF, input.Filename)
	if err != nil {
		return nil, err
	}
	if shortCircuit != nil {
		return shortCircuit, nil
	}

	result, err := service.runPDFImport(ctx, buffer, input)
	if err != nil {
		service.failJob(ctx, job, err)
		return nil, err
	}

	if err := service.repo.MarkJobDone(ctx, job.ID, result.StoryID, jobMeta(result)); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "pdf_import_done",
		slog.String("job_id", job.ID),
		slog.String("story_id", result.StoryID),
		slog.String("mode", service.pdfMode),
		slog.Int("chapters", result.ChapterCount),
	)

	return result, nil
}

func (service *Service) runPDFImport(ctx context.Context, buffer []byte, input PDFInput) (*Result, error) {
	manifest, err := service.resolvePDFManifest(input)
	if err != nil {
		return nil, err
	}

	storySlug, err := service.resolveSlug(ctx, manifest.Title, manifest.Slug)
	if err != nil {
		return nil, err
	}

	// Cover and PDF uploads are best-effort on the PDF path: the story
	// proceeds without them on failure.
	coverURL := service.uploadPDFCover(ctx, input, storySlug)
	sourcePDFURL := service.uploadSourcePDF(ctx, buffer, storySlug)

	var chapters []ChapterInfo
	isPDFOnly := false

	if service.pdfMode == config.PDFModeExtract {
		chapters = service.extractChapters(ctx, buffer, manifest.Language)
	} else {
		chapters = []ChapterInfo{viewerChapter(manifest.Title)}
		isPDFOnly = true
	}

	storyID, err := service.repo.CreateStoryGraph(ctx, StoryGraph{
		Slug:          storySlug,
		Title:         manifest.Title,
		Description:   manifest.Description,
		Language:      manifest.Language,
		Status:        manifest.Status,
		ManualRating:  manifest.ManualRating,
		CoverURL:      coverURL,
		SourcePDFURL:  sourcePDFURL,
		IsPDFOnly:     isPDFOnly,
		AuthorPenName: manifest.Author.PenName,
		AuthorBio:     manifest.Author.Bio,
		Categories:    manifest.Categories,
		Tags:          manifest.Tags,
		Chapters:      chapters,
	})
	if err != nil {
		return nil, err
	}

	return &Result{StoryID: storyID, ChapterCount: len(chapters), SourcePDFURL: sourcePDFURL}, nil
}

func (service *Service) resolvePDFManifest(input PDFInput) (*Manifest, error) {
	if len(input.MetaJSON) > 0 {
		return ParseManifest(input.MetaJSON)
	}

	manifest := DefaultPDFManifest(input.Filename)
	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	return &manifest, nil
}

func (service *Service) uploadPDFCover(ctx context.Context, input PDFInput, storySlug string) *string {
	if len(input.Cover) > 0 {
		key := storage.CoverKey(storySlug, strings.ToLower(path.Ext(input.CoverFilename)))
		err := service.blobs.Upload(ctx, key, bytes.NewReader(input.Cover), int64(len(input.Cover)), coverContentType(input.CoverFilename))
		if err != nil {
			service.logger.WarnContext(ctx, "pdf_cover_upload_failed",
				slog.String("slug", storySlug), slog.Any("error", err))
			return nil
		}
		url := service.blobs.PublicURL(key)
		return &url
	}

	if input.CoverURL != "" {
		url := input.CoverURL
		return &url
	}

	return nil
}

func (service *Service) uploadSourcePDF(ctx context.Context, buffer []byte, storySlug string) *string {
	key := storage.PDFKey(storySlug)
	err := service.blobs.Upload(ctx, key, bytes.NewReader(buffer), int64(len(buffer)), "application/pdf")
	if err != nil {
		service.logger.WarnContext(ctx, "source_pdf_upload_failed",
			slog.String("slug", storySlug), slog.Any("error", err))
		return nil
	}

	url := service.blobs.PublicURL(key)
	return &url
}

func (service *Service) extractChapters(ctx context.Context, buffer []byte, language string) []ChapterInfo {
	pages := service.extractor.ExtractPagesText(ctx, buffer)
	blocks := pdfx.SplitChaptersByHeadings(pages, pdfx.SplitOptions{Language: language})

	chapters := make([]ChapterInfo, 0, len(blocks))
	for _, block := range blocks {
		chapters = append(chapters, ChapterInfo{
			Number:  block.Number,
			Title:   block.Title,
			Content: pdfx.ToMarkdown(block.Title, block.Text),
		})
	}

	return chapters
}

// viewerChapter is the single synthetic chapter created in viewer mode. It
// defers actual content display to the embedded PDF viewer.
func viewerChapter(title string) ChapterInfo {
	return ChapterInfo{
		Number: 1,
		Title:  title,
		Content: "# " + title + "\n\n" +
			"Esta obra fue importada desde un PDF. Utiliza el visor integrado " +
			"para leer el contenido original con su maquetación completa.",
	}
}

// # Bulk Chapter Import

// ImportChapters appends parsed chapter files to an existing story.
//
// The parser renumbers the batch 1..N, so the conflict check runs against
// the post-renumbering sequence. Any collision with existing chapter numbers
// rejects the whole batch before a transaction is opened.
func (service *Service) ImportChapters(ctx context.Context, storyID string, entries []FileEntry) (*BulkResult, error) {
	exists, err := service.repo.StoryExists(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("Story")
	}

	if len(entries) == 0 {
		return nil, apperr.ValidationError("Archive contains no chapter files")
	}

	chapters := ProcessChapterFiles(entries)

	existingNumbers, err := service.repo.ChapterNumbers(ctx, storyID)
	if err != nil {
		return nil, err
	}

	existing := make(map[int]bool, len(existingNumbers))
	for _, number := range existingNumbers {
		existing[number] = true
	}

	var conflicts []int
	for _, chapter := range chapters {
		if existing[chapter.Number] {
			conflicts = append(conflicts, chapter.Number)
		}
	}

	if len(conflicts) > 0 {
		return nil, apperr.Conflict("Chapter numbers already exist on this story").
			WithMeta("conflicts", conflicts)
	}

	if err := service.repo.AddChapters(ctx, storyID, chapters); err != nil {
		return nil, err
	}

	return &BulkResult{ChaptersAdded: len(chapters)}, nil
}

// # Job Resolution

// resolveJob applies the per-checksum state machine and leaves a fresh
// PENDING job in place unless the import short-circuits.
//
//   - DONE with a live story: return the existing result, no re-processing.
//   - DONE with a missing story: corrupt state, delete the job and re-import.
//   - ERROR: delete the stale job and retry.
//   - PENDING: another request is processing the same bytes right now.
func (service *Service) resolveJob(ctx context.Context, checksum, kind, filename string) (*Job, *Result, error) {
	existing, err := service.repo.GetJobByChecksum(ctx, checksum)

	switch {
	case err != nil && errors.Is(err, dberr.ErrNotFound):
		// First sighting of these bytes.

	case err != nil:
		return nil, nil, err

	case existing.Status == JobStatusDone:
		result, healed, err := service.reuseDoneJob(ctx, existing)
		if err != nil {
			return nil, nil, err
		}
		if !healed {
			return nil, result, nil
		}
		// Stale DONE job removed; fall through to a fresh import.

	case existing.Status == JobStatusError:
		if err := service.repo.DeleteJob(ctx, existing.ID); err != nil {
			return nil, nil, err
		}

	default: // PENDING
		return nil, nil, apperr.Conflict("An import of this exact file is already in progress")
	}

	job := &Job{Checksum: checksum, Filename: filename, Kind: kind, Status: JobStatusPending}

	if err := service.repo.CreateJob(ctx, job); err != nil {
		if dberr.IsUniqueViolation(err) {
			// Lost the race on the checksum: re-read the winning job.
			return service.recoverLostRace(ctx, checksum)
		}
		return nil, nil, dberr.Wrap(err, "create_import_job")
	}

	return job, nil, nil
}

// reuseDoneJob validates a DONE job's story reference. It returns the
// short-circuit result, or healed=true after deleting a job whose story
// no longer exists.
func (service *Service) reuseDoneJob(ctx context.Context, job *Job) (*Result, bool, error) {
	if job.StoryID != nil {
		alive, err := service.repo.StoryExists(ctx, *job.StoryID)
		if err != nil {
			return nil, false, err
		}

		if alive {
			count, err := service.repo.CountChapters(ctx, *job.StoryID)
			if err != nil {
				return nil, false, err
			}
			return &Result{StoryID: *job.StoryID, ChapterCount: count, AlreadyImported: true}, false, nil
		}
	}

	// DONE without a resolvable story is corrupt state: never trust it.
	service.logger.WarnContext(ctx, "import_job_self_healed",
		slog.String("job_id", job.ID),
		slog.String("checksum", job.Checksum),
	)

	if err := service.repo.DeleteJob(ctx, job.ID); err != nil {
		return nil, false, err
	}

	return nil, true, nil
}

// recoverLostRace re-reads the job that won a concurrent create on the same
// checksum. A finished winner yields its result; anything else reports the
// in-flight conflict.
func (service *Service) recoverLostRace(ctx context.Context, checksum string) (*Job, *Result, error) {
	winner, err := service.repo.GetJobByChecksum(ctx, checksum)
	if err != nil {
		return nil, nil, err
	}

	if winner.Status == JobStatusDone && winner.StoryID != nil {
		count, err := service.repo.CountChapters(ctx, *winner.StoryID)
		if err != nil {
			return nil, nil, err
		}
		return nil, &Result{StoryID: *winner.StoryID, ChapterCount: count, AlreadyImported: true}, nil
	}

	return nil, nil, apperr.Conflict("An import of this exact file is already in progress")
}

// jobMeta builds the payload metadata persisted on a DONE job.
func jobMeta(result *Result) map[string]any {
	meta := map[string]any{"chapter_count": result.ChapterCount}
	if result.SourcePDFURL != nil {
		meta["source_pdf_url"] = *result.SourcePDFURL
	}
	return meta
}

func (service *Service) failJob(ctx context.Context, job *Job, cause error) {
	if err := service.repo.MarkJobError(ctx, job.ID, cause.Error()); err != nil {
		service.logger.ErrorContext(ctx, "mark_job_error_failed",
			slog.String("job_id", job.ID), slog.Any("error", err))
	}
}

// # Slug Resolution

// resolveSlug picks a unique story slug: the provided one when available,
// else one derived from the title; collisions regenerate the random suffix.
func (service *Service) resolveSlug(ctx context.Context, title, provided string) (string, error) {
	candidate := provided
	if candidate == "" {
		candidate = slug.New(title)
	}

	for attempt := 0; attempt < slugAttempts; attempt++ {
		taken, err := service.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = slug.New(title)
	}

	return "", apperr.Conflict(fmt.Sprintf("Could not find a free slug for %q", title))
}

func coverContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
