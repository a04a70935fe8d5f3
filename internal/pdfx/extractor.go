// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package pdfx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Default extraction tuning.
const (
	// DefaultOCRBudget bounds the wall-clock time of the OCR stage. OCR over
	// a large scanned book is otherwise unbounded.
	DefaultOCRBudget = 5 * time.Minute

	// estimatedBytesPerPage is the empirical ratio used by the estimation
	// fallback when no stage could read the document.
	estimatedBytesPerPage = 75000
)

// errNoTextLayer marks a structurally valid PDF whose pages carry no
// extractable text (typically a pure scan). It sends the driver to OCR.
var errNoTextLayer = errors.New("pdfx: document has no extractable text layer")

// Config tunes the staged extractor.
type Config struct {
	// OCRLanguages are Tesseract language codes, e.g. ["eng", "spa"].
	OCRLanguages []string

	// OCRBudget is the wall-clock budget for the whole OCR stage.
	// Zero means DefaultOCRBudget.
	OCRBudget time.Duration

	Logger *slog.Logger
}

// Extractor walks the ordered strategy list until one yields pages.
type Extractor struct {
	ocrLanguages []string
	ocrBudget    time.Duration
	logger       *slog.Logger
}

// NewExtractor creates a staged extractor.
func NewExtractor(cfg Config) *Extractor {
	languages := cfg.OCRLanguages
	if len(languages) == 0 {
		languages = []string{"eng", "spa"}
	}

	budget := cfg.OCRBudget
	if budget <= 0 {
		budget = DefaultOCRBudget
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Extractor{
		ocrLanguages: languages,
		ocrBudget:    budget,
		logger:       logger,
	}
}

// strategy is one stage of the fallback chain. It returns the extracted
// pages or a recoverable failure that advances the driver to the next stage.
type strategy struct {
	name string
	run  func(ctx context.Context, buffer []byte) ([]PageText, error)
}

// ExtractPagesText obtains page-level text from a PDF buffer.
//
// The returned slice is never empty and the method never returns an error:
// the terminal placeholder stage succeeds on any input. Callers that care
// about extraction quality can inspect the result, not an error value.
func (extractor *Extractor) ExtractPagesText(ctx context.Context, buffer []byte) []PageText {
	strategies := []strategy{
		{name: "direct", run: extractor.extractDirect},
		{name: "tolerant", run: extractor.extractTolerant},
		{name: "ocr", run: extractor.extractOCR},
		{name: "estimate", run: extractor.extractEstimated},
	}

	for _, candidate := range strategies {
		pages, err := runStrategy(ctx, candidate, buffer)
		if err == nil && len(pages) > 0 {
			extractor.logger.InfoContext(ctx, "pdf_extraction_succeeded",
				slog.String("strategy", candidate.name),
				slog.Int("pages", len(pages)),
			)
			return pages
		}

		extractor.logger.WarnContext(ctx, "pdf_extraction_stage_failed",
			slog.String("strategy", candidate.name),
			slog.Any("error", err),
		)
	}

	// Terminal recovery point: one advisory page, no error.
	extractor.logger.ErrorContext(ctx, "pdf_extraction_exhausted_all_stages")
	return []PageText{{Index: 1, Text: catastrophicPlaceholder()}}
}

// runStrategy isolates a stage. Some PDF parsers panic on malformed input,
// and a panic in one stage must read as a recoverable failure, not a crash.
func runStrategy(ctx context.Context, candidate strategy, buffer []byte) (pages []PageText, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			pages = nil
			err = fmt.Errorf("pdfx: strategy %s panicked: %v", candidate.name, recovered)
		}
	}()

	return candidate.run(ctx, buffer)
}

// hasMeaningfulText reports whether any page carries non-blank text.
// A structurally valid scan produces a full page list of empty strings.
func hasMeaningfulText(pages []PageText) bool {
	for _, page := range pages {
		if len(page.Text) > 0 {
			return true
		}
	}
	return false
}
