// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package pdfx

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
)

// extractOCR rasterizes every page and runs Tesseract recognition.
//
// The whole stage runs under the configured wall-clock budget; exhausting it
// is a recoverable failure that advances the driver to the estimation
// fallback. A failure on an individual page only yields a placeholder for
// that page, never aborting the document.
func (extractor *Extractor) extractOCR(ctx context.Context, buffer []byte) ([]PageText, error) {
	budgetCtx, cancel := context.WithTimeout(ctx, extractor.ocrBudget)
	defer cancel()

	document, err := fitz.NewFromMemory(buffer)
	if err != nil {
		return nil, fmt.Errorf("pdfx: ocr failed to open document: %w", err)
	}
	defer document.Close()

	pageCount := document.NumPage()
	if pageCount < 1 {
		return nil, fmt.Errorf("pdfx: ocr found no pages")
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(extractor.ocrLanguages...); err != nil {
		return nil, fmt.Errorf("pdfx: ocr failed to configure languages: %w", err)
	}

	pages := make([]PageText, 0, pageCount)

	for pageIndex := 0; pageIndex < pageCount; pageIndex++ {
		if err := budgetCtx.Err(); err != nil {
			return nil, fmt.Errorf("pdfx: ocr budget exhausted at page %d/%d: %w", pageIndex+1, pageCount, err)
		}

		pageText, err := recognizePage(client, document, pageIndex)
		if err != nil {
			extractor.logger.WarnContext(budgetCtx, "ocr_page_failed",
				slog.Int("page", pageIndex+1),
				slog.Any("error", err),
			)
			pages = append(pages, PageText{
				Index: pageIndex + 1,
				Text:  ocrPagePlaceholder(pageIndex + 1),
			})
			continue
		}

		pages = append(pages, PageText{Index: pageIndex + 1, Text: pageText})
	}

	return pages, nil
}

func recognizePage(client *gosseract.Client, document *fitz.Document, pageIndex int) (string, error) {
	imageBytes, err := renderPagePNG(document, pageIndex)
	if err != nil {
		return "", err
	}

	if err := client.SetImageFromBytes(imageBytes); err != nil {
		return "", fmt.Errorf("pdfx: failed to load page %d into tesseract: %w", pageIndex+1, err)
	}

	recognized, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("pdfx: recognition failed on page %d: %w", pageIndex+1, err)
	}

	return CleanPageText(recognized), nil
}

// ocrPagePlaceholder is the diagnostic body substituted for a page that OCR
// could not process.
func ocrPagePlaceholder(pageNumber int) string {
	return fmt.Sprintf("# Página %d\n\nNo fue posible procesar esta página con OCR.", pageNumber)
}
