// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package pdfx

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// Page rendering bounds for the OCR stage.
const (
	// renderDPI targets a resolution high enough for reliable recognition.
	renderDPI = 300.0

	// maxRenderEdge caps the longer edge of a rendered page bitmap.
	maxRenderEdge = 2000.0
)

// extractTolerant reads the text layer through MuPDF, which opens encrypted
// and mildly corrupt documents that the structural parser rejects.
func (extractor *Extractor) extractTolerant(ctx context.Context, buffer []byte) ([]PageText, error) {
	document, err := fitz.NewFromMemory(buffer)
	if err != nil {
		return nil, fmt.Errorf("pdfx: tolerant parse failed to open document: %w", err)
	}
	defer document.Close()

	pageCount := document.NumPage()
	if pageCount < 1 {
		return nil, fmt.Errorf("pdfx: tolerant parse found no pages")
	}

	pages := make([]PageText, 0, pageCount)

	for pageIndex := 0; pageIndex < pageCount; pageIndex++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rawText, err := document.Text(pageIndex)
		if err != nil {
			pages = append(pages, PageText{Index: pageIndex + 1, Text: ""})
			continue
		}

		pages = append(pages, PageText{Index: pageIndex + 1, Text: CleanPageText(rawText)})
	}

	if !hasMeaningfulText(pages) {
		return nil, errNoTextLayer
	}

	return pages, nil
}

// renderPagePNG rasterizes one page for OCR, scaling the DPI down so the
// bitmap never exceeds maxRenderEdge on either side.
func renderPagePNG(document *fitz.Document, pageIndex int) ([]byte, error) {
	dpi := renderDPI

	bounds, err := document.Bound(pageIndex)
	if err == nil {
		// Bounds are in points (1/72 inch).
		widthInches := float64(bounds.Dx()) / 72.0
		heightInches := float64(bounds.Dy()) / 72.0

		longestEdgeInches := widthInches
		if heightInches > longestEdgeInches {
			longestEdgeInches = heightInches
		}

		if longestEdgeInches > 0 && longestEdgeInches*dpi > maxRenderEdge {
			dpi = maxRenderEdge / longestEdgeInches
		}
	}

	imageBytes, err := document.ImagePNG(pageIndex, dpi)
	if err != nil {
		return nil, fmt.Errorf("pdfx: failed to render page %d: %w", pageIndex+1, err)
	}

	return imageBytes, nil
}
