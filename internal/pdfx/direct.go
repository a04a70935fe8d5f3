// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package pdfx

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// extractDirect reads the embedded text layer with a structural PDF parser.
//
// It fails (recoverably) when the document cannot be opened or when no page
// carries extractable text, which routes scanned documents towards OCR.
func (extractor *Extractor) extractDirect(ctx context.Context, buffer []byte) ([]PageText, error) {
	reader, err := pdf.NewReader(bytes.NewReader(buffer), int64(len(buffer)))
	if err != nil {
		return nil, fmt.Errorf("pdfx: direct parse failed to open document: %w", err)
	}

	pageCount := reader.NumPage()
	if pageCount < 1 {
		return nil, fmt.Errorf("pdfx: direct parse found no pages")
	}

	pages := make([]PageText, 0, pageCount)

	for pageNumber := 1; pageNumber <= pageCount; pageNumber++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(pageNumber)
		if page.V.IsNull() {
			pages = append(pages, PageText{Index: pageNumber, Text: ""})
			continue
		}

		rawText, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page does not fail the stage.
			pages = append(pages, PageText{Index: pageNumber, Text: ""})
			continue
		}

		pages = append(pages, PageText{Index: pageNumber, Text: CleanPageText(rawText)})
	}

	if !hasMeaningfulText(pages) {
		return nil, errNoTextLayer
	}

	return pages, nil
}
