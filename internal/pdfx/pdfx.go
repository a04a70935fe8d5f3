// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

/*
Package pdfx extracts readable text from PDF buffers and splits it into
chapter blocks.

# Architecture

Extraction is organized as an ordered list of strategies, each returning
either a page list or a recoverable failure. A single driver walks the list:

 1. Direct structural parse (text layer via ledongthuc/pdf).
 2. Tolerant structural parse (MuPDF via go-fitz, survives encrypted and
    mildly corrupt documents).
 3. OCR (go-fitz page rendering piped through Tesseract, eng+spa).
 4. Page-count estimation with advisory placeholder pages.
 5. A terminal single-page placeholder.

The driver never returns an error: stage 5 always succeeds, so callers are
guaranteed a non-empty page list for any input whatsoever.
*/
package pdfx

// PageText is the text of a single PDF page after cleanup.
type PageText struct {
	Index int    // 1-based page number
	Text  string
}

// ChapterBlock is a contiguous page range attributed to one detected heading.
type ChapterBlock struct {
	Number   int
	Title    string
	Text     string
	PageFrom int
	PageTo   int
}
