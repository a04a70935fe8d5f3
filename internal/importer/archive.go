// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package importer

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"

	"github.com/velmoras/lectoria/internal/platform/apperr"
)

// manifestFilename is the required top-level descriptor of an import archive.
const manifestFilename = "story.json"

// maxEntryBytes caps a single decompressed archive entry. Guards against
// zip bombs inflating a chapter file to gigabytes.
const maxEntryBytes = 16 << 20

// Archive is a decoded import ZIP held in memory.
type Archive struct {
	files map[string][]byte
	order []string
}

// OpenArchive decodes a ZIP buffer, reading every regular file into memory
// in archive order. Directory entries are skipped.
func OpenArchive(buffer []byte) (*Archive, error) {
	reader, err := zip.NewReader(bytes.NewReader(buffer), int64(len(buffer)))
	if err != nil {
		return nil, apperr.ValidationError("Uploaded file is not a valid ZIP archive")
	}

	archive := &Archive{files: make(map[string][]byte)}

	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}

		name := strings.TrimPrefix(file.Name, "./")

		content, err := readEntry(file)
		if err != nil {
			return nil, err
		}

		if _, seen := archive.files[name]; !seen {
			archive.order = append(archive.order, name)
		}
		archive.files[name] = content
	}

	return archive, nil
}

func readEntry(file *zip.File) ([]byte, error) {
	entry, err := file.Open()
	if err != nil {
		return nil, apperr.ValidationError("Archive entry " + file.Name + " cannot be read")
	}
	defer entry.Close()

	content, err := io.ReadAll(io.LimitReader(entry, maxEntryBytes+1))
	if err != nil {
		return nil, apperr.ValidationError("Archive entry " + file.Name + " cannot be read")
	}

	if len(content) > maxEntryBytes {
		return nil, apperr.ValidationError("Archive entry " + file.Name + " exceeds the maximum entry size")
	}

	return content, nil
}

// Manifest returns the raw story.json bytes, or false when absent.
func (archive *Archive) Manifest() ([]byte, bool) {
	content, found := archive.files[manifestFilename]
	return content, found
}

// File returns the content of a named entry, or false when absent.
func (archive *Archive) File(name string) ([]byte, bool) {
	content, found := archive.files[name]
	return content, found
}

// ChapterEntries returns every valid chapter file in archive order.
func (archive *Archive) ChapterEntries() []FileEntry {
	var entries []FileEntry
	for _, name := range archive.order {
		if IsValidChapterFile(name) {
			entries = append(entries, FileEntry{Name: name, Data: archive.files[name]})
		}
	}
	return entries
}
