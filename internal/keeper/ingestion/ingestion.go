// Package ingestion turns analysis verdict JSON files into storable
// AnalysisFile records: read, hash, parse, and project fields.
package ingestion

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"gorm.io/datatypes"

	"golang-verdict-keeper/internal/entity"
)

// IngestFile reads, hashes, and projects a single analysis JSON file.
// The stored path is absolute so the same file ingested from different
// working directories keys the same row. Any failure returns a typed
// *Error and no partial result.
func IngestFile(path string) (*entity.AnalysisFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, newError(KindInvalidInput, path, err)
	}

	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, newError(KindNotFound, path, err)
	}
	if err != nil {
		return nil, newError(KindReadFailure, path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, newError(KindInvalidInput, path, errors.New("not a regular file"))
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, newError(KindReadFailure, path, err)
	}
	// json.Unmarshal silently replaces invalid UTF-8 instead of failing,
	// so the encoding check has to happen before parsing.
	if !utf8.Valid(content) {
		return nil, newError(KindReadFailure, path, errors.New("content is not valid UTF-8"))
	}

	var doc any
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, newError(KindParseFailure, path, err)
	}

	file := &entity.AnalysisFile{
		FilePath:    abs,
		ContentHash: HashContent(content),
		JSONContent: datatypes.JSON(content),
	}
	file.FileCreatedAt, file.FileModifiedAt = statTimes(info)
	extractFields(doc, file)
	return file, nil
}

// ValidateFile reports whether the file would ingest cleanly: it exists,
// is a regular file, and holds parseable UTF-8 JSON.
func ValidateFile(path string) bool {
	_, err := IngestFile(path)
	return err == nil
}
