package reader

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/harborview/concierge/schema"
)

// DirectoryReader walks a directory and loads every supported file,
// dispatching by extension: markdown and plain text, JSON Q&A records,
// and PDF. Unsupported files are skipped.
type DirectoryReader struct {
	dir       string
	recursive bool
}

// NewDirectoryReader creates a reader over a directory.
func NewDirectoryReader(dir string, recursive bool) *DirectoryReader {
	return &DirectoryReader{dir: dir, recursive: recursive}
}

func (r *DirectoryReader) Load(ctx context.Context) ([]schema.Document, error) {
	var docs []schema.Document

	err := filepath.WalkDir(r.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != r.dir && !r.recursive {
				return filepath.SkipDir
			}
			return nil
		}

		fileReader, ok := ForFile(path)
		if !ok {
			return nil
		}
		fileDocs, err := fileReader.Load(ctx)
		if err != nil {
			return err
		}
		docs = append(docs, fileDocs...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", r.dir, err)
	}
	return docs, nil
}

// ForFile returns the reader for a file based on its extension, or
// false when the file type is unsupported.
func ForFile(path string) (Reader, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".txt":
		return NewTextReader(path), true
	case ".json":
		return NewQAReader(path), true
	case ".pdf":
		return NewPDFReader(path), true
	}
	return nil, false
}

var _ Reader = (*DirectoryReader)(nil)
