package reader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harborview/concierge/schema"
)

// TextReader loads plain text and markdown files, one document per file.
type TextReader struct {
	paths []string
}

// NewTextReader creates a reader over the given file paths.
func NewTextReader(paths ...string) *TextReader {
	return &TextReader{paths: paths}
}

func (r *TextReader) Load(ctx context.Context) ([]schema.Document, error) {
	docs := make([]schema.Document, 0, len(r.paths))
	for _, path := range r.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := r.loadFile(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *TextReader) loadFile(path string) (schema.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return schema.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	metadata := map[string]string{
		schema.MetaSource: filepath.Base(path),
	}
	if title := markdownTitle(path, string(content)); title != "" {
		metadata[schema.MetaTitle] = title
	}
	return schema.NewDocument(string(content), metadata), nil
}

// markdownTitle returns the first top-level heading of a markdown file,
// or "" for other files or headingless content.
func markdownTitle(path, content string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
	default:
		return ""
	}
	for _, line := range strings.Split(content, "\n") {
		if rest, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

var _ Reader = (*TextReader)(nil)
