// Package reader loads knowledge base source files into documents.
package reader

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/harborview/concierge/schema"
	"github.com/harborview/concierge/textsplitter"
)

// Reader loads documents from some source.
type Reader interface {
	Load(ctx context.Context) ([]schema.Document, error)
}

// FormatForPath maps a file extension to the splitter format best suited
// to its content.
func FormatForPath(path string) textsplitter.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return textsplitter.FormatMarkdown
	case ".json":
		return textsplitter.FormatQA
	default:
		return textsplitter.FormatPlain
	}
}
