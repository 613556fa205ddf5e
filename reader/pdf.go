package reader

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/ledongthuc/pdf"

	"github.com/harborview/concierge/schema"
)

// PDFReader extracts plain text from PDF files, one document per file.
type PDFReader struct {
	paths []string
}

// NewPDFReader creates a reader over the given PDF file paths.
func NewPDFReader(paths ...string) *PDFReader {
	return &PDFReader{paths: paths}
}

func (r *PDFReader) Load(ctx context.Context) ([]schema.Document, error) {
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

func (r *PDFReader) loadFile(path string) (schema.Document, error) {
	f, rd, err := pdf.Open(path)
	if err != nil {
		return schema.Document{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	plain, err := rd.GetPlainText()
	if err != nil {
		return schema.Document{}, fmt.Errorf("extracting text from %s: %w", path, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return schema.Document{}, fmt.Errorf("extracting text from %s: %w", path, err)
	}

	return schema.NewDocument(buf.String(), map[string]string{
		schema.MetaSource: filepath.Base(path),
	}), nil
}

var _ Reader = (*PDFReader)(nil)
