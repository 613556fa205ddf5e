package reader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harborview/concierge/schema"
)

// qaRecord is one question/answer entry in a knowledge base JSON file.
type qaRecord struct {
	Question string            `json:"question"`
	Answer   string            `json:"answer"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// QAReader loads JSON files containing arrays of question/answer
// records. Each record becomes one document tagged as a Q&A pair, which
// the splitter treats as atomic when it is short enough.
type QAReader struct {
	paths []string
}

// NewQAReader creates a reader over the given JSON file paths.
func NewQAReader(paths ...string) *QAReader {
	return &QAReader{paths: paths}
}

func (r *QAReader) Load(ctx context.Context) ([]schema.Document, error) {
	var docs []schema.Document
	for _, path := range r.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fileDocs, err := r.loadFile(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, fileDocs...)
	}
	return docs, nil
}

func (r *QAReader) loadFile(path string) ([]schema.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var records []qaRecord
	if err := json.Unmarshal(content, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	docs := make([]schema.Document, 0, len(records))
	for i, record := range records {
		if record.Question == "" || record.Answer == "" {
			return nil, fmt.Errorf("parsing %s: record %d is missing question or answer", path, i)
		}

		meta := map[string]string{
			schema.MetaSource: filepath.Base(path),
			schema.MetaType:   schema.TypeQAPair,
		}
		for k, v := range record.Metadata {
			meta[k] = v
		}

		text := "Q: " + record.Question + "\nA: " + record.Answer
		docs = append(docs, schema.NewDocument(text, meta))
	}
	return docs, nil
}

var _ Reader = (*QAReader)(nil)
