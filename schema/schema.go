// Package schema defines the core data types shared across the concierge
// pipeline: documents, chunks, retrieval results and chat turns.
package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// Metadata keys with pipeline-level meaning. Arbitrary domain keys
// (category, intent, ...) pass through untouched.
const (
	// MetaSource identifies the origin of a document (file path, URL, ...).
	MetaSource = "source"
	// MetaType distinguishes document kinds; see TypeQAPair.
	MetaType = "type"
	// MetaTitle is the document title, e.g. the top heading of a
	// markdown file.
	MetaTitle = "title"
	// MetaChunkIndex is the optional positional index a splitter may add.
	MetaChunkIndex = "chunk_index"

	// TypeQAPair marks a document as an atomic question/answer record.
	// The splitter never splits such a record below its word ceiling.
	TypeQAPair = "qa_pair"
)

// Document is a unit of ingested content plus its metadata.
type Document struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// NewDocument creates a Document with a fresh ID and a copy of metadata.
func NewDocument(text string, metadata map[string]string) Document {
	return Document{
		ID:       uuid.New().String(),
		Text:     text,
		Metadata: CopyMetadata(metadata),
	}
}

// IsQAPair reports whether the document is tagged as an atomic Q&A record.
func (d Document) IsQAPair() bool {
	return d.Metadata[MetaType] == TypeQAPair
}

// WordCount returns the number of whitespace-separated words in the text.
func (d Document) WordCount() int {
	return len(strings.Fields(d.Text))
}

// Hash returns a stable content hash, used for ingestion dedup.
func (d Document) Hash() string {
	h := sha256.New()
	h.Write([]byte(d.Text))
	h.Write([]byte{0})
	h.Write([]byte(d.Metadata[MetaSource]))
	return hex.EncodeToString(h.Sum(nil))
}

// Chunk is a bounded fragment of a source document, the unit of embedding
// and retrieval. Its metadata is a copy of the parent document's metadata.
type Chunk struct {
	ID        string            `json:"id"`
	Text      string            `json:"text"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Embedding []float32         `json:"embedding,omitempty"`
}

// NewChunk creates a Chunk derived from a parent document. The parent's
// metadata is copied, never shared, so later mutation of one chunk's
// metadata cannot leak into siblings.
func NewChunk(text string, parent Document) Chunk {
	return Chunk{
		ID:       uuid.New().String(),
		Text:     text,
		Metadata: CopyMetadata(parent.Metadata),
	}
}

// ScoredChunk pairs a retrieved chunk with its normalized relevance score
// in [0,1]; higher means more relevant.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// ChatTurn is one completed question/answer exchange.
type ChatTurn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CopyMetadata returns a copy of m. A nil map copies to an empty map so
// callers can always write to the result.
func CopyMetadata(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
