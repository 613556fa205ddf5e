// Package textsplitter partitions documents into bounded, overlapping
// chunks while preserving semantic boundaries.
package textsplitter

import "github.com/harborview/concierge/schema"

// TextSplitter is the interface for splitting raw text.
type TextSplitter interface {
	SplitText(text string) []string
}

// DocumentSplitter splits whole documents into chunks that carry the
// parent document's metadata.
type DocumentSplitter interface {
	TextSplitter
	SplitDocument(doc schema.Document) []schema.Chunk
}

// Tokenizer counts model tokens in text. Used for token budgets, not for
// chunk sizing, which is character based.
type Tokenizer interface {
	CountTokens(text string) int
}

// SplitFn splits text into pieces. Implementations must keep separators
// attached to the pieces so that concatenating the pieces reconstructs
// the input exactly.
type SplitFn func(text string) []string
