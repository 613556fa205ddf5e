package textsplitter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/harborview/concierge/schema"
)

const (
	// DefaultChunkSize is the default maximum chunk length in characters.
	DefaultChunkSize = 1024
	// DefaultChunkOverlap is the default overlap between consecutive
	// chunks, in characters.
	DefaultChunkOverlap = 200
	// DefaultAtomicWordCeiling is the word count below which a Q&A record
	// is emitted as a single chunk regardless of chunk size.
	DefaultAtomicWordCeiling = 1000
)

// RecursiveSplitter splits text by trying an ordered list of separators,
// re-splitting oversized pieces with progressively less semantic
// separators down to individual characters, then greedily merging the
// resulting units into chunks with a character overlap.
//
// Overlap policy: when a chunk closes, the next chunk starts with the
// trailing min(ChunkOverlap, len(previous chunk), ChunkSize - len(next
// unit)) characters of the previous chunk. Chunks are emitted verbatim,
// so concatenating all chunks with their overlap prefixes removed
// reconstructs the input exactly.
type RecursiveSplitter struct {
	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int
	// ChunkOverlap is the target overlap between consecutive chunks.
	ChunkOverlap int
	// Format selects the separator list.
	Format Format
	// AtomicWordCeiling bounds the atomic Q&A record override.
	AtomicWordCeiling int
	// AddChunkIndex adds a chunk_index metadata key to emitted chunks.
	AddChunkIndex bool

	splitFns []SplitFn
}

// RecursiveSplitterOption configures a RecursiveSplitter.
type RecursiveSplitterOption func(*RecursiveSplitter)

// WithAtomicWordCeiling sets the atomic record word ceiling.
func WithAtomicWordCeiling(n int) RecursiveSplitterOption {
	return func(s *RecursiveSplitter) {
		s.AtomicWordCeiling = n
	}
}

// WithChunkIndex enables the chunk_index metadata key on emitted chunks.
func WithChunkIndex(enabled bool) RecursiveSplitterOption {
	return func(s *RecursiveSplitter) {
		s.AddChunkIndex = enabled
	}
}

// NewRecursiveSplitter creates a RecursiveSplitter. Configuration is
// validated here, not per document: chunkSize must be positive and
// chunkOverlap must satisfy 0 <= chunkOverlap < chunkSize.
func NewRecursiveSplitter(chunkSize, chunkOverlap int, format Format, opts ...RecursiveSplitterOption) (*RecursiveSplitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap %d must be in [0, chunk size %d)", chunkOverlap, chunkSize)
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("unknown format %q", format)
	}

	fns, err := format.splitFns()
	if err != nil {
		return nil, fmt.Errorf("building separators for format %q: %w", format, err)
	}

	s := &RecursiveSplitter{
		ChunkSize:         chunkSize,
		ChunkOverlap:      chunkOverlap,
		Format:            format,
		AtomicWordCeiling: DefaultAtomicWordCeiling,
		splitFns:          fns,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SplitText splits text into chunks of at most ChunkSize characters.
// An empty input produces no chunks.
func (s *RecursiveSplitter) SplitText(text string) []string {
	if text == "" {
		return nil
	}
	units := s.split(text, 0)
	return s.merge(units)
}

// SplitDocument splits a document into chunks carrying copies of its
// metadata. A document tagged as an atomic Q&A record with a word count
// under the ceiling is emitted as exactly one chunk, before the general
// algorithm runs.
func (s *RecursiveSplitter) SplitDocument(doc schema.Document) []schema.Chunk {
	if doc.Text == "" {
		return nil
	}

	if doc.IsQAPair() && doc.WordCount() <= s.AtomicWordCeiling {
		chunk := schema.NewChunk(doc.Text, doc)
		if s.AddChunkIndex {
			chunk.Metadata[schema.MetaChunkIndex] = "0"
		}
		return []schema.Chunk{chunk}
	}

	texts := s.SplitText(doc.Text)
	chunks := make([]schema.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = schema.NewChunk(text, doc)
		if s.AddChunkIndex {
			chunks[i].Metadata[schema.MetaChunkIndex] = strconv.Itoa(i)
		}
	}
	return chunks
}

// split recursively partitions text into units no larger than ChunkSize.
// fnIdx is the index of the separator to try next; the final rune-level
// separator guarantees termination.
func (s *RecursiveSplitter) split(text string, fnIdx int) []string {
	if runeLen(text) <= s.ChunkSize {
		return []string{text}
	}
	if fnIdx >= len(s.splitFns) {
		// Rune-level split always produces fitting units first.
		return []string{text}
	}

	pieces := s.splitFns[fnIdx](text)
	if len(pieces) <= 1 {
		return s.split(text, fnIdx+1)
	}

	var units []string
	for _, piece := range pieces {
		if runeLen(piece) <= s.ChunkSize {
			units = append(units, piece)
		} else {
			units = append(units, s.split(piece, fnIdx+1)...)
		}
	}
	return units
}

// merge greedily concatenates units into chunks, carrying an overlap
// prefix from each closed chunk into the next.
func (s *RecursiveSplitter) merge(units []string) []string {
	var chunks []string
	var cur strings.Builder
	curLen := 0

	for _, unit := range units {
		unitLen := runeLen(unit)

		if curLen > 0 && curLen+unitLen > s.ChunkSize {
			closed := cur.String()
			chunks = append(chunks, closed)

			cur.Reset()
			curLen = 0

			overlap := s.ChunkOverlap
			if l := runeLen(closed); l < overlap {
				overlap = l
			}
			if budget := s.ChunkSize - unitLen; budget < overlap {
				overlap = budget
			}
			if overlap > 0 {
				prefix := tailRunes(closed, overlap)
				cur.WriteString(prefix)
				curLen = overlap
			}
		}

		cur.WriteString(unit)
		curLen += unitLen
	}

	if curLen > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// tailRunes returns the last n runes of s.
func tailRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if n >= len(runes) {
		return s
	}
	return string(runes[len(runes)-n:])
}

var _ DocumentSplitter = (*RecursiveSplitter)(nil)
