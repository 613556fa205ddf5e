package textsplitter

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborview/concierge/schema"
)

func TestNewRecursiveSplitterValidation(t *testing.T) {
	_, err := NewRecursiveSplitter(0, 0, FormatPlain)
	assert.Error(t, err)

	_, err = NewRecursiveSplitter(-5, 0, FormatPlain)
	assert.Error(t, err)

	_, err = NewRecursiveSplitter(100, -1, FormatPlain)
	assert.Error(t, err)

	_, err = NewRecursiveSplitter(100, 100, FormatPlain)
	assert.Error(t, err)

	_, err = NewRecursiveSplitter(100, 150, FormatPlain)
	assert.Error(t, err)

	_, err = NewRecursiveSplitter(100, 20, Format("csv"))
	assert.Error(t, err)

	s, err := NewRecursiveSplitter(100, 20, FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, 100, s.ChunkSize)
	assert.Equal(t, 20, s.ChunkOverlap)
}

func TestSplitTextEmpty(t *testing.T) {
	s, err := NewRecursiveSplitter(50, 10, FormatPlain)
	require.NoError(t, err)
	assert.Empty(t, s.SplitText(""))
}

func TestSplitTextSmallInputSingleChunk(t *testing.T) {
	s, err := NewRecursiveSplitter(100, 20, FormatPlain)
	require.NoError(t, err)

	text := "A short paragraph that fits in one chunk."
	chunks := s.SplitText(text)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplitTextSizeBound(t *testing.T) {
	texts := []string{
		"First paragraph with a few words.\n\nSecond paragraph, also short.\n\nThird paragraph rounds out the document with some more words to split across chunks.",
		strings.Repeat("word ", 200),
		strings.Repeat("x", 137),
		"# Title\nIntro line.\n\n## Section one\nBody of section one goes here.\n\n## Section two\nBody of section two goes here.",
	}
	for _, format := range []Format{FormatPlain, FormatMarkdown, FormatQA} {
		s, err := NewRecursiveSplitter(40, 8, format)
		require.NoError(t, err)
		for _, text := range texts {
			for _, chunk := range s.SplitText(text) {
				assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 40,
					"format %s produced oversized chunk %q", format, chunk)
			}
		}
	}
}

func TestSplitTextOverlap(t *testing.T) {
	s, err := NewRecursiveSplitter(40, 10, FormatPlain)
	require.NoError(t, err)

	text := strings.Repeat("alpha beta gamma delta epsilon ", 8)
	chunks := s.SplitText(text)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		shared := 0
		for n := 1; n <= utf8.RuneCountInString(cur); n++ {
			prefix := string([]rune(cur)[:n])
			if strings.HasSuffix(prev, prefix) {
				shared = n
			}
		}
		assert.Greater(t, shared, 0, "chunks %d and %d share no overlap", i-1, i)
	}
}

func TestSplitTextDeterministic(t *testing.T) {
	s, err := NewRecursiveSplitter(60, 15, FormatMarkdown)
	require.NoError(t, err)

	text := "# Guide\nWelcome to the guide.\n\n## Check-in\nCheck-in starts at three in the afternoon.\n\n## Check-out\nCheck-out is at eleven in the morning."
	first := s.SplitText(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, s.SplitText(text))
	}
}

func TestSplitTextLosslessWithoutOverlap(t *testing.T) {
	texts := []string{
		"Paragraph one is here.\n\nParagraph two follows.\n\nParagraph three closes things out with extra words for length.",
		"# A\nLine under A.\n## B\nLine under B.\n\nTrailing paragraph text with a bunch of filler words appended for size.",
		strings.Repeat("no separators here just words ", 10),
		strings.Repeat("z", 101),
	}
	for _, format := range []Format{FormatPlain, FormatMarkdown, FormatQA} {
		s, err := NewRecursiveSplitter(30, 0, format)
		require.NoError(t, err)
		for _, text := range texts {
			chunks := s.SplitText(text)
			assert.Equal(t, text, strings.Join(chunks, ""),
				"format %s lost content", format)
		}
	}
}

func TestSplitTextMarkdownHeadingBoundary(t *testing.T) {
	s, err := NewRecursiveSplitter(20, 5, FormatMarkdown)
	require.NoError(t, err)

	text := "## A\nAAAA AAAA AAAA\n## B\nBBBB BBBB"
	chunks := s.SplitText(text)
	require.Len(t, chunks, 2)

	assert.Equal(t, "## A\nAAAA AAAA AAAA", chunks[0])
	assert.Equal(t, " AAAA\n## B\nBBBB BBBB", chunks[1])

	// The second section starts at its heading; sections are not merged
	// across the heading boundary.
	assert.Contains(t, chunks[1], "\n## B\n")
	assert.NotContains(t, chunks[0], "## B")
}

func TestSplitTextLongWordCharacterFallback(t *testing.T) {
	s, err := NewRecursiveSplitter(10, 3, FormatPlain)
	require.NoError(t, err)

	chunks := s.SplitText(strings.Repeat("q", 47))
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 10)
	}
}

func TestSplitTextMultibyte(t *testing.T) {
	s, err := NewRecursiveSplitter(10, 2, FormatPlain)
	require.NoError(t, err)

	text := strings.Repeat("héllo wörld ", 6)
	for _, chunk := range s.SplitText(text) {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 10)
	}
}

func TestSplitDocumentCopiesMetadata(t *testing.T) {
	s, err := NewRecursiveSplitter(30, 5, FormatPlain, WithChunkIndex(true))
	require.NoError(t, err)

	doc := schema.NewDocument(
		"Paragraph one with content.\n\nParagraph two with more content in it.",
		map[string]string{schema.MetaSource: "faq.md"},
	)
	chunks := s.SplitDocument(doc)
	require.Greater(t, len(chunks), 1)

	for i, chunk := range chunks {
		assert.Equal(t, "faq.md", chunk.Metadata[schema.MetaSource])
		assert.NotEmpty(t, chunk.Metadata[schema.MetaChunkIndex])
		if i == 0 {
			assert.Equal(t, "0", chunk.Metadata[schema.MetaChunkIndex])
		}
	}

	// Chunk metadata is a copy, not a shared map.
	chunks[0].Metadata[schema.MetaSource] = "changed"
	assert.Equal(t, "faq.md", doc.Metadata[schema.MetaSource])
}

func TestSplitDocumentAtomicQARecord(t *testing.T) {
	s, err := NewRecursiveSplitter(50, 10, FormatQA)
	require.NoError(t, err)

	text := "Q: What time is breakfast served?\nA: " + strings.Repeat("word ", 400)
	doc := schema.NewDocument(text, map[string]string{
		schema.MetaType: schema.TypeQAPair,
	})
	require.True(t, doc.IsQAPair())

	chunks := s.SplitDocument(doc)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Text)
}

func TestSplitDocumentQARecordOverCeiling(t *testing.T) {
	s, err := NewRecursiveSplitter(200, 20, FormatQA, WithAtomicWordCeiling(100))
	require.NoError(t, err)

	doc := schema.NewDocument(
		"Q: Long question?\nA: "+strings.Repeat("word ", 300),
		map[string]string{schema.MetaType: schema.TypeQAPair},
	)
	chunks := s.SplitDocument(doc)
	assert.Greater(t, len(chunks), 1)
}

func TestSplitDocumentEmpty(t *testing.T) {
	s, err := NewRecursiveSplitter(50, 10, FormatPlain)
	require.NoError(t, err)
	assert.Empty(t, s.SplitDocument(schema.NewDocument("", nil)))
}

func TestSplitTextKeepSeparator(t *testing.T) {
	pieces := SplitTextKeepSeparator("a\n\nb\n\nc", "\n\n")
	assert.Equal(t, []string{"a", "\n\nb", "\n\nc"}, pieces)
	assert.Equal(t, "a\n\nb\n\nc", strings.Join(pieces, ""))

	pieces = SplitTextKeepSeparator("\n\nleading", "\n\n")
	assert.Equal(t, "\n\nleading", strings.Join(pieces, ""))

	pieces = SplitTextKeepSeparator("abc", "")
	assert.Equal(t, []string{"a", "b", "c"}, pieces)
}

func TestWordTokenizer(t *testing.T) {
	assert.Equal(t, 0, WordTokenizer{}.CountTokens(""))
	assert.Equal(t, 4, WordTokenizer{}.CountTokens("four words right here"))
}
