package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewChunkCopiesMetadata(t *testing.T) {
	doc := NewDocument("hello", map[string]string{MetaSource: "faq.md", "category": "rooms"})
	chunk := NewChunk("hello", doc)

	assert.Equal(t, doc.Metadata, chunk.Metadata)

	chunk.Metadata["category"] = "dining"
	assert.Equal(t, "rooms", doc.Metadata["category"], "chunk metadata must be a copy")
}

func TestNewChunkNilMetadata(t *testing.T) {
	chunk := NewChunk("x", Document{Text: "x"})
	assert.NotNil(t, chunk.Metadata)
	assert.Empty(t, chunk.Metadata)
}

func TestIsQAPair(t *testing.T) {
	doc := NewDocument("Q: a A: b", map[string]string{MetaType: TypeQAPair})
	assert.True(t, doc.IsQAPair())

	plain := NewDocument("just text", nil)
	assert.False(t, plain.IsQAPair())
}

func TestWordCount(t *testing.T) {
	doc := Document{Text: "one two  three\nfour"}
	assert.Equal(t, 4, doc.WordCount())
	assert.Equal(t, 0, Document{}.WordCount())
}

func TestHashStability(t *testing.T) {
	a := Document{Text: "same", Metadata: map[string]string{MetaSource: "f"}}
	b := Document{Text: "same", Metadata: map[string]string{MetaSource: "f"}}
	c := Document{Text: "same", Metadata: map[string]string{MetaSource: "g"}}

	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), c.Hash())
}
