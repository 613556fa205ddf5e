package textsplitter

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultTokenEncoding is the BPE encoding used when none is specified.
const DefaultTokenEncoding = "cl100k_base"

// TikTokenizer counts tokens with a tiktoken BPE encoding. It is used
// by the synthesizer to pack retrieved context into a prompt budget.
type TikTokenizer struct {
	encoding *tiktoken.Tiktoken
}

// NewTikTokenizer creates a tokenizer for the given encoding name.
func NewTikTokenizer(encodingName string) (*TikTokenizer, error) {
	if encodingName == "" {
		encodingName = DefaultTokenEncoding
	}
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("loading encoding %q: %w", encodingName, err)
	}
	return &TikTokenizer{encoding: enc}, nil
}

// NewTikTokenizerForModel creates a tokenizer matching a model name.
func NewTikTokenizerForModel(model string) (*TikTokenizer, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("loading encoding for model %q: %w", model, err)
	}
	return &TikTokenizer{encoding: enc}, nil
}

// CountTokens returns the number of BPE tokens in text.
func (t *TikTokenizer) CountTokens(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

// WordTokenizer approximates token counts by whitespace-separated words.
// It needs no encoding data and is used in tests and as a fallback.
type WordTokenizer struct{}

// CountTokens returns the number of whitespace-separated fields in text.
func (WordTokenizer) CountTokens(text string) int {
	return len(strings.Fields(text))
}

var (
	_ Tokenizer = (*TikTokenizer)(nil)
	_ Tokenizer = WordTokenizer{}
)
