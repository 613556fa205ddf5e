package synthesizer

import (
	"strings"

	"github.com/harborview/concierge/schema"
)

// Response is a synthesized answer plus the scored chunks it was built
// from. When the synthesizer streams, Tokens carries the final step's
// token sequence and Answer is filled in once the stream is consumed.
type Response struct {
	// Answer is the final answer text. Empty until the stream is
	// consumed when Tokens is set.
	Answer string
	// Sources are the chunks the answer was synthesized from.
	Sources []schema.ScoredChunk
	// Tokens streams the final step's tokens in order. Nil for blocking
	// responses.
	Tokens <-chan string

	consumed bool
}

// NewResponse creates a blocking response.
func NewResponse(answer string, sources []schema.ScoredChunk) *Response {
	return &Response{Answer: answer, Sources: sources, consumed: true}
}

// NewStreamingResponse creates a response whose final answer arrives on
// the token channel.
func NewStreamingResponse(tokens <-chan string, sources []schema.ScoredChunk) *Response {
	return &Response{Sources: sources, Tokens: tokens}
}

// String returns the full answer, consuming the token stream first if
// one is attached. Safe to call repeatedly; the stream is drained once.
func (r *Response) String() string {
	if r.consumed || r.Tokens == nil {
		return r.Answer
	}

	var b strings.Builder
	b.WriteString(r.Answer)
	for token := range r.Tokens {
		b.WriteString(token)
	}
	r.Answer = b.String()
	r.consumed = true
	return r.Answer
}
