package textsplitter

import (
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Format selects the ordered separator list used by the recursive
// splitter, from most semantic to least semantic.
type Format string

const (
	// FormatMarkdown splits on headings, fenced code blocks, paragraph
	// breaks, lines, words and finally characters.
	FormatMarkdown Format = "markdown"
	// FormatPlain splits on paragraph breaks, sentence boundaries, lines,
	// words and finally characters.
	FormatPlain Format = "plain"
	// FormatQA splits on record breaks and question/answer markers before
	// falling back to the plain separators.
	FormatQA Format = "qa"
)

// IsValid reports whether the format is known.
func (f Format) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatPlain, FormatQA:
		return true
	}
	return false
}

// SplitTextKeepSeparator splits text on separator, keeping the separator
// at the start of each piece after the first. Concatenating the pieces
// reconstructs the input exactly. An empty separator splits by rune.
func SplitTextKeepSeparator(text, separator string) []string {
	if separator == "" {
		if text == "" {
			return nil
		}
		return strings.Split(text, "")
	}
	parts := strings.Split(text, separator)
	result := make([]string, 0, len(parts))
	for i, part := range parts {
		if i > 0 {
			part = separator + part
		}
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

// SplitBySep returns a SplitFn splitting on a literal separator.
func SplitBySep(sep string) SplitFn {
	return func(text string) []string {
		return SplitTextKeepSeparator(text, sep)
	}
}

// SplitByChar returns a SplitFn splitting into individual runes.
func SplitByChar() SplitFn {
	return func(text string) []string {
		return SplitTextKeepSeparator(text, "")
	}
}

// SplitBySentence returns a SplitFn that splits on sentence boundaries
// using the neurosnap sentence tokenizer with its bundled English
// training data. If the sentence texts do not reconstruct the input
// exactly, the input is returned unsplit so the splitter can fall through
// to the next separator without losing content.
func SplitBySentence() (SplitFn, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, err
	}
	return func(text string) []string {
		return splitSentences(tokenizer, text)
	}, nil
}

func splitSentences(tokenizer *sentences.DefaultSentenceTokenizer, text string) []string {
	sents := tokenizer.Tokenize(text)
	if len(sents) <= 1 {
		return []string{text}
	}
	parts := make([]string, 0, len(sents))
	total := 0
	for _, s := range sents {
		parts = append(parts, s.Text)
		total += len(s.Text)
	}
	if total != len(text) || strings.Join(parts, "") != text {
		return []string{text}
	}
	return parts
}

// markdownHeadingSeps lists heading separators from H1 to H6; splitting
// on the highest level first keeps whole sections together.
var markdownHeadingSeps = []string{
	"\n# ", "\n## ", "\n### ", "\n#### ", "\n##### ", "\n###### ",
}

// splitFns returns the ordered split functions for the format. The final
// rune-level function guarantees termination of the recursive descent.
func (f Format) splitFns() ([]SplitFn, error) {
	var fns []SplitFn

	switch f {
	case FormatMarkdown:
		for _, sep := range markdownHeadingSeps {
			fns = append(fns, SplitBySep(sep))
		}
		fns = append(fns, SplitBySep("\n```"))
		fns = append(fns, SplitBySep("\n\n"))
	case FormatQA:
		fns = append(fns, SplitBySep("\n\n"))
		fns = append(fns, SplitBySep("\nQ: "))
		fns = append(fns, SplitBySep("\nA: "))
	case FormatPlain:
		fns = append(fns, SplitBySep("\n\n"))
		bySentence, err := SplitBySentence()
		if err != nil {
			return nil, err
		}
		fns = append(fns, bySentence)
	}

	fns = append(fns, SplitBySep("\n"), SplitBySep(" "), SplitByChar())
	return fns, nil
}
