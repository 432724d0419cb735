package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// CitationTag formats the nth citation tag, 1-based.
// Tags are numbered in final rank order with no gaps.
func CitationTag(n int) string {
	return fmt.Sprintf("[[CIT_%d]]", n)
}

// citationTagPattern matches any citation tag, known or not.
var citationTagPattern = regexp.MustCompile(`\[\[CIT_\d+\]\]`)

// Grounding is the citation-tagged context handed to a downstream
// generator. When ContextFound is false the caller must not invoke
// any generative step: the gate exists to prevent fabricated answers
// when no source material is relevant.
type Grounding struct {
	// ContextFound reports whether the retrieved material cleared the
	// relevance gate.
	ContextFound bool

	// ContextBlock is the citation-tagged excerpt block, one
	// "[[CIT_n]]: <chunk text>" entry per retained chunk in fused
	// order. Empty when ContextFound is false.
	ContextBlock string

	// Citations maps each citation tag to its human-readable source
	// reference, e.g. "[[CIT_1]]" -> "regulations.txt (page 3)".
	// Empty when ContextFound is false.
	Citations map[string]string
}

// ResolveCitations replaces known citation tags in generated text with
// "[Source: <reference>]" and strips any tag the map does not know,
// so a generator can never surface a fabricated citation.
func (g Grounding) ResolveCitations(text string) string {
	out := text
	for tag, ref := range g.Citations {
		out = strings.ReplaceAll(out, tag, fmt.Sprintf("[Source: %s]", ref))
	}
	return citationTagPattern.ReplaceAllString(out, "")
}

// CitationRef formats the source reference for a chunk's citation.
func CitationRef(label string, page int) string {
	if page > 0 {
		return fmt.Sprintf("%s (page %d)", label, page)
	}
	return label
}
