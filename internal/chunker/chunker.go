// Package chunker splits long text into bounded-size pieces at natural
// linguistic boundaries so each piece can be synthesized independently.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// Chunk is one bounded, 1-indexed piece of a source text.
type Chunk struct {
	Content string
	Index   int
	Total   int
}

// Sentence terminators are only honored when followed by a space or newline,
// which keeps abbreviations like "3.5" or "e.g." from becoming cut points.
var sentenceEnds = []string{". ", ".\n", "? ", "?\n", "! ", "!\n"}

// Split cuts text into chunks of at most maxSize bytes, preferring a paragraph
// break, then a sentence end, then a word boundary, then a hard cut. Paragraph
// and sentence cuts are only accepted in the upper half of the window so a
// break near the start cannot produce a pathologically short chunk. Split is
// pure: the same input always yields the same sequence.
func Split(text string, maxSize int) []Chunk {
	if maxSize <= 0 {
		maxSize = 1
	}
	if len(text) <= maxSize {
		return []Chunk{{Content: strings.TrimSpace(text), Index: 1, Total: 1}}
	}

	var parts []string
	remaining := text
	for len(remaining) > maxSize {
		cut, skip := cutPoint(remaining, maxSize)
		piece := strings.TrimSpace(remaining[:cut])
		if piece != "" {
			parts = append(parts, piece)
		}
		remaining = strings.TrimSpace(remaining[cut+skip:])
	}
	if remaining != "" {
		parts = append(parts, remaining)
	}
	if len(parts) == 0 {
		parts = []string{""}
	}

	chunks := make([]Chunk, len(parts))
	for i, p := range parts {
		chunks[i] = Chunk{Content: p, Index: i + 1, Total: len(parts)}
	}
	return chunks
}

// cutPoint returns the end of the next chunk within remaining plus the number
// of separator bytes to consume before the next chunk begins. The separator is
// consumed with the remainder side: a paragraph chunk ends before "\n\n" and
// the next chunk starts after it.
func cutPoint(remaining string, maxSize int) (cut, skip int) {
	window := remaining[:maxSize]
	half := maxSize / 2

	if i := strings.LastIndex(window, "\n\n"); i >= half {
		return i, 2
	}

	best := -1
	for _, end := range sentenceEnds {
		if i := strings.LastIndex(window, end); i > best {
			best = i
		}
	}
	if best >= half {
		// Keep the terminator with the chunk, drop the following space.
		return best + 1, 1
	}

	if i := strings.LastIndexByte(window, ' '); i >= half {
		return i, 1
	}

	// Hard cut; back off to a rune boundary so multi-byte characters survive.
	cut = maxSize
	for cut > 0 && !utf8.RuneStart(remaining[cut]) {
		cut--
	}
	if cut == 0 {
		cut = maxSize
	}
	return cut, 0
}
