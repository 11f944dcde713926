// Package naming derives bounded, display-safe labels for delivered audio
// segments from book, chapter, and file context.
package naming

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxLabelLength caps the final label as used at delivery time.
	MaxLabelLength = 64
	// maxBaseLength leaves room for a part suffix within MaxLabelLength.
	maxBaseLength = 36

	truncationMarker = "..."
)

// BaseName builds the label stem: book plus chapter when a book title exists,
// file name plus chapter when only a file name exists, else the chapter alone.
// The result is sanitized and truncated to fit a part suffix.
func BaseName(bookTitle, chapterTitle, fileBaseName string) string {
	book := strings.TrimSpace(bookTitle)
	chapter := strings.TrimSpace(chapterTitle)
	file := strings.TrimSpace(fileBaseName)

	var base string
	switch {
	case book != "" && chapter != "":
		base = book + " - " + chapter
	case book != "":
		base = book
	case file != "" && chapter != "":
		base = file + " - " + chapter
	case file != "":
		base = file
	default:
		base = chapter
	}

	return truncate(sanitize(base), maxBaseLength)
}

// ChapterLabel names one segment of a chapter flow. Multi-part jobs get a
// short "-{index}" suffix; single segments carry no part framing.
func ChapterLabel(base string, index, total int) string {
	if total <= 1 {
		return clamp(base)
	}
	return clamp(fmt.Sprintf("%s-%d", base, index))
}

// PartLabel names one segment of a plain-text flow. Multi-part jobs get the
// verbose "_part_{index}_of_{total}" suffix; single segments carry no framing.
func PartLabel(base string, index, total int) string {
	if total <= 1 {
		return clamp(base)
	}
	return clamp(fmt.Sprintf("%s_part_%d_of_%d", base, index, total))
}

// sanitize keeps only characters that are safe in file names and captions.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ', r == '_', r == '-', r == '.':
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// truncate caps s at limit bytes, backing the cut off to a rune boundary so
// multi-byte titles never end in a partial character.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit - len(truncationMarker)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + truncationMarker
}

func clamp(s string) string {
	return truncate(s, MaxLabelLength)
}
