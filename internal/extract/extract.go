// Package extract turns uploaded documents into plain UTF-8 text plus the
// title metadata the naming policy consumes. Parsing fidelity beyond
// "produces UTF-8 text" is out of scope.
package extract

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Document is one unit of extracted text. Plain text and PDF uploads produce a
// single document; EPUB uploads produce one per chapter.
type Document struct {
	Text         string
	BookTitle    string
	ChapterTitle string
	FileBaseName string
}

// FromText wraps a raw chat message as a document.
func FromText(text string) Document {
	return Document{Text: text, FileBaseName: "speech"}
}

// FromReader extracts documents from an uploaded file, dispatching on the
// file extension.
func FromReader(r io.Reader, filename string) ([]Document, error) {
	base := baseName(filename)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read txt: %w", err)
		}
		return []Document{{Text: string(data), FileBaseName: base}}, nil
	case ".pdf":
		doc, err := fromPDF(r, base)
		if err != nil {
			return nil, err
		}
		return []Document{doc}, nil
	case ".epub":
		return fromEPUB(r, base)
	default:
		return nil, fmt.Errorf("unsupported file type %q (expected .txt, .pdf or .epub)", filepath.Ext(filename))
	}
}

func baseName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
