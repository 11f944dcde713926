package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"path"
	"regexp"
	"strings"
)

// Minimal EPUB reading: locate the OPF through the container manifest, take
// dc:title as the book title, and emit one document per spine entry.

type epubContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type epubPackage struct {
	Metadata struct {
		Title string `xml:"title"`
	} `xml:"metadata"`
	Manifest struct {
		Items []struct {
			ID   string `xml:"id,attr"`
			Href string `xml:"href,attr"`
		} `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		ItemRefs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

var (
	epubTitlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	epubH1Pattern    = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	epubHeadPattern  = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	epubTagPattern   = regexp.MustCompile(`(?s)<[^>]*>`)
	epubBlockPattern = regexp.MustCompile(`(?is)</(p|div|h[1-6]|li|blockquote)>|<br[^>]*>`)
)

func fromEPUB(r io.Reader, base string) ([]Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read epub: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open epub container: %w", err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	opfPath, err := rootfilePath(files)
	if err != nil {
		return nil, err
	}
	var pkg epubPackage
	if err := readXML(files, opfPath, &pkg); err != nil {
		return nil, err
	}

	hrefByID := make(map[string]string, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		hrefByID[item.ID] = item.Href
	}

	bookTitle := strings.TrimSpace(pkg.Metadata.Title)
	opfDir := path.Dir(opfPath)

	var docs []Document
	for _, ref := range pkg.Spine.ItemRefs {
		href, ok := hrefByID[ref.IDRef]
		if !ok {
			continue
		}
		f, ok := files[path.Join(opfDir, href)]
		if !ok {
			continue
		}
		markup, err := readAll(f)
		if err != nil {
			return nil, err
		}
		text := htmlToText(markup)
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, Document{
			Text:         text,
			BookTitle:    bookTitle,
			ChapterTitle: chapterTitle(markup),
			FileBaseName: base,
		})
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("epub %q contains no readable chapters", base)
	}
	return docs, nil
}

func rootfilePath(files map[string]*zip.File) (string, error) {
	var container epubContainer
	if err := readXML(files, "META-INF/container.xml", &container); err != nil {
		return "", err
	}
	if len(container.Rootfiles) == 0 || container.Rootfiles[0].FullPath == "" {
		return "", fmt.Errorf("epub container names no rootfile")
	}
	return container.Rootfiles[0].FullPath, nil
}

func readXML(files map[string]*zip.File, name string, out any) error {
	f, ok := files[name]
	if !ok {
		return fmt.Errorf("epub is missing %s", name)
	}
	data, err := readAll(f)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal([]byte(data), out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func readAll(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Name, err)
	}
	return string(data), nil
}

func chapterTitle(markup string) string {
	if m := epubH1Pattern.FindStringSubmatch(markup); m != nil {
		if t := strings.TrimSpace(stripTags(m[1])); t != "" {
			return t
		}
	}
	if m := epubTitlePattern.FindStringSubmatch(markup); m != nil {
		return strings.TrimSpace(stripTags(m[1]))
	}
	return ""
}

// htmlToText flattens chapter markup into plain text, keeping paragraph
// breaks so the chunker can still find them.
func htmlToText(markup string) string {
	markup = epubHeadPattern.ReplaceAllString(markup, " ")
	markup = epubBlockPattern.ReplaceAllString(markup, "\n\n")
	text := stripTags(markup)
	text = html.UnescapeString(text)

	lines := strings.Split(text, "\n")
	var out []string
	blank := true
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func stripTags(markup string) string {
	return epubTagPattern.ReplaceAllString(markup, " ")
}
