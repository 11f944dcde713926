package naming

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBaseNamePreferenceOrder(t *testing.T) {
	cases := []struct {
		name    string
		book    string
		chapter string
		file    string
		want    string
	}{
		{name: "book and chapter", book: "Dune", chapter: "Ch1", file: "dune.epub", want: "Dune - Ch1"},
		{name: "book only", book: "Dune", file: "dune.epub", want: "Dune"},
		{name: "file and chapter", chapter: "Ch1", file: "notes", want: "notes - Ch1"},
		{name: "file only", file: "notes", want: "notes"},
		{name: "chapter alone", chapter: "Prologue", want: "Prologue"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BaseName(tc.book, tc.chapter, tc.file); got != tc.want {
				t.Fatalf("BaseName() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBaseNameSanitizesUnsafeRunes(t *testing.T) {
	got := BaseName(`Weird/Book:Title?`, "C*1", "")
	if got != "WeirdBookTitle - C1" {
		t.Fatalf("BaseName() = %q, want %q", got, "WeirdBookTitle - C1")
	}
}

func TestBaseNameTruncatesWithMarker(t *testing.T) {
	got := BaseName(strings.Repeat("A", 100), "Ch1", "")
	if len(got) != 36 {
		t.Fatalf("BaseName() length = %d, want 36", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("BaseName() = %q, want truncation marker suffix", got)
	}
}

func TestChapterLabelSingleSegmentHasNoPartFraming(t *testing.T) {
	base := BaseName(strings.Repeat("A", 100), "Ch1", "")
	got := ChapterLabel(base, 1, 1)
	if got != base {
		t.Fatalf("ChapterLabel() = %q, want bare base %q", got, base)
	}
	if len(got) > MaxLabelLength {
		t.Fatalf("ChapterLabel() length = %d, exceeds %d", len(got), MaxLabelLength)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("ChapterLabel() = %q, lost truncation marker", got)
	}
}

func TestChapterLabelAppendsIndex(t *testing.T) {
	if got := ChapterLabel("Dune - Ch1", 3, 7); got != "Dune - Ch1-3" {
		t.Fatalf("ChapterLabel() = %q, want %q", got, "Dune - Ch1-3")
	}
}

func TestPartLabelAppendsPartOfTotal(t *testing.T) {
	if got := PartLabel("notes", 2, 5); got != "notes_part_2_of_5" {
		t.Fatalf("PartLabel() = %q, want %q", got, "notes_part_2_of_5")
	}
}

func TestLabelsNeverExceedCap(t *testing.T) {
	base := BaseName(strings.Repeat("B", 200), strings.Repeat("C", 50), "")
	for i := 1; i <= 12; i++ {
		if got := PartLabel(base, i, 12); len(got) > MaxLabelLength {
			t.Fatalf("PartLabel(%d) length = %d, exceeds %d", i, len(got), MaxLabelLength)
		}
		if got := ChapterLabel(base, i, 12); len(got) > MaxLabelLength {
			t.Fatalf("ChapterLabel(%d) length = %d, exceeds %d", i, len(got), MaxLabelLength)
		}
	}
}

func TestBaseNameKeepsNonLatinTitles(t *testing.T) {
	got := BaseName("三体", "第一章", "")
	if got != "三体 - 第一章" {
		t.Fatalf("BaseName() = %q, want %q", got, "三体 - 第一章")
	}
}

func TestBaseNameTruncatesCJKOnRuneBoundary(t *testing.T) {
	got := BaseName(strings.Repeat("体", 40), "", "")
	if len(got) > 36 {
		t.Fatalf("BaseName() length = %d, want <= 36", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("BaseName() = %q, want truncation marker suffix", got)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("BaseName() = %q, not valid UTF-8", got)
	}
	for _, r := range strings.TrimSuffix(got, "...") {
		if r != '体' {
			t.Fatalf("BaseName() = %q, contains partial rune %q", got, r)
		}
	}
}
