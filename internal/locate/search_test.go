package locate

import (
	"errors"
	"testing"

	"docsengine/internal/doctree"
	"docsengine/internal/doctree/layout"
)

func TestFindNthIsCaseSensitive(t *testing.T) {
	text := "Test test test. This is a test sentence."
	segments := []doctree.Segment{{Text: text, Start: 1, End: 1 + doctree.UTF16Len(text)}}

	got, err := FindNth(segments, "test", 3)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Start != 27 || got.End != 31 {
		t.Fatalf("expected [27,31), got [%d,%d)", got.Start, got.End)
	}
	if got.Kind != RangeMatch {
		t.Fatalf("expected match kind, got %s", got.Kind)
	}
	if s := doctree.TextAt(segments, got.Content()); s != "test" {
		t.Fatalf("range addresses %q", s)
	}
}

func TestFindNthCountsOverlappingMatches(t *testing.T) {
	segments := []doctree.Segment{{Text: "aaa", Start: 5, End: 8}}
	first, err := FindNth(segments, "aa", 1)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := FindNth(segments, "aa", 2)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.Start != 5 || second.Start != 6 {
		t.Fatalf("expected starts 5 and 6, got %d and %d", first.Start, second.Start)
	}

	_, err = FindNth(segments, "aa", 3)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Requested != 3 || nf.Found != 2 {
		t.Fatalf("expected requested 3 found 2, got %+v", nf)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound in chain")
	}
}

func TestFindNthSpansSegmentsAndGaps(t *testing.T) {
	segments := []doctree.Segment{
		{Text: "Hello wo", Start: 1, End: 9},
		{Text: "rld\n", Start: 9, End: 13},
		{Text: "cd\n", Start: 16, End: 19},
	}
	got, err := FindNth(segments, "world", 1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Start != 7 || got.End != 12 {
		t.Fatalf("expected [7,12), got [%d,%d)", got.Start, got.End)
	}

	got, err = FindNth(segments, "\ncd", 1)
	if err != nil {
		t.Fatalf("find across gap: %v", err)
	}
	if got.Start != 12 || got.End != 18 {
		t.Fatalf("expected [12,18), got [%d,%d)", got.Start, got.End)
	}
	if s := doctree.TextAt(segments, got.Content()); s != "\ncd" {
		t.Fatalf("range addresses %q", s)
	}
}

func TestFindNthMatchEndingOnSegmentBoundary(t *testing.T) {
	segments := []doctree.Segment{
		{Text: "ab", Start: 1, End: 3},
		{Text: "cd", Start: 10, End: 12},
	}
	got, err := FindNth(segments, "ab", 1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.End != 3 {
		t.Fatalf("match ending a segment must close it, got end %d", got.End)
	}
	got, err = FindNth(segments, "cd", 1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Start != 10 {
		t.Fatalf("match starting a segment must open it, got start %d", got.Start)
	}
}

func TestFindNthUsesUTF16Units(t *testing.T) {
	b := layout.New().Paragraph("😀 smile 😀 smile")
	segments := doctree.Flatten(b.Blocks())
	got, err := FindNth(segments, "smile", 2)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	// "😀 smile 😀 " is 2+1+5+1+2+1 = 12 units after index 1.
	if got.Start != 13 || got.End != 18 {
		t.Fatalf("expected [13,18), got [%d,%d)", got.Start, got.End)
	}
}

func TestFindNthAddressesNeedleInOriginalTree(t *testing.T) {
	b := layout.New().
		Heading(1, "Budget overview").
		Paragraph("The budget ", "for the budget year").
		Table([][]string{{"budget", "b"}, {"", "et"}}).
		Paragraph("bud", "get")
	segments := doctree.Flatten(b.Blocks())
	ix := NewLogicalIndex(segments)

	for _, needle := range []string{"budget", "get", "b", "t\n", "e", "\nb"} {
		matches := ix.FindAll(needle)
		if len(matches) == 0 {
			t.Fatalf("expected matches for %q", needle)
		}
		for k, m := range matches {
			if got := doctree.TextAt(segments, m.Content()); got != needle {
				t.Fatalf("%q occurrence %d addresses %q", needle, k+1, got)
			}
			again, err := FindNth(doctree.Flatten(b.Blocks()), needle, k+1)
			if err != nil {
				t.Fatalf("%q occurrence %d: %v", needle, k+1, err)
			}
			if again != m {
				t.Fatalf("%q occurrence %d not idempotent: %+v vs %+v", needle, k+1, again, m)
			}
		}
	}
}

func TestFindNthRejectsBadInput(t *testing.T) {
	segments := []doctree.Segment{{Text: "abc", Start: 1, End: 4}}
	if _, err := FindNth(segments, "", 1); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected invalid target for empty needle, got %v", err)
	}
	if _, err := FindNth(segments, "a", 0); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected invalid target for occurrence 0, got %v", err)
	}
	if _, err := FindNth(nil, "a", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on empty tree, got %v", err)
	}
}
