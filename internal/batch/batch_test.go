package batch

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/api/docs/v1"

	"docsengine/internal/doctree"
)

func span(start, end int64) doctree.Span {
	return doctree.Span{Start: start, End: end}
}

func insert(at int64, text string) Edit {
	return Edit{Kind: KindInsert, Range: span(at, at), Payload: Payload{Text: text}}
}

func del(start, end int64) Edit {
	return Edit{Kind: KindDelete, Range: span(start, end)}
}

func bold(start, end int64) Edit {
	return Edit{Kind: KindStyleText, Range: span(start, end), Payload: Payload{TextStyle: &docs.TextStyle{Bold: true}, Fields: "bold"}}
}

func unbold(start, end int64) Edit {
	return Edit{Kind: KindStyleText, Range: span(start, end), Payload: Payload{TextStyle: &docs.TextStyle{}, Fields: "bold"}}
}

func TestBuildKeepsOrderAndRanges(t *testing.T) {
	edits := []Edit{del(20, 25), insert(20, "new"), bold(3, 8), insert(1, "head")}
	got, err := Build(edits)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(got) != len(edits) {
		t.Fatalf("expected %d requests, got %d", len(edits), len(got))
	}
	for i := range edits {
		if diff := cmp.Diff(Request(edits[i]), got[i]); diff != "" {
			t.Fatalf("request %d changed (-want +got):\n%s", i, diff)
		}
	}
}

func TestBuildRejectsOverlappingRanges(t *testing.T) {
	_, err := Build([]Edit{del(5, 10), del(8, 12)})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.First != 0 || conflict.Second != 1 {
		t.Fatalf("unexpected conflict indices %+v", conflict)
	}
	if !errors.Is(err, ErrConflictingRanges) {
		t.Fatalf("expected ErrConflictingRanges in chain")
	}

	cases := map[string][]Edit{
		"insert inside delete":      {del(5, 10), insert(7, "x")},
		"style over deleted text":   {bold(5, 10), del(9, 11)},
		"two inserts at one point":  {insert(4, "a"), insert(4, "b")},
		"overlapping text styles":   {bold(5, 10), unbold(7, 12)},
		"paragraph over text style": {bold(5, 10), {Kind: KindStyleParagraph, Range: span(1, 12), Payload: Payload{ParagraphStyle: &docs.ParagraphStyle{Alignment: "CENTER"}, Fields: "alignment"}}},
	}
	for name, edits := range cases {
		if _, err := Build(edits); !errors.Is(err, ErrConflictingRanges) {
			t.Fatalf("%s: expected conflict, got %v", name, err)
		}
	}
}

func TestBuildAllowsTouchingRanges(t *testing.T) {
	cases := map[string][]Edit{
		"adjacent deletes":       {del(5, 10), del(10, 12)},
		"insert at delete start": {del(5, 10), insert(5, "x")},
		"insert at delete end":   {del(5, 10), insert(10, "x")},
		"adjacent style edits":   {bold(5, 10), unbold(10, 12)},
	}
	for name, edits := range cases {
		if _, err := Build(edits); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}

func TestBuildValidatesRanges(t *testing.T) {
	cases := map[string]Edit{
		"empty delete":         del(5, 5),
		"reversed delete":      del(6, 5),
		"index zero":           del(0, 3),
		"insert with a range":  {Kind: KindInsert, Range: span(3, 4), Payload: Payload{Text: "x"}},
		"insert without text":  insert(3, ""),
		"style without fields": {Kind: KindStyleText, Range: span(1, 3), Payload: Payload{TextStyle: &docs.TextStyle{}}},
		"unknown kind":         {Kind: Kind(42), Range: span(1, 3)},
	}
	for name, edit := range cases {
		if _, err := Build([]Edit{edit}); !errors.Is(err, ErrInvalidEdit) {
			t.Fatalf("%s: expected invalid edit, got %v", name, err)
		}
	}
}

func TestOrderForSnapshot(t *testing.T) {
	edits := []Edit{insert(5, "a"), del(5, 9), del(20, 22), bold(1, 3), insert(30, "z")}
	got := OrderForSnapshot(edits)
	want := []Edit{insert(30, "z"), del(20, 22), del(5, 9), insert(5, "a"), bold(1, 3)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if edits[0].Kind != KindInsert {
		t.Fatalf("input slice must not be reordered")
	}
}

func TestToDocsRequests(t *testing.T) {
	reqs, err := Build([]Edit{
		del(10, 12),
		insert(10, "hi"),
		bold(3, 5),
		{Kind: KindStyleParagraph, Range: span(1, 3), Payload: Payload{ParagraphStyle: &docs.ParagraphStyle{Alignment: "END"}, Fields: "alignment"}},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	out := ToDocsRequests(reqs, "t.1")
	if len(out) != 4 {
		t.Fatalf("expected 4 requests, got %d", len(out))
	}
	if r := out[0].DeleteContentRange; r == nil || r.Range.StartIndex != 10 || r.Range.EndIndex != 12 || r.Range.TabId != "t.1" {
		t.Fatalf("unexpected delete %+v", out[0])
	}
	if r := out[1].InsertText; r == nil || r.Location.Index != 10 || r.Text != "hi" || r.Location.TabId != "t.1" {
		t.Fatalf("unexpected insert %+v", out[1])
	}
	if r := out[2].UpdateTextStyle; r == nil || !r.TextStyle.Bold || r.Fields != "bold" {
		t.Fatalf("unexpected text style %+v", out[2])
	}
	if r := out[3].UpdateParagraphStyle; r == nil || r.ParagraphStyle.Alignment != "END" || r.Range.EndIndex != 3 {
		t.Fatalf("unexpected paragraph style %+v", out[3])
	}
}
