// Package batch turns resolved edits into the ordered request list that is
// submitted to the document service as one unit.
//
// The builder keeps every range verbatim and never reorders. When several
// edits are resolved against one snapshot the caller must either order them
// from the highest start index to the lowest (see OrderForSnapshot) or
// re-resolve after each submitted mutation; otherwise earlier edits shift the
// indices later ones were resolved against.
package batch

import (
	"errors"
	"fmt"

	"google.golang.org/api/docs/v1"

	"docsengine/internal/doctree"
)

var (
	ErrConflictingRanges = errors.New("conflicting ranges")
	ErrInvalidEdit       = errors.New("invalid edit")
)

type Kind int

const (
	KindInsert Kind = iota + 1
	KindDelete
	KindStyleText
	KindStyleParagraph
)

func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	case KindStyleText:
		return "style_text"
	case KindStyleParagraph:
		return "style_paragraph"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type Payload struct {
	Text           string               `json:"text,omitempty"`
	TextStyle      *docs.TextStyle      `json:"text_style,omitempty"`
	ParagraphStyle *docs.ParagraphStyle `json:"paragraph_style,omitempty"`
	Fields         string               `json:"fields,omitempty"`
}

// Edit is one elementary mutation. Inserts carry an empty range whose Start
// is the insertion point.
type Edit struct {
	Kind    Kind         `json:"kind"`
	Range   doctree.Span `json:"range"`
	Payload Payload      `json:"payload"`
}

// Request is a validated edit, in batch order.
type Request Edit

// ConflictError names the two edits, by position in the batch, whose ranges
// overlap.
type ConflictError struct {
	First       int
	Second      int
	FirstRange  doctree.Span
	SecondRange doctree.Span
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("edit %d [%d,%d) overlaps edit %d [%d,%d)",
		e.Second, e.SecondRange.Start, e.SecondRange.End,
		e.First, e.FirstRange.Start, e.FirstRange.End)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflictingRanges
}

// Build validates edits and returns one request per edit in the given order.
// Nothing is returned when any edit is malformed or any two edits conflict.
func Build(edits []Edit) ([]Request, error) {
	for i, edit := range edits {
		if err := validate(edit); err != nil {
			return nil, fmt.Errorf("%w: edit %d: %s", ErrInvalidEdit, i, err)
		}
	}
	for i := range edits {
		for j := i + 1; j < len(edits); j++ {
			if conflicts(edits[i], edits[j]) {
				return nil, &ConflictError{First: i, Second: j, FirstRange: edits[i].Range, SecondRange: edits[j].Range}
			}
		}
	}
	requests := make([]Request, len(edits))
	for i, edit := range edits {
		requests[i] = Request(edit)
	}
	return requests, nil
}

func validate(edit Edit) error {
	r := edit.Range
	if r.Start < 1 {
		return fmt.Errorf("start index must be >= 1, got %d", r.Start)
	}
	switch edit.Kind {
	case KindInsert:
		if r.End != r.Start {
			return fmt.Errorf("insert must target a point, got [%d,%d)", r.Start, r.End)
		}
		if edit.Payload.Text == "" {
			return errors.New("insert text is empty")
		}
		return nil
	case KindDelete:
	case KindStyleText:
		if edit.Payload.TextStyle == nil || edit.Payload.Fields == "" {
			return errors.New("text style and fields are required")
		}
	case KindStyleParagraph:
		if edit.Payload.ParagraphStyle == nil || edit.Payload.Fields == "" {
			return errors.New("paragraph style and fields are required")
		}
	default:
		return fmt.Errorf("unknown kind %d", int(edit.Kind))
	}
	if r.End <= r.Start {
		return fmt.Errorf("end index %d must be greater than start index %d", r.End, r.Start)
	}
	return nil
}

// conflicts reports whether applying a and b in one batch is ambiguous. Two
// ranges must not overlap, whatever their kinds, since reordering for
// submission would change which style wins. An insertion point may only touch
// a range at its edges.
func conflicts(a, b Edit) bool {
	switch {
	case a.Kind == KindInsert && b.Kind == KindInsert:
		return a.Range.Start == b.Range.Start
	case a.Kind == KindInsert:
		return strictlyInside(a.Range.Start, b.Range)
	case b.Kind == KindInsert:
		return strictlyInside(b.Range.Start, a.Range)
	default:
		return a.Range.Overlaps(b.Range)
	}
}

func strictlyInside(point int64, r doctree.Span) bool {
	return point > r.Start && point < r.End
}
