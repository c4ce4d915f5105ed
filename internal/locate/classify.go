package locate

import (
	"fmt"

	"docsengine/internal/doctree"
)

type EditKind int

const (
	EditInsertBefore EditKind = iota + 1
	EditInsertAfter
	EditDeleteText
	EditDeleteBlock
	EditReplaceText
	EditStyleText
	EditStyleParagraph
)

var editKindNames = map[EditKind]string{
	EditInsertBefore:   "insert_before",
	EditInsertAfter:    "insert_after",
	EditDeleteText:     "delete",
	EditDeleteBlock:    "delete_block",
	EditReplaceText:    "replace",
	EditStyleText:      "style_text",
	EditStyleParagraph: "style_paragraph",
}

func (k EditKind) String() string {
	if name, ok := editKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EditKind(%d)", int(k))
}

func ParseEditKind(name string) (EditKind, error) {
	for kind, n := range editKindNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown edit kind %q", name)
}

// IsInsert reports whether the kind targets a point rather than a range.
func (k EditKind) IsInsert() bool {
	return k == EditInsertBefore || k == EditInsertAfter
}

// Classify picks the boundary an edit of the given kind must use. Inserts
// yield an empty span at the insertion point. Text edits use the content
// boundary; paragraph styles and whole-block deletes use the block boundary of
// block targets so an empty paragraph stays addressable. Matches and explicit
// ranges are used unmodified.
func Classify(r ResolvedRange, kind EditKind) (doctree.Span, error) {
	switch kind {
	case EditInsertBefore:
		return doctree.Span{Start: r.Start, End: r.Start}, nil
	case EditInsertAfter:
		return doctree.Span{Start: r.End, End: r.End}, nil
	case EditDeleteText, EditReplaceText, EditStyleText:
		return r.Content(), nil
	case EditDeleteBlock, EditStyleParagraph:
		if r.Kind == RangeBlock {
			return r.Block(), nil
		}
		return r.Content(), nil
	default:
		return doctree.Span{}, fmt.Errorf("%w: unknown edit kind %d", ErrInvalidTarget, int(kind))
	}
}
