package locate

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"docsengine/internal/doctree"
)

// LogicalIndex is the concatenation of segment texts together with the
// logical byte offset at which each segment begins.
type LogicalIndex struct {
	text     string
	segments []doctree.Segment
	offsets  []int
}

func NewLogicalIndex(segments []doctree.Segment) *LogicalIndex {
	offsets := make([]int, len(segments)+1)
	for i, seg := range segments {
		offsets[i+1] = offsets[i] + len(seg.Text)
	}
	return &LogicalIndex{
		text:     doctree.Join(segments),
		segments: segments,
		offsets:  offsets,
	}
}

func (ix *LogicalIndex) Text() string {
	return ix.text
}

// ToDocument maps a logical byte offset to a true document index. An offset
// on a segment boundary belongs to the following segment unless atEnd is set,
// in which case it closes the preceding one.
func (ix *LogicalIndex) ToDocument(offset int, atEnd bool) (int64, bool) {
	if offset < 0 || offset > len(ix.text) || len(ix.segments) == 0 {
		return 0, false
	}
	var i int
	if atEnd {
		i = sort.Search(len(ix.segments), func(i int) bool { return ix.offsets[i+1] >= offset })
	} else {
		i = sort.Search(len(ix.segments), func(i int) bool { return ix.offsets[i+1] > offset })
	}
	if i < 0 || i >= len(ix.segments) {
		return 0, false
	}
	seg := ix.segments[i]
	within := offset - ix.offsets[i]
	if within < 0 || within > len(seg.Text) {
		return 0, false
	}
	if within < len(seg.Text) && !utf8.RuneStart(seg.Text[within]) {
		return 0, false
	}
	index := seg.Start + doctree.UTF16Len(seg.Text[:within])
	if index > seg.End {
		return 0, false
	}
	return index, true
}

// FindNth resolves the occurrence-th (1-based) case-sensitive match of needle.
func FindNth(segments []doctree.Segment, needle string, occurrence int) (ResolvedRange, error) {
	if err := validateSearch(needle, occurrence); err != nil {
		return ResolvedRange{}, err
	}
	return NewLogicalIndex(segments).FindNth(needle, occurrence)
}

func (ix *LogicalIndex) FindNth(needle string, occurrence int) (ResolvedRange, error) {
	if err := validateSearch(needle, occurrence); err != nil {
		return ResolvedRange{}, err
	}
	var (
		found  int
		result ResolvedRange
	)
	ix.scan(needle, func(r ResolvedRange) bool {
		found++
		if found == occurrence {
			result = r
			return false
		}
		return true
	})
	if found < occurrence {
		return ResolvedRange{}, &NotFoundError{What: fmt.Sprintf("text %q", needle), Requested: occurrence, Found: found}
	}
	return result, nil
}

// FindAll lists every match in document order.
func (ix *LogicalIndex) FindAll(needle string) []ResolvedRange {
	if needle == "" {
		return nil
	}
	var matches []ResolvedRange
	ix.scan(needle, func(r ResolvedRange) bool {
		matches = append(matches, r)
		return true
	})
	return matches
}

// scan reports matches left to right. Each scan restarts one character after
// the previous match start, so overlapping matches are all reported. A match
// that cannot be mapped back to document indices is skipped.
func (ix *LogicalIndex) scan(needle string, yield func(ResolvedRange) bool) {
	from := 0
	for from <= len(ix.text) {
		i := strings.Index(ix.text[from:], needle)
		if i < 0 {
			return
		}
		start := from + i
		_, size := utf8.DecodeRuneInString(ix.text[start:])
		from = start + max(size, 1)

		s, okStart := ix.ToDocument(start, false)
		e, okEnd := ix.ToDocument(start+len(needle), true)
		if !okStart || !okEnd || e <= s {
			continue
		}
		if !yield(ResolvedRange{Start: s, End: e, BlockEnd: e, Kind: RangeMatch}) {
			return
		}
	}
}

func validateSearch(needle string, occurrence int) error {
	if needle == "" {
		return invalidTarget("search text is empty")
	}
	if !utf8.ValidString(needle) {
		return invalidTarget("search text is not valid UTF-8")
	}
	if occurrence < 1 {
		return invalidTarget("occurrence must be >= 1, got %d", occurrence)
	}
	return nil
}
