// Package locate resolves logical editing targets into exact ranges of the
// document's index space.
package locate

import (
	"fmt"

	"docsengine/internal/doctree"
)

// TargetSpec is one of ExplicitRange, TextSearch, PositionWithin, TableCell
// or Section.
type TargetSpec interface {
	isTarget()
}

type ExplicitRange struct {
	Start int64
	End   int64
}

// TextSearch selects the Occurrence-th (1-based) case-sensitive match.
type TextSearch struct {
	Needle     string
	Occurrence int
}

type PositionWithin struct {
	Index int64
}

// TableCell addresses a cell of the table whose own start index equals
// TableStart. Row and Col are zero-based.
type TableCell struct {
	TableStart int64
	Row        int
	Col        int
}

type Section struct {
	Heading string
}

func (ExplicitRange) isTarget()  {}
func (TextSearch) isTarget()     {}
func (PositionWithin) isTarget() {}
func (TableCell) isTarget()      {}
func (Section) isTarget()        {}

type RangeKind int

const (
	RangeExplicit RangeKind = iota
	RangeMatch
	RangeBlock
)

func (k RangeKind) String() string {
	switch k {
	case RangeExplicit:
		return "explicit"
	case RangeMatch:
		return "match"
	case RangeBlock:
		return "block"
	default:
		return fmt.Sprintf("RangeKind(%d)", int(k))
	}
}

func (k RangeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ResolvedRange is a resolved target. For RangeBlock, End is the content end
// (the trailing separator excluded) and BlockEnd includes the separator. For
// the other kinds End and BlockEnd are equal.
type ResolvedRange struct {
	Start    int64     `json:"start"`
	End      int64     `json:"end"`
	BlockEnd int64     `json:"block_end"`
	Kind     RangeKind `json:"kind"`
}

func (r ResolvedRange) Content() doctree.Span {
	return doctree.Span{Start: r.Start, End: r.End}
}

func (r ResolvedRange) Block() doctree.Span {
	return doctree.Span{Start: r.Start, End: r.BlockEnd}
}
