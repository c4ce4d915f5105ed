// Package doctree models the remote document as a closed set of block
// variants carrying the service's own [start, end) index ranges.
package doctree

import "strings"

// Span is a half-open range in the document's index space.
type Span struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

func (s Span) Len() int64 {
	return s.End - s.Start
}

func (s Span) Contains(index int64) bool {
	return index >= s.Start && index < s.End
}

func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

func (s Span) IsEmpty() bool {
	return s.End <= s.Start
}

// Block is implemented only by the variants in this package.
type Block interface {
	Span() Span
	isBlock()
}

// Run is a leaf span of literal text. End-Start equals the text length in
// UTF-16 code units.
type Run struct {
	Text  string
	Start int64
	End   int64
}

type Paragraph struct {
	Bounds     Span
	Runs       []Run
	NamedStyle string
}

type Table struct {
	Bounds Span
	Rows   []TableRow
}

type TableRow struct {
	Bounds Span
	Cells  []TableCell
}

type TableCell struct {
	Bounds  Span
	Content []Block
}

type SectionBreak struct {
	Bounds Span
}

type TableOfContents struct {
	Bounds  Span
	Content []Block
}

func (p *Paragraph) Span() Span       { return p.Bounds }
func (t *Table) Span() Span           { return t.Bounds }
func (s *SectionBreak) Span() Span    { return s.Bounds }
func (t *TableOfContents) Span() Span { return t.Bounds }

func (*Paragraph) isBlock()       {}
func (*Table) isBlock()           {}
func (*SectionBreak) isBlock()    {}
func (*TableOfContents) isBlock() {}

const (
	StyleTitle    = "TITLE"
	StyleSubtitle = "SUBTITLE"
	StyleNormal   = "NORMAL_TEXT"

	headingPrefix = "HEADING_"
)

// Text returns the concatenated run text of the paragraph, including its
// trailing newline when the service reports one.
func (p *Paragraph) Text() string {
	if len(p.Runs) == 1 {
		return p.Runs[0].Text
	}
	var b strings.Builder
	for _, run := range p.Runs {
		b.WriteString(run.Text)
	}
	return b.String()
}

// HeadingLevel reports the structural rank of a heading paragraph. Title and
// subtitle rank 0 and outrank every numbered heading.
func (p *Paragraph) HeadingLevel() (int, bool) {
	switch p.NamedStyle {
	case StyleTitle, StyleSubtitle:
		return 0, true
	}
	rest, ok := strings.CutPrefix(p.NamedStyle, headingPrefix)
	if !ok || rest == "" {
		return 0, false
	}
	level := 0
	for _, ch := range rest {
		if ch < '0' || ch > '9' {
			return 0, false
		}
		level = level*10 + int(ch-'0')
	}
	if level == 0 {
		return 0, false
	}
	return level, true
}

// RowCount and ColumnCount describe the table's extents as stored; rows may
// carry different cell counts after merges, so ColumnCount is per row.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

func (t *Table) ColumnCount(row int) int {
	if row < 0 || row >= len(t.Rows) {
		return 0
	}
	return len(t.Rows[row].Cells)
}
