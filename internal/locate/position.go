package locate

import (
	"fmt"

	"docsengine/internal/doctree"
)

// ContainingParagraph finds the paragraph whose range holds index, descending
// into table cells and tables of contents. An index held only by a
// non-paragraph block yields a *StructuralMismatchError; an index outside
// every block yields a *NotFoundError.
func ContainingParagraph(blocks []doctree.Block, index int64) (*doctree.Paragraph, error) {
	para, region := containing(blocks, index)
	if para != nil {
		return para, nil
	}
	if region != "" {
		return nil, &StructuralMismatchError{Index: index, Region: region}
	}
	return nil, &NotFoundError{What: fmt.Sprintf("index %d", index)}
}

// containing returns the paragraph holding index, or else the name of the
// innermost block that holds it.
func containing(blocks []doctree.Block, index int64) (*doctree.Paragraph, string) {
	for _, block := range blocks {
		if !block.Span().Contains(index) {
			continue
		}
		switch b := block.(type) {
		case *doctree.Paragraph:
			return b, ""
		case *doctree.Table:
			for _, row := range b.Rows {
				for _, cell := range row.Cells {
					if !cell.Bounds.Contains(index) {
						continue
					}
					if para, region := containing(cell.Content, index); para != nil || region != "" {
						return para, region
					}
					return nil, "table cell"
				}
			}
			return nil, "table"
		case *doctree.TableOfContents:
			if para, region := containing(b.Content, index); para != nil || region != "" {
				return para, region
			}
			return nil, "table of contents"
		case *doctree.SectionBreak:
			return nil, "section break"
		}
	}
	return nil, ""
}

// paragraphRange splits a paragraph into its content range and its block
// range; the block range keeps the trailing newline.
func paragraphRange(p *doctree.Paragraph) ResolvedRange {
	r := ResolvedRange{
		Start:    p.Bounds.Start,
		End:      p.Bounds.Start,
		BlockEnd: p.Bounds.End,
		Kind:     RangeBlock,
	}
	if n := len(p.Runs); n > 0 {
		last := p.Runs[n-1]
		r.End = last.End
		if last.Text != "" && last.Text[len(last.Text)-1] == '\n' {
			r.End--
		}
	}
	if r.End < r.Start {
		r.End = r.Start
	}
	return r
}
