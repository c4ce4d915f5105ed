package locate

import (
	"fmt"

	"docsengine/internal/doctree"
)

// CellRange holds the three boundaries of a table cell. ContentEnd excludes
// the separator every cell ends with; ParagraphEnd includes it so paragraph
// styles can reach an empty cell.
type CellRange struct {
	Cell         doctree.Span `json:"cell"`
	ContentStart int64        `json:"content_start"`
	ContentEnd   int64        `json:"content_end"`
	ParagraphEnd int64        `json:"paragraph_end"`
}

func (c CellRange) Empty() bool {
	return c.ContentEnd == c.ContentStart
}

// TableCellRange locates the table that starts exactly at tableStart, at any
// nesting depth, and returns the boundaries of cell (row, col).
func TableCellRange(blocks []doctree.Block, tableStart int64, row, col int) (CellRange, error) {
	table := findTable(blocks, tableStart)
	if table == nil {
		return CellRange{}, &NotFoundError{What: fmt.Sprintf("table starting at index %d", tableStart)}
	}
	if row < 0 || row >= table.RowCount() {
		return CellRange{}, &OutOfBoundsError{Axis: "row", Requested: row, Limit: table.RowCount()}
	}
	if col < 0 || col >= table.ColumnCount(row) {
		return CellRange{}, &OutOfBoundsError{Axis: "column", Requested: col, Limit: table.ColumnCount(row), Row: row}
	}
	return cellRange(table.Rows[row].Cells[col]), nil
}

func findTable(blocks []doctree.Block, start int64) *doctree.Table {
	for _, block := range blocks {
		switch b := block.(type) {
		case *doctree.Table:
			if b.Bounds.Start == start {
				return b
			}
			if !b.Bounds.Contains(start) {
				continue
			}
			for _, row := range b.Rows {
				for _, cell := range row.Cells {
					if found := findTable(cell.Content, start); found != nil {
						return found
					}
				}
			}
		case *doctree.TableOfContents:
			if found := findTable(b.Content, start); found != nil {
				return found
			}
		}
	}
	return nil
}

func cellRange(cell doctree.TableCell) CellRange {
	r := CellRange{Cell: cell.Bounds}
	var first, last *doctree.Run
	doctree.Walk(cell.Content, func(p *doctree.Paragraph) {
		for i := range p.Runs {
			if first == nil {
				first = &p.Runs[i]
			}
			last = &p.Runs[i]
		}
	})
	if last == nil {
		// No runs reported: the separator sits right after the cell marker.
		start := cell.Bounds.Start + 1
		r.ContentStart, r.ContentEnd, r.ParagraphEnd = start, start, start+1
		return r
	}
	r.ContentStart = first.Start
	r.ParagraphEnd = last.End
	r.ContentEnd = max(last.End-1, r.ContentStart)
	return r
}
