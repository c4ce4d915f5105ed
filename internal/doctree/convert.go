package doctree

import "google.golang.org/api/docs/v1"

// FromElements converts the service's structural elements into blocks.
// Nil elements and element kinds the engine does not address are dropped;
// their index space still separates the neighbouring blocks.
func FromElements(elements []*docs.StructuralElement) []Block {
	blocks := make([]Block, 0, len(elements))
	for _, el := range elements {
		if el == nil {
			continue
		}
		bounds := Span{Start: el.StartIndex, End: el.EndIndex}
		switch {
		case el.Paragraph != nil:
			blocks = append(blocks, convertParagraph(bounds, el.Paragraph))
		case el.Table != nil:
			blocks = append(blocks, convertTable(bounds, el.Table))
		case el.TableOfContents != nil:
			blocks = append(blocks, &TableOfContents{Bounds: bounds, Content: FromElements(el.TableOfContents.Content)})
		case el.SectionBreak != nil:
			blocks = append(blocks, &SectionBreak{Bounds: bounds})
		}
	}
	return blocks
}

// FromBody converts a document or tab body; a nil body yields no blocks.
func FromBody(body *docs.Body) []Block {
	if body == nil {
		return nil
	}
	return FromElements(body.Content)
}

func convertParagraph(bounds Span, p *docs.Paragraph) *Paragraph {
	para := &Paragraph{Bounds: bounds}
	if p.ParagraphStyle != nil {
		para.NamedStyle = p.ParagraphStyle.NamedStyleType
	}
	for _, el := range p.Elements {
		if el == nil || el.TextRun == nil || el.TextRun.Content == "" {
			continue
		}
		para.Runs = append(para.Runs, Run{
			Text:  el.TextRun.Content,
			Start: el.StartIndex,
			End:   el.EndIndex,
		})
	}
	return para
}

func convertTable(bounds Span, t *docs.Table) *Table {
	table := &Table{Bounds: bounds, Rows: make([]TableRow, 0, len(t.TableRows))}
	for _, row := range t.TableRows {
		if row == nil {
			continue
		}
		tr := TableRow{
			Bounds: Span{Start: row.StartIndex, End: row.EndIndex},
			Cells:  make([]TableCell, 0, len(row.TableCells)),
		}
		for _, cell := range row.TableCells {
			if cell == nil {
				continue
			}
			tr.Cells = append(tr.Cells, TableCell{
				Bounds:  Span{Start: cell.StartIndex, End: cell.EndIndex},
				Content: FromElements(cell.Content),
			})
		}
		table.Rows = append(table.Rows, tr)
	}
	return table
}
