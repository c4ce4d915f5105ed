package doctree

// Segment is one run's visible text together with the true range it occupies.
type Segment struct {
	Text  string `json:"text"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
}

// Flatten lists the text runs of blocks in document order, descending into
// table cells and tables of contents. Blocks without runs contribute nothing.
// An empty tree yields a nil slice.
func Flatten(blocks []Block) []Segment {
	var segments []Segment
	Walk(blocks, func(p *Paragraph) {
		for _, run := range p.Runs {
			if run.Text == "" {
				continue
			}
			segments = append(segments, Segment{Text: run.Text, Start: run.Start, End: run.End})
		}
	})
	return segments
}

// Walk visits every paragraph reachable from blocks in document order.
func Walk(blocks []Block, visit func(*Paragraph)) {
	for _, block := range blocks {
		switch b := block.(type) {
		case *Paragraph:
			visit(b)
		case *Table:
			for _, row := range b.Rows {
				for _, cell := range row.Cells {
					Walk(cell.Content, visit)
				}
			}
		case *TableOfContents:
			Walk(b.Content, visit)
		case *SectionBreak:
		}
	}
}

// Join concatenates the segment texts.
func Join(segments []Segment) string {
	n := 0
	for _, seg := range segments {
		n += len(seg.Text)
	}
	buf := make([]byte, 0, n)
	for _, seg := range segments {
		buf = append(buf, seg.Text...)
	}
	return string(buf)
}

// TextAt re-extracts the visible text addressed by span directly from the
// segments, ignoring index space that carries no text.
func TextAt(segments []Segment, span Span) string {
	var buf []byte
	for _, seg := range segments {
		if seg.End <= span.Start || seg.Start >= span.End {
			continue
		}
		from := max(span.Start, seg.Start) - seg.Start
		to := min(span.End, seg.End) - seg.Start
		buf = append(buf, seg.Text[ByteOffset(seg.Text, from):ByteOffset(seg.Text, to)]...)
	}
	return string(buf)
}
