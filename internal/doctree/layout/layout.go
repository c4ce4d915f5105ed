// Package layout builds service-shaped documents, assigning
// indices the way the remote service lays them out: a leading section break,
// one index per table, row and cell marker, and one closing index per table.
package layout

import (
	"strings"

	"google.golang.org/api/docs/v1"

	"docsengine/internal/doctree"
)

type Builder struct {
	next     int64
	elements []*docs.StructuralElement
}

// New starts a document with the section break every body opens with.
func New() *Builder {
	b := &Builder{next: 1}
	b.elements = append(b.elements, &docs.StructuralElement{
		StartIndex:   0,
		EndIndex:     1,
		SectionBreak: &docs.SectionBreak{},
	})
	return b
}

// Paragraph appends a NORMAL_TEXT paragraph. A trailing newline is added when
// the last run lacks one.
func (b *Builder) Paragraph(runs ...string) *Builder {
	return b.styled(doctree.StyleNormal, runs...)
}

func (b *Builder) Heading(level int, text string) *Builder {
	return b.styled(headingStyle(level), text)
}

func (b *Builder) Title(text string) *Builder {
	return b.styled(doctree.StyleTitle, text)
}

func (b *Builder) styled(style string, runs ...string) *Builder {
	el, next := paragraph(b.next, style, runs)
	b.elements = append(b.elements, el)
	b.next = next
	return b
}

// Table appends a table whose cells each hold one paragraph.
func (b *Builder) Table(cells [][]string) *Builder {
	start := b.next
	pos := start + 1
	table := &docs.Table{Rows: int64(len(cells))}
	for _, row := range cells {
		if int64(len(row)) > table.Columns {
			table.Columns = int64(len(row))
		}
		tr := &docs.TableRow{StartIndex: pos}
		pos++
		for _, text := range row {
			cell := &docs.TableCell{StartIndex: pos}
			pos++
			el, next := paragraph(pos, doctree.StyleNormal, []string{text})
			cell.Content = []*docs.StructuralElement{el}
			pos = next
			cell.EndIndex = pos
			tr.TableCells = append(tr.TableCells, cell)
		}
		tr.EndIndex = pos
		table.TableRows = append(table.TableRows, tr)
	}
	pos++
	b.elements = append(b.elements, &docs.StructuralElement{StartIndex: start, EndIndex: pos, Table: table})
	b.next = pos
	return b
}

// SectionBreak appends a mid-document section break, one index wide.
func (b *Builder) SectionBreak() *Builder {
	b.elements = append(b.elements, &docs.StructuralElement{
		StartIndex:   b.next,
		EndIndex:     b.next + 1,
		SectionBreak: &docs.SectionBreak{},
	})
	b.next++
	return b
}

// Next reports the index the next appended block will start at.
func (b *Builder) Next() int64 {
	return b.next
}

func (b *Builder) Elements() []*docs.StructuralElement {
	return b.elements
}

func (b *Builder) Blocks() []doctree.Block {
	return doctree.FromElements(b.elements)
}

func (b *Builder) Document(id string) *docs.Document {
	return &docs.Document{
		DocumentId: id,
		RevisionId: "rev-1",
		Body:       &docs.Body{Content: b.elements},
	}
}

func paragraph(start int64, style string, runs []string) (*docs.StructuralElement, int64) {
	if len(runs) == 0 {
		runs = []string{""}
	}
	last := runs[len(runs)-1]
	if !strings.HasSuffix(last, "\n") {
		runs = append(append([]string{}, runs[:len(runs)-1]...), last+"\n")
	}
	para := &docs.Paragraph{ParagraphStyle: &docs.ParagraphStyle{NamedStyleType: style}}
	pos := start
	for _, text := range runs {
		if text == "" {
			continue
		}
		end := pos + doctree.UTF16Len(text)
		para.Elements = append(para.Elements, &docs.ParagraphElement{
			StartIndex: pos,
			EndIndex:   end,
			TextRun:    &docs.TextRun{Content: text},
		})
		pos = end
	}
	return &docs.StructuralElement{StartIndex: start, EndIndex: pos, Paragraph: para}, pos
}

func headingStyle(level int) string {
	return "HEADING_" + string(rune('0'+level))
}
