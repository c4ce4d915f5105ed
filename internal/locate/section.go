package locate

import (
	"fmt"
	"strings"

	"docsengine/internal/doctree"
)

// SectionSpan is a heading and the extent of the section it opens.
type SectionSpan struct {
	Heading    doctree.Span `json:"heading"`
	Level      int          `json:"level"`
	SectionEnd int64        `json:"section_end"`
}

// Body is the part of the section after the heading paragraph.
func (s SectionSpan) Body() doctree.Span {
	return doctree.Span{Start: s.Heading.End, End: s.SectionEnd}
}

// SectionRange finds the first top-level heading whose trimmed text equals
// heading and extends the section up to, not including, the next heading of
// the same or higher rank. Duplicate headings are not disambiguated.
func SectionRange(blocks []doctree.Block, heading string) (SectionSpan, error) {
	want := strings.TrimSpace(heading)
	if want == "" {
		return SectionSpan{}, invalidTarget("heading text is empty")
	}
	for i, block := range blocks {
		p, ok := block.(*doctree.Paragraph)
		if !ok {
			continue
		}
		level, ok := p.HeadingLevel()
		if !ok || strings.TrimSpace(p.Text()) != want {
			continue
		}
		span := SectionSpan{Heading: p.Bounds, Level: level, SectionEnd: p.Bounds.End}
		for _, next := range blocks[i+1:] {
			if np, ok := next.(*doctree.Paragraph); ok {
				if nextLevel, ok := np.HeadingLevel(); ok && nextLevel <= level {
					break
				}
			}
			span.SectionEnd = next.Span().End
		}
		return span, nil
	}
	return SectionSpan{}, &NotFoundError{What: fmt.Sprintf("heading %q", want)}
}
