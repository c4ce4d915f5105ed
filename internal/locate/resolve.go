package locate

import (
	"docsengine/internal/doctree"
)

// Resolution is a resolved target plus the structural detail that produced
// it, when there is any.
type Resolution struct {
	Range   ResolvedRange `json:"range"`
	Cell    *CellRange    `json:"cell,omitempty"`
	Section *SectionSpan  `json:"section,omitempty"`
	Text    string        `json:"text,omitempty"`
}

// Resolve turns target into a range of blocks' index space. Text searches
// flatten the tree; positional and structural targets search it directly.
func Resolve(blocks []doctree.Block, target TargetSpec) (ResolvedRange, error) {
	res, err := ResolveDetail(blocks, target)
	if err != nil {
		return ResolvedRange{}, err
	}
	return res.Range, nil
}

func ResolveDetail(blocks []doctree.Block, target TargetSpec) (Resolution, error) {
	switch t := target.(type) {
	case ExplicitRange:
		if t.Start < 1 {
			return Resolution{}, invalidTarget("start index must be >= 1, got %d", t.Start)
		}
		if t.End <= t.Start {
			return Resolution{}, invalidTarget("end index %d must be greater than start index %d", t.End, t.Start)
		}
		return Resolution{Range: ResolvedRange{Start: t.Start, End: t.End, BlockEnd: t.End, Kind: RangeExplicit}}, nil

	case TextSearch:
		r, err := FindNth(doctree.Flatten(blocks), t.Needle, t.Occurrence)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Range: r, Text: t.Needle}, nil

	case PositionWithin:
		p, err := ContainingParagraph(blocks, t.Index)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Range: paragraphRange(p), Text: p.Text()}, nil

	case TableCell:
		cell, err := TableCellRange(blocks, t.TableStart, t.Row, t.Col)
		if err != nil {
			return Resolution{}, err
		}
		r := ResolvedRange{Start: cell.ContentStart, End: cell.ContentEnd, BlockEnd: cell.ParagraphEnd, Kind: RangeBlock}
		return Resolution{Range: r, Cell: &cell}, nil

	case Section:
		section, err := SectionRange(blocks, t.Heading)
		if err != nil {
			return Resolution{}, err
		}
		// The content boundary keeps the final newline of the section so
		// the paragraph that follows is never merged into it.
		r := ResolvedRange{Start: section.Heading.Start, End: section.SectionEnd - 1, BlockEnd: section.SectionEnd, Kind: RangeBlock}
		return Resolution{Range: r, Section: &section}, nil

	case nil:
		return Resolution{}, invalidTarget("no target given")
	default:
		return Resolution{}, invalidTarget("unsupported target %T", target)
	}
}
