package diff

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"docsengine/internal/batch"
	"docsengine/internal/doctree"
)

var ErrOutOfRange = errors.New("edit outside document")

// Result is a dry run of a batch against a snapshot's visible text.
type Result struct {
	Before     string   `json:"before"`
	After      string   `json:"after"`
	Changes    []Change `json:"changes"`
	Lines      []Line   `json:"lines,omitempty"`
	Truncated  bool     `json:"truncated,omitempty"`
	Inserted   int      `json:"inserted"`
	Removed    int      `json:"removed"`
	StyleEdits int      `json:"style_edits"`
}

// unit is one cell of the document's index space. Visible cells hold a rune
// and are as wide as its UTF-16 encoding; structural markers between
// segments are invisible cells of width one.
type unit struct {
	text  string
	width int64
}

type model struct {
	units []unit
}

func newModel(segments []doctree.Segment) *model {
	m := &model{}
	var next int64
	for _, seg := range segments {
		for ; next < seg.Start; next++ {
			m.units = append(m.units, unit{width: 1})
		}
		for _, r := range seg.Text {
			w := doctree.UTF16Len(string(r))
			m.units = append(m.units, unit{text: string(r), width: w})
			next += w
		}
	}
	return m
}

// locate returns the position of the unit that starts at index, or
// len(units) when index is the end of the modelled space.
func (m *model) locate(index int64) (int, error) {
	var at int64
	for i, u := range m.units {
		if at == index {
			return i, nil
		}
		if at > index {
			return 0, fmt.Errorf("%w: index %d splits a character", ErrOutOfRange, index)
		}
		at += u.width
	}
	if at == index {
		return len(m.units), nil
	}
	return 0, fmt.Errorf("%w: index %d past end %d", ErrOutOfRange, index, at)
}

func (m *model) insert(index int64, text string) error {
	pos, err := m.locate(index)
	if err != nil {
		return err
	}
	added := make([]unit, 0, utf8.RuneCountInString(text))
	for _, r := range text {
		added = append(added, unit{text: string(r), width: doctree.UTF16Len(string(r))})
	}
	m.units = append(m.units[:pos], append(added, m.units[pos:]...)...)
	return nil
}

func (m *model) remove(span doctree.Span) error {
	from, err := m.locate(span.Start)
	if err != nil {
		return err
	}
	to, err := m.locate(span.End)
	if err != nil {
		return err
	}
	m.units = append(m.units[:from], m.units[to:]...)
	return nil
}

func (m *model) text() string {
	var buf []byte
	for _, u := range m.units {
		buf = append(buf, u.text...)
	}
	return string(buf)
}

// Preview applies requests in batch order to the visible text of segments,
// the way the service would apply them, and diffs the outcome. Style
// requests leave the text untouched and are only counted.
func Preview(segments []doctree.Segment, requests []batch.Request) (Result, error) {
	m := newModel(segments)
	res := Result{Before: doctree.Join(segments)}
	for i, req := range requests {
		var err error
		switch req.Kind {
		case batch.KindInsert:
			err = m.insert(req.Range.Start, req.Payload.Text)
		case batch.KindDelete:
			err = m.remove(req.Range)
		case batch.KindStyleText, batch.KindStyleParagraph:
			res.StyleEdits++
		default:
			err = fmt.Errorf("unknown request kind %v", req.Kind)
		}
		if err != nil {
			return Result{}, fmt.Errorf("request %d (%s): %w", i, req.Kind, err)
		}
	}
	res.After = m.text()
	res.Changes = Changes(res.Before, res.After)
	for _, c := range res.Changes {
		switch c.Op {
		case OpInsert:
			res.Inserted += utf8.RuneCountInString(c.Text)
		case OpDelete:
			res.Removed += utf8.RuneCountInString(c.Text)
		}
	}
	res.Lines, res.Truncated = Lines(res.Before, res.After, MaxDiffLines)
	return res, nil
}
