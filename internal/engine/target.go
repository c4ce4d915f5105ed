package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"docsengine/internal/locate"
)

const (
	targetRange     = "range"
	targetText      = "text"
	targetPosition  = "position"
	targetTableCell = "table_cell"
	targetSection   = "section"
)

// targetParams is the wire form of a target. Exactly the fields of the
// selected type are read.
type targetParams struct {
	Type       string `json:"type"`
	Start      *int64 `json:"start,omitempty"`
	End        *int64 `json:"end,omitempty"`
	Text       string `json:"text,omitempty"`
	Occurrence int    `json:"occurrence,omitempty"`
	Index      *int64 `json:"index,omitempty"`
	TableStart *int64 `json:"table_start,omitempty"`
	Row        *int   `json:"row,omitempty"`
	Col        *int   `json:"col,omitempty"`
	Heading    string `json:"heading,omitempty"`
}

func decodeTarget(raw json.RawMessage) (locate.TargetSpec, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("%w: target is required", locate.ErrInvalidTarget)
	}
	var p targetParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %s", locate.ErrInvalidTarget, err)
	}
	return p.spec()
}

func (p targetParams) spec() (locate.TargetSpec, error) {
	switch strings.ToLower(strings.TrimSpace(p.Type)) {
	case targetRange:
		if p.Start == nil || p.End == nil {
			return nil, missingField(targetRange, "start and end")
		}
		return locate.ExplicitRange{Start: *p.Start, End: *p.End}, nil
	case targetText:
		occurrence := p.Occurrence
		if occurrence == 0 {
			occurrence = 1
		}
		return locate.TextSearch{Needle: p.Text, Occurrence: occurrence}, nil
	case targetPosition:
		if p.Index == nil {
			return nil, missingField(targetPosition, "index")
		}
		return locate.PositionWithin{Index: *p.Index}, nil
	case targetTableCell:
		if p.TableStart == nil || p.Row == nil || p.Col == nil {
			return nil, missingField(targetTableCell, "table_start, row and col")
		}
		return locate.TableCell{TableStart: *p.TableStart, Row: *p.Row, Col: *p.Col}, nil
	case targetSection:
		return locate.Section{Heading: p.Heading}, nil
	case "":
		return nil, fmt.Errorf("%w: target type is required", locate.ErrInvalidTarget)
	default:
		return nil, fmt.Errorf("%w: unknown target type %q", locate.ErrInvalidTarget, p.Type)
	}
}

func missingField(kind, fields string) error {
	return fmt.Errorf("%w: %s target requires %s", locate.ErrInvalidTarget, kind, fields)
}
