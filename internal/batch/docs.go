package batch

import (
	"google.golang.org/api/docs/v1"
)

// ToDocsRequests converts requests into the service's batchUpdate shape. An
// empty tabID addresses the document's first tab.
func ToDocsRequests(requests []Request, tabID string) []*docs.Request {
	out := make([]*docs.Request, 0, len(requests))
	for _, req := range requests {
		rng := &docs.Range{StartIndex: req.Range.Start, EndIndex: req.Range.End, TabId: tabID}
		switch req.Kind {
		case KindInsert:
			out = append(out, &docs.Request{InsertText: &docs.InsertTextRequest{
				Location: &docs.Location{Index: req.Range.Start, TabId: tabID},
				Text:     req.Payload.Text,
			}})
		case KindDelete:
			out = append(out, &docs.Request{DeleteContentRange: &docs.DeleteContentRangeRequest{Range: rng}})
		case KindStyleText:
			out = append(out, &docs.Request{UpdateTextStyle: &docs.UpdateTextStyleRequest{
				Range:     rng,
				TextStyle: req.Payload.TextStyle,
				Fields:    req.Payload.Fields,
			}})
		case KindStyleParagraph:
			out = append(out, &docs.Request{UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
				Range:          rng,
				ParagraphStyle: req.Payload.ParagraphStyle,
				Fields:         req.Payload.Fields,
			}})
		}
	}
	return out
}
