package engine

import (
	"docsengine/internal/docsapi"
	"docsengine/internal/doctree/layout"
)

// FakeDocumentID is served when DOCSENGINE_FAKE_DOCS is set, so clients can
// exercise the RPC surface without credentials.
const FakeDocumentID = "fake-doc"

func newFakeDocs() *docsapi.Fake {
	doc := layout.New().
		Title("Quarterly report").
		Heading(1, "Summary").
		Paragraph("Revenue grew in every region. Test results follow.").
		Heading(2, "Details").
		Table([][]string{{"Region", "Growth"}, {"North", ""}}).
		Heading(1, "Appendix").
		Paragraph("Test test test.").
		Document(FakeDocumentID)
	doc.Title = "Quarterly report"
	return docsapi.NewFake(doc)
}
