package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/nao1215/darkmonitor/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeFindings(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and the scan information table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1(reportTitle)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target Keyword", "`" + report.Keyword + "`"},
			{"Date", report.Date()},
			{"Findings", strconv.Itoa(report.Result.TotalFindings())},
		},
	})
	md.PlainText("")
}

// writeFindings writes one section per non-empty category.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, report *model.Report) {
	if report.Result.IsEmpty() {
		md.Tip(noResultsNotice)
		md.PlainText("")
		return
	}

	for _, category := range report.Result.NonEmpty() {
		md.H2(category.Label)
		md.PlainText("")
		md.BulletList(category.Findings...)
		md.PlainText("")
	}
}
