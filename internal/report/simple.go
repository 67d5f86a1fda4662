package report

import (
	"io"
	"strings"

	"github.com/nao1215/darkmonitor/internal/model"
)

const (
	reportTitle     = "DarkWeb Monitor Report"
	reportRule      = "====================="
	noResultsNotice = "No results found."
)

// SimpleWriter outputs the plain text report.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs Render(report).
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	return io.WriteString(w.output, Render(report))
}

// Render returns the plain text report. Output depends only on the report,
// so equal inputs give byte-identical text.
//
// The header is followed by "No results found." when every category is
// empty. Otherwise each non-empty category is printed in insertion order
// as its label followed by one "- " line per finding.
func Render(report *model.Report) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(reportTitle + "\n")
	sb.WriteString(reportRule + "\n")
	sb.WriteString("Target Keyword: " + report.Keyword + "\n")
	sb.WriteString("Date: " + report.Date() + "\n")
	sb.WriteString(reportRule + "\n\n")

	if report.Result == nil || report.Result.IsEmpty() {
		sb.WriteString(noResultsNotice + "\n")
		return sb.String()
	}

	for _, category := range report.Result.NonEmpty() {
		sb.WriteString("\n" + category.Label + ":\n")
		for _, finding := range category.Findings {
			sb.WriteString("- " + finding + "\n")
		}
	}

	return sb.String()
}
