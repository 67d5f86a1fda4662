package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/darkmonitor/internal/model"
)

// JSONWriter outputs reports in JSON format.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
// Output is compact unless an indent option is given.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// jsonReport is the JSON document layout.
type jsonReport struct {
	Keyword       string           `json:"keyword"`
	Date          string           `json:"date"`
	TotalFindings int              `json:"total_findings"`
	Categories    []model.Category `json:"categories"`
}

// Write outputs the report in JSON format. Empty categories are omitted.
func (w *JSONWriter) Write(report *model.Report) (int, error) {
	categories := report.Result.NonEmpty()
	if categories == nil {
		categories = []model.Category{}
	}

	doc := jsonReport{
		Keyword:       report.Keyword,
		Date:          report.Date(),
		TotalFindings: report.Result.TotalFindings(),
		Categories:    categories,
	}

	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(doc, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
