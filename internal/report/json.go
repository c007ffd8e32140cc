package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/ftpbrute/internal/model"
)

// JSONWriter outputs reports in JSON format for tool integration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent       bool
	indentPrefix string
	indentString string

	// version is embedded in the document when non-empty.
	version string
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

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the ftpbrute version in the output document.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Summary holds the figures derived from a report's attempt log.
type Summary struct {
	Status       string        `json:"status"`
	Rejected     int           `json:"rejected"`
	Inconclusive int           `json:"inconclusive"`
	Duration     time.Duration `json:"duration"`
}

// JSONReport wraps a RunReport with output metadata.
type JSONReport struct {
	Version string           `json:"version,omitempty"`
	Report  *model.RunReport `json:"report"`
	Summary Summary          `json:"summary"`
}

// NewJSONReport builds the document written by JSONWriter.
func NewJSONReport(report *model.RunReport, version string) *JSONReport {
	return &JSONReport{
		Version: version,
		Report:  report,
		Summary: Summary{
			Status:       statusText(report),
			Rejected:     report.CountOutcome(model.OutcomeRejected),
			Inconclusive: report.CountOutcome(model.OutcomeInconclusive),
			Duration:     report.Duration(),
		},
	}
}

// Write outputs the report wrapped with metadata.
func (w *JSONWriter) Write(report *model.RunReport) (int, error) {
	return w.writeJSON(NewJSONReport(report, w.version))
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
