package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/ftpbrute/internal/model"
)

// Writer renders a run report to some destination.
type Writer interface {
	// Write outputs the report and returns the number of bytes written.
	Write(report *model.RunReport) (int, error)
}

// Format selects a Writer implementation.
type Format string

const (
	// FormatText is the human-readable text report.
	FormatText Format = "text"
	// FormatJSON is the machine-readable JSON report.
	FormatJSON Format = "json"
	// FormatMarkdown is the Markdown report.
	FormatMarkdown Format = "markdown"
)

// NewWriter returns the Writer for format writing to output.
// Unknown formats fall back to text.
func NewWriter(format Format, output io.Writer, version string) Writer {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint(), WithVersion(version))
	case FormatMarkdown:
		return NewMarkdownWriter(output)
	default:
		return NewSimpleWriter(output, WithVerbose(true))
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// statusText is the one-line verdict for a report.
func statusText(report *model.RunReport) string {
	switch {
	case report.Anonymous == model.AnonymousAccepted:
		return "Anonymous login accepted"
	case report.Found:
		return "Credentials found"
	case report.Interrupted:
		return "Interrupted (partial results)"
	default:
		return "No valid credentials found"
	}
}

// seconds formats d as a decimal number of seconds, e.g. "0.5s".
func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
}

const timeLayout = "2006-01-02 15:04:05 MST"

// timeRounding is the precision used for printed durations.
const timeRounding = time.Millisecond
