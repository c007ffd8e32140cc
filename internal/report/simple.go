package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/ftpbrute/internal/model"
)

// SimpleWriter outputs a plain text report for terminals and text files.
type SimpleWriter struct {
	baseWriter

	// verbose adds the per-attempt log.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose includes every attempt in the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	if w.verbose {
		w.writeAttempts(&sb, report)
	}
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          FTPBRUTE REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	if report.ID != 0 {
		fmt.Fprintf(sb, "Run ID:     %d\n", report.ID)
	}
	fmt.Fprintf(sb, "Target:     %s\n", report.Host)
	fmt.Fprintf(sb, "Username:   %s\n", report.Username)
	if report.Wordlist != "" {
		fmt.Fprintf(sb, "Wordlist:   %s\n", report.Wordlist)
	}
	fmt.Fprintf(sb, "Timeout:    %s | Delay: %s\n", seconds(report.Timeout), seconds(report.Delay))
	fmt.Fprintf(sb, "Started:    %s\n", report.StartedAt.Format(timeLayout))
	if d := report.Duration(); d > 0 {
		fmt.Fprintf(sb, "Duration:   %s\n", d.Round(timeRounding))
	}
	fmt.Fprintf(sb, "Status:     %s\n", statusText(report))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "  Anonymous:     %s\n", report.Anonymous)
	fmt.Fprintf(sb, "  Candidates:    %d\n", report.Candidates)
	fmt.Fprintf(sb, "  Attempts:      %d\n", report.AttemptsMade)
	fmt.Fprintf(sb, "  Rejected:      %d\n", report.CountOutcome(model.OutcomeRejected))
	fmt.Fprintf(sb, "  Inconclusive:  %d\n", report.CountOutcome(model.OutcomeInconclusive))
	sb.WriteString("\n")

	if report.Found {
		fmt.Fprintf(sb, "  [+] Username: %s | Password: %s\n\n", report.Username, report.FoundPassword)
	}
}

func (w *SimpleWriter) writeAttempts(sb *strings.Builder, report *model.RunReport) {
	if len(report.Attempts) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ATTEMPTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, a := range report.Attempts {
		fmt.Fprintf(sb, "  [%s] #%d %s (%s)\n",
			outcomeIndicator(a.Outcome), a.Index, a.Outcome, a.Elapsed.Round(timeRounding))
	}
	sb.WriteString("\n")
}

// outcomeIndicator mirrors the console prefixes.
func outcomeIndicator(o model.Outcome) string {
	switch o {
	case model.OutcomeAuthenticated:
		return "+"
	case model.OutcomeRejected:
		return "-"
	case model.OutcomeInconclusive:
		return "!"
	default:
		return "?"
	}
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by ftpbrute\n")
	sb.WriteString("https://github.com/nao1215/ftpbrute\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
