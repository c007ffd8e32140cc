package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/ftpbrute/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// maxMarkdownAttempts caps the attempts table; longer runs are summarised.
const maxMarkdownAttempts = 100

// MarkdownWriter outputs reports in Markdown format for sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeAttempts(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("ftpbrute Report")
	md.PlainText("")

	rows := [][]string{
		{"Target", tableCode(report.Host)},
		{"Username", tableCode(report.Username)},
	}
	if report.Wordlist != "" {
		rows = append(rows, []string{"Wordlist", tableCode(report.Wordlist)})
	}
	rows = append(rows,
		[]string{"Timeout", seconds(report.Timeout)},
		[]string{"Delay", seconds(report.Delay)},
		[]string{"Started", report.StartedAt.Format(timeLayout)},
		[]string{"Duration", report.Duration().Round(timeRounding).String()},
		[]string{"Status", w.statusBadge(report)},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) statusBadge(report *model.RunReport) string {
	switch {
	case report.Succeeded():
		return "🔓 " + statusText(report)
	case report.Interrupted:
		return "⚠️ " + statusText(report)
	default:
		return "🔒 " + statusText(report)
	}
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Summary")
	md.PlainText("")

	rejected := report.CountOutcome(model.OutcomeRejected)
	inconclusive := report.CountOutcome(model.OutcomeInconclusive)
	authenticated := report.CountOutcome(model.OutcomeAuthenticated)

	md.Table(markdown.TableSet{
		Header: []string{"Item", "Value"},
		Rows: [][]string{
			{"Anonymous login", string(report.Anonymous)},
			{"Candidates", strconv.Itoa(report.Candidates)},
			{"Attempts made", strconv.Itoa(report.AttemptsMade)},
			{"Authenticated", strconv.Itoa(authenticated)},
			{"Rejected", strconv.Itoa(rejected)},
			{"Inconclusive", strconv.Itoa(inconclusive)},
		},
	})
	md.PlainText("")

	if len(report.Attempts) > 0 {
		w.writePieChart(md, authenticated, rejected, inconclusive)
	}
	w.writeAlert(md, report, inconclusive)
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, authenticated, rejected, inconclusive int) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Attempt Outcomes"),
		piechart.WithShowData(true),
	)
	if authenticated > 0 {
		chart.LabelAndIntValue("Authenticated", uint64(authenticated))
	}
	if rejected > 0 {
		chart.LabelAndIntValue("Rejected", uint64(rejected))
	}
	if inconclusive > 0 {
		chart.LabelAndIntValue("Inconclusive", uint64(inconclusive))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.RunReport, inconclusive int) {
	switch {
	case report.Anonymous == model.AnonymousAccepted:
		md.Cautionf("The FTP server on %s accepts anonymous logins.", codeSpan(report.Host))
	case report.Found:
		md.Cautionf("Valid credentials found for user %s: password %s (attempt %d of %d).",
			codeSpan(report.Username), codeSpan(report.FoundPassword), report.AttemptsMade, report.Candidates)
	case report.Interrupted:
		md.Warningf("The run was interrupted after %d of %d attempts.", report.AttemptsMade, report.Candidates)
	case inconclusive > 0:
		md.Importantf("%d attempt(s) were inconclusive; those candidates were not verified.", inconclusive)
	default:
		md.Tip("No valid credentials found.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeAttempts(md *markdown.Markdown, report *model.RunReport) {
	if len(report.Attempts) == 0 {
		return
	}

	md.H2("Attempts")
	md.PlainText("")

	attempts := report.Attempts
	if len(attempts) > maxMarkdownAttempts {
		attempts = attempts[len(attempts)-maxMarkdownAttempts:]
		md.PlainTextf("Showing the last %d of %d attempts.", maxMarkdownAttempts, len(report.Attempts))
		md.PlainText("")
	}

	rows := make([][]string, len(attempts))
	for i, a := range attempts {
		rows[i] = []string{
			strconv.Itoa(a.Index),
			a.Outcome.String(),
			a.Elapsed.Round(timeRounding).String(),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Outcome", "Elapsed"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [ftpbrute](https://github.com/nao1215/ftpbrute)*")
}

// codeSpan wraps s in an inline code span whose fence is longer than any
// backtick run inside s.
func codeSpan(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	fence := strings.Repeat("`", longest+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		s = " " + s + " "
	}
	return fence + s + fence
}

// tableCode is codeSpan for a table cell, where a bare pipe ends the cell.
func tableCode(s string) string {
	return strings.ReplaceAll(codeSpan(s), "|", `\|`)
}
