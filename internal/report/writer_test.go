package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/ftpbrute/internal/model"
)

var testStart = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

// createTestReport returns a finished run that found "hunter2" on the third try.
func createTestReport() *model.RunReport {
	report := model.NewRunReport("ftp.example.com", "admin")
	report.Wordlist = "passwords.txt"
	report.Timeout = 5 * time.Second
	report.Delay = 500 * time.Millisecond
	report.StartedAt = testStart
	report.FinishedAt = testStart.Add(2 * time.Second)
	report.Anonymous = model.AnonymousDenied
	report.Candidates = 4
	report.AttemptsMade = 3
	report.Attempts = []model.AttemptRecord{
		{Index: 1, Outcome: model.OutcomeRejected, Elapsed: 120 * time.Millisecond},
		{Index: 2, Outcome: model.OutcomeInconclusive, Elapsed: 5 * time.Second},
		{Index: 3, Outcome: model.OutcomeAuthenticated, Elapsed: 90 * time.Millisecond},
	}
	report.Found = true
	report.FoundPassword = "hunter2"
	return report
}

// createExhaustedReport returns a run that tried every candidate without success.
func createExhaustedReport() *model.RunReport {
	report := model.NewRunReport("10.0.0.5:2121", "root")
	report.StartedAt = testStart
	report.FinishedAt = testStart.Add(time.Second)
	report.Candidates = 2
	report.AttemptsMade = 2
	report.Attempts = []model.AttemptRecord{
		{Index: 1, Outcome: model.OutcomeRejected},
		{Index: 2, Outcome: model.OutcomeRejected},
	}
	return report
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("n = %d, want %d", n, buf.Len())
		}

		output := buf.String()
		for _, want := range []string{
			"FTPBRUTE REPORT",
			"Target:     ftp.example.com",
			"Username:   admin",
			"Wordlist:   passwords.txt",
			"Timeout:    5s | Delay: 0.5s",
			"Status:     Credentials found",
			"Attempts:      3",
			"Rejected:      1",
			"Inconclusive:  1",
			"[+] Username: admin | Password: hunter2",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q\n%s", want, output)
			}
		}
		if strings.Contains(output, "ATTEMPTS") {
			t.Error("attempt log should only be written in verbose mode")
		}
	})

	t.Run("verbose writes attempt log", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"ATTEMPTS",
			"[-] #1 rejected (120ms)",
			"[!] #2 inconclusive (5s)",
			"[+] #3 authenticated (90ms)",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q\n%s", want, output)
			}
		}
	})

	t.Run("exhausted run has no credential line", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createExhaustedReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Status:     No valid credentials found") {
			t.Errorf("unexpected status:\n%s", output)
		}
		if strings.Contains(output, "Password:") {
			t.Errorf("unexpected credential line:\n%s", output)
		}
	})

	t.Run("writes stored run id", func(t *testing.T) {
		t.Parallel()

		report := createExhaustedReport()
		report.ID = 42

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Run ID:     42") {
			t.Errorf("expected run id:\n%s", buf.String())
		}
	})
}

func TestStatusText(t *testing.T) {
	t.Parallel()

	anonymous := createExhaustedReport()
	anonymous.Anonymous = model.AnonymousAccepted

	interrupted := createExhaustedReport()
	interrupted.Interrupted = true

	tests := []struct {
		name   string
		report *model.RunReport
		want   string
	}{
		{name: "anonymous", report: anonymous, want: "Anonymous login accepted"},
		{name: "found", report: createTestReport(), want: "Credentials found"},
		{name: "interrupted", report: interrupted, want: "Interrupted (partial results)"},
		{name: "exhausted", report: createExhaustedReport(), want: "No valid credentials found"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := statusText(tt.report); got != tt.want {
				t.Errorf("statusText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes compact document with summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithVersion("v1.2.3")).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if strings.Count(output, "\n") != 1 {
			t.Errorf("expected a single line of compact JSON, got:\n%s", output)
		}

		var doc struct {
			Version string `json:"version"`
			Report  struct {
				Host          string `json:"host"`
				Found         bool   `json:"found"`
				FoundPassword string `json:"found_password"`
				Attempts      []struct {
					Index   int    `json:"index"`
					Outcome string `json:"outcome"`
				} `json:"attempts"`
			} `json:"report"`
			Summary struct {
				Status       string `json:"status"`
				Rejected     int    `json:"rejected"`
				Inconclusive int    `json:"inconclusive"`
			} `json:"summary"`
		}
		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}

		if doc.Version != "v1.2.3" {
			t.Errorf("version = %q", doc.Version)
		}
		if doc.Report.Host != "ftp.example.com" || !doc.Report.Found || doc.Report.FoundPassword != "hunter2" {
			t.Errorf("unexpected report: %+v", doc.Report)
		}
		if len(doc.Report.Attempts) != 3 || doc.Report.Attempts[1].Outcome != "inconclusive" {
			t.Errorf("unexpected attempts: %+v", doc.Report.Attempts)
		}
		if doc.Summary.Status != "Credentials found" || doc.Summary.Rejected != 1 || doc.Summary.Inconclusive != 1 {
			t.Errorf("unexpected summary: %+v", doc.Summary)
		}
	})

	t.Run("omits empty version", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createExhaustedReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), `"version"`) {
			t.Errorf("expected no version key, got %s", buf.String())
		}
	})
}

func TestWithIndent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewJSONWriter(&buf, WithIndent("", "\t")).Write(createExhaustedReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "\n\t\"report\"") {
		t.Errorf("expected tab indentation, got:\n%s", buf.String())
	}

	buf.Reset()
	if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createExhaustedReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"report\"") {
		t.Errorf("expected two-space indentation, got:\n%s", buf.String())
	}
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes found report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# ftpbrute Report",
			"`ftp.example.com`",
			"## Summary",
			"Inconclusive",
			"[!CAUTION]",
			"hunter2",
			"pie",
			"## Attempts",
			"authenticated",
			"Report generated by",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q\n%s", want, output)
			}
		}
	})

	t.Run("exhausted run gets a tip", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createExhaustedReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[!TIP]") {
			t.Errorf("expected TIP alert:\n%s", buf.String())
		}
	})

	t.Run("interrupted run gets a warning", func(t *testing.T) {
		t.Parallel()

		report := createExhaustedReport()
		report.Candidates = 10
		report.Interrupted = true

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[!WARNING]") {
			t.Errorf("expected WARNING alert:\n%s", buf.String())
		}
	})

	t.Run("anonymous run has no attempts section", func(t *testing.T) {
		t.Parallel()

		report := model.NewRunReport("ftp.example.com", "admin")
		report.Anonymous = model.AnonymousAccepted

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if strings.Contains(output, "## Attempts") {
			t.Errorf("unexpected attempts section:\n%s", output)
		}
		if !strings.Contains(output, "accepts anonymous logins") {
			t.Errorf("expected anonymous alert:\n%s", output)
		}
	})

	t.Run("long runs are truncated", func(t *testing.T) {
		t.Parallel()

		report := createExhaustedReport()
		report.Attempts = nil
		for i := 1; i <= maxMarkdownAttempts+5; i++ {
			report.Attempts = append(report.Attempts, model.AttemptRecord{Index: i, Outcome: model.OutcomeRejected})
		}

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Showing the last 100 of 105 attempts.") {
			t.Errorf("expected truncation note:\n%s", buf.String())
		}
	})
}

func TestMarkdownWriter_EscapesValues(t *testing.T) {
	t.Parallel()

	report := createTestReport()
	report.Host = "ftp|corp"
	report.Wordlist = "lists/a|b.txt"
	report.FoundPassword = "p`w|d"

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"`ftp\\|corp`",
		"`lists/a\\|b.txt`",
		"password ``p`w|d``",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q\n%s", want, output)
		}
	}
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "ftp|corp") {
			t.Errorf("unescaped pipe in line %q", line)
		}
	}
}

func TestCodeSpan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "admin", want: "`admin`"},
		{in: "a`b", want: "``a`b``"},
		{in: "a``b", want: "```a``b```"},
		{in: "`x", want: "`` `x ``"},
	}
	for _, tt := range tests {
		if got := codeSpan(tt.in); got != tt.want {
			t.Errorf("codeSpan(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got, want := tableCode("a|b"), "`a\\|b`"; got != want {
		t.Errorf("tableCode() = %q, want %q", got, want)
	}
}

func TestNewWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		want   string
	}{
		{format: FormatText, want: "FTPBRUTE REPORT"},
		{format: FormatJSON, want: `"version": "dev"`},
		{format: FormatMarkdown, want: "# ftpbrute Report"},
		{format: Format("yaml"), want: "FTPBRUTE REPORT"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if _, err := NewWriter(tt.format, &buf, "dev").Write(createTestReport()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected %q in output:\n%s", tt.want, buf.String())
			}
		})
	}
}

func TestSeconds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d    time.Duration
		want string
	}{
		{d: 5 * time.Second, want: "5s"},
		{d: 500 * time.Millisecond, want: "0.5s"},
		{d: 0, want: "0s"},
		{d: 1250 * time.Millisecond, want: "1.25s"},
	}

	for _, tt := range tests {
		if got := seconds(tt.d); got != tt.want {
			t.Errorf("seconds(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
