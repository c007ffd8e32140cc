package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/ftpbrute/internal/model"
	"github.com/nao1215/ftpbrute/internal/trial"
)

// separatorWidth is the width of the console separator line.
const separatorWidth = 50

// ConsoleObserver prints live progress of a run using the classic
// [+] / [-] / [*] / [!] prefixes.
type ConsoleObserver struct {
	out      io.Writer
	host     string
	username string
}

var _ trial.Observer = (*ConsoleObserver)(nil)

// NewConsoleObserver creates a ConsoleObserver writing to out.
func NewConsoleObserver(out io.Writer) *ConsoleObserver {
	return &ConsoleObserver{out: out}
}

// Banner prints the run parameters before any connection is made.
func (c *ConsoleObserver) Banner(host, username, wordlist string, timeout, delay time.Duration) {
	fmt.Fprintf(c.out, "[+] Target: %s\n", host)
	fmt.Fprintf(c.out, "[+] Username: %s\n", username)
	fmt.Fprintf(c.out, "[+] Wordlist: %s\n", wordlist)
	fmt.Fprintf(c.out, "[+] Timeout: %s | Delay: %s\n", seconds(timeout), seconds(delay))
	c.Separator()
}

// Separator prints a horizontal rule.
func (c *ConsoleObserver) Separator() {
	fmt.Fprintln(c.out, strings.Repeat("-", separatorWidth))
}

// Loaded reports the number of candidates read from the wordlist.
func (c *ConsoleObserver) Loaded(n int) {
	fmt.Fprintf(c.out, "[+] Loaded %d passwords from wordlist\n", n)
}

// AnonymousChecked prints whether the anonymous login was accepted.
func (c *ConsoleObserver) AnonymousChecked(target model.Target, accepted bool) {
	if accepted {
		fmt.Fprintf(c.out, "[+] FTP Anonymous login succeeded on host: %s\n", target.Host)
		return
	}
	fmt.Fprintf(c.out, "[-] FTP Anonymous login failed on host: %s\n", target.Host)
}

// RunStarted prints the number of passwords about to be tried.
func (c *ConsoleObserver) RunStarted(target model.Target, username string, total int) {
	c.host = target.Host
	c.username = username
	fmt.Fprintf(c.out, "[+] Starting brute force: %d passwords to test\n", total)
}

// AttemptStarted prints the password being tried.
func (c *ConsoleObserver) AttemptStarted(index, total int, password string) {
	fmt.Fprintf(c.out, "[*] [%d/%d] Testing password: %s\n", index, total, password)
}

// AttemptFinished prints a found credential or a connection issue.
func (c *ConsoleObserver) AttemptFinished(_ int, password string, outcome model.Outcome, _ time.Duration) {
	switch outcome {
	case model.OutcomeAuthenticated:
		fmt.Fprintf(c.out, "[+] SUCCESS! Username: %s | Password: %s\n", c.username, password)
	case model.OutcomeInconclusive:
		fmt.Fprintf(c.out, "[!] Connection issue with host: %s. Continuing...\n", c.host)
	case model.OutcomeRejected:
	}
}

// RunFinished prints the closing line of the run.
func (c *ConsoleObserver) RunFinished(result trial.Result) {
	switch {
	case result.Found:
	case result.Attempts < result.Total:
		fmt.Fprintf(c.out, "[-] Brute force interrupted after %d of %d attempts.\n", result.Attempts, result.Total)
	default:
		fmt.Fprintf(c.out, "[-] Brute force completed. No valid credentials found after %d attempts.\n", result.Attempts)
	}
}
