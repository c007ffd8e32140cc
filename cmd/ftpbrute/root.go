package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// exitError carries a non-zero exit status for outcomes that have already
// been reported to the user, such as an exhausted wordlist.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// NewRootCmd creates the root command for ftpbrute.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ftpbrute",
		Short: "FTP credential auditing tool",
		Long: `ftpbrute audits the login of a single FTP server you are authorized to test.

It first checks whether the server accepts anonymous logins, then tries the
passwords of a wordlist for one username, strictly one connection at a time
with a configurable delay between attempts, and stops at the first password
the server accepts.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and exits with its status.
func Execute() {
	cmd := NewRootCmd()
	os.Exit(exitCode(cmd, cmd.Execute()))
}

// exitCode maps the error returned by cmd to a process exit status and
// prints it unless it was already reported.
func exitCode(cmd *cobra.Command, err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "[-] Error: %v\n", err)
	return 1
}
