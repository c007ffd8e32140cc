package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/ftpbrute/internal/config"
	"github.com/nao1215/ftpbrute/internal/database"
	"github.com/nao1215/ftpbrute/internal/model"
	"github.com/nao1215/ftpbrute/internal/report"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [host]",
		Short: "Show stored scan runs",
		Long: `History displays runs stored by 'ftpbrute scan'.

Without arguments it lists every host with stored runs. With a host it lists
the runs for that host, newest first. Use --id to print the full report of
one run.

Examples:
  # List hosts with stored runs
  ftpbrute history

  # List runs for a host
  ftpbrute history ftp.example.com

  # Show one run as Markdown
  ftpbrute history --id 3 --markdown

  # Delete a run
  ftpbrute history --delete 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64P("id", "i", 0, "Show the full report of the run with this ID")
	cmd.Flags().Int64("delete", 0, "Delete the run with this ID")
	cmd.Flags().BoolP("json", "j", false, "Output in JSON format")
	cmd.Flags().BoolP("markdown", "m", false, "Output the --id report in Markdown format")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "History database directory")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	id, err := flags.GetInt64("id")
	if err != nil {
		return err
	}
	deleteID, err := flags.GetInt64("delete")
	if err != nil {
		return err
	}
	jsonOutput, err := flags.GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := flags.GetBool("markdown")
	if err != nil {
		return err
	}
	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return err
	}

	// Validate before opening the database.
	if jsonOutput && markdownOutput {
		return config.ErrConflictingReportFormats
	}
	if id != 0 && deleteID != 0 {
		return errors.New("--id and --delete cannot be used together")
	}
	if (id != 0 || deleteID != 0) && len(args) > 0 {
		return errors.New("a host cannot be combined with --id or --delete")
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case deleteID != 0:
		if err := db.DeleteRun(ctx, deleteID); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted run %d\n", deleteID)
		return nil
	case id != 0:
		runReport, err := db.GetRunByID(ctx, id)
		if err != nil {
			return err
		}
		return showRun(out, runReport, jsonOutput, markdownOutput)
	case len(args) == 1:
		history, err := db.GetRunHistory(ctx, args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			if history == nil {
				history = []database.RunSummary{}
			}
			return writeJSON(out, history)
		}
		listRuns(out, args[0], history)
		return nil
	default:
		hosts, err := db.ListHosts(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			if hosts == nil {
				hosts = []string{}
			}
			return writeJSON(out, hosts)
		}
		listHosts(out, hosts)
		return nil
	}
}

func showRun(out io.Writer, runReport *model.RunReport, jsonOutput, markdownOutput bool) error {
	format := report.FormatText
	switch {
	case jsonOutput:
		format = report.FormatJSON
	case markdownOutput:
		format = report.FormatMarkdown
	}
	_, err := report.NewWriter(format, out, getVersion()).Write(runReport)
	return err
}

func listHosts(out io.Writer, hosts []string) {
	if len(hosts) == 0 {
		fmt.Fprintln(out, "No runs found in the history database.")
		fmt.Fprintln(out, "\nUse 'ftpbrute scan --host <host>' to test a server.")
		return
	}

	fmt.Fprintf(out, "Hosts with stored runs (%d):\n\n", len(hosts))
	for _, host := range hosts {
		fmt.Fprintf(out, "  • %s\n", host)
	}
	fmt.Fprintln(out, "\nUse 'ftpbrute history <host>' to see the runs for a host.")
}

func listRuns(out io.Writer, host string, history []database.RunSummary) {
	if len(history) == 0 {
		fmt.Fprintf(out, "No runs found for %s\n", host)
		return
	}

	fmt.Fprintf(out, "Runs for %s (%d):\n\n", host, len(history))
	fmt.Fprintf(out, "  %-6s  %-20s  %-12s  %-10s  %s\n", "ID", "Date", "User", "Attempts", "Result")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 70))

	for _, run := range history {
		fmt.Fprintf(out, "  %-6d  %-20s  %-12s  %-10s  %s\n",
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Username,
			fmt.Sprintf("%d/%d", run.AttemptsMade, run.Candidates),
			runResult(run),
		)
	}
	fmt.Fprintln(out, "\nUse 'ftpbrute history --id <id>' to see the full report of a run.")
}

// runResult is the one-word verdict shown in run listings.
func runResult(run database.RunSummary) string {
	switch {
	case run.Anonymous == model.AnonymousAccepted:
		return "anonymous"
	case run.Found:
		return "found"
	case run.Interrupted:
		return "interrupted"
	default:
		return "not found"
	}
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
