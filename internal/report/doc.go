// Package report turns the events and results of a run into output.
//
// Live output is produced by ConsoleObserver, which plugs into the trial
// sequencer as an Observer. Recorder collects the same events into a
// model.RunReport, which the Writer implementations then render:
//   - SimpleWriter: plain text for terminals and text files
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: Markdown with tables and an outcome chart
package report
