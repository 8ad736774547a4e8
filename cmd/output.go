package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hunThubSpace/subscope/store"
)

const logTimeLayout = "2006-01-02 15:04:05"

func logLine(style lipgloss.Style, status, action, message string) {
	ts := dimStyle.Render(time.Now().Format(logTimeLayout))
	fmt.Printf("%s | %s | %s | %s\n", ts, style.Render(status), textStyle.Render(action), message)
}

func logSuccess(action, message string) {
	logLine(successStyle, "success", action, message)
}

func logError(action, message string) {
	logLine(errorStyle, "error", action, message)
}

func logNotice(action, message string) {
	logLine(noticeStyle, "notice", action, message)
}

func logInfo(action, message string) {
	logLine(infoStyle, "info", action, message)
}

// reportUpserts prints one log line per entity of a batch and returns how
// many failed.
func reportUpserts(action string, results []store.UpsertResult) int {
	failed := 0
	for _, r := range results {
		reportUpsert(action, r)
		if r.Err != nil {
			failed++
		}
	}
	return failed
}

func reportUpsert(action string, r store.UpsertResult) {
	switch {
	case r.Err != nil:
		logError(action, r.Err.Error())
	case r.Outcome == store.OutcomeCreated:
		logSuccess(action, fmt.Sprintf("added %s", r.Name))
	case r.Outcome == store.OutcomeUpdated:
		logSuccess(action, fmt.Sprintf("updated %s [%s]", r.Name, strings.Join(r.Changed, ", ")))
	default:
		logNotice(action, fmt.Sprintf("%s unchanged", r.Name))
	}
}

func reportDelete(action string, r store.DeleteResult) {
	if r.Deleted == 0 {
		logNotice(action, "nothing matched")
		return
	}
	logSuccess(action, fmt.Sprintf("deleted %d", r.Deleted))
}

// printJSON writes the detailed listing the way the api emits it.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}

// printBrief writes one identifier per line, suitable for piping.
func printBrief(names []string) {
	for _, name := range names {
		fmt.Println(name)
	}
}

func printCount(n int) {
	fmt.Println(n)
}

func printStats(groups []store.StatGroup) {
	for _, g := range groups {
		fmt.Printf("%s: %d (%.2f%%)\n", g.Value, g.Count, g.Percentage)
	}
}
