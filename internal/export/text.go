package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/fluentnotes/fluent-notes/internal/storage/sqlite"
)

// sectionBanner renders a "==== NAME ====" section separator
func sectionBanner(name string) string {
	bar := strings.Repeat("=", 20)
	return fmt.Sprintf("\n%s %s %s\n", bar, name, bar)
}

// Text renders a record as a flattened plain-text report: header, summary,
// action items and decisions (only when non-empty), then the transcript.
func Text(record *sqlite.MeetingRecord) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("Meeting Report - Job ID: %s", record.JobID))
	lines = append(lines, fmt.Sprintf("Original File: %s", orPlaceholder(record.Filename, "N/A")))
	lines = append(lines, fmt.Sprintf("Timestamp: %s", record.UpdatedAt.UTC().Format(time.RFC3339)))

	lines = append(lines, sectionBanner("SUMMARY"))
	lines = append(lines, orPlaceholder(record.Summary, "No summary available."))

	if len(record.ActionItems) > 0 {
		lines = append(lines, sectionBanner("ACTION ITEMS"))
		for _, item := range record.ActionItems {
			lines = append(lines, fmt.Sprintf("- %s", item))
		}
	}

	if len(record.Decisions) > 0 {
		lines = append(lines, sectionBanner("DECISIONS"))
		for _, item := range record.Decisions {
			lines = append(lines, fmt.Sprintf("- %s", item))
		}
	}

	lines = append(lines, sectionBanner("TRANSCRIPT"))
	lines = append(lines, orPlaceholder(record.Transcript, "No transcript available."))

	return strings.Join(lines, "\n")
}
