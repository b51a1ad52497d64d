package export

import "github.com/fluentnotes/fluent-notes/internal/storage/sqlite"

// SummaryView is the derived-artifacts projection of a record
type SummaryView struct {
	JobID       string   `json:"job_id"`
	Summary     string   `json:"summary"`
	ActionItems []string `json:"action_items"`
	Decisions   []string `json:"decisions"`
}

// TranscriptView is the transcript-only projection of a record
type TranscriptView struct {
	JobID      string `json:"job_id"`
	Transcript string `json:"transcript"`
}

// NewSummaryView projects a record into its summary view
func NewSummaryView(record *sqlite.MeetingRecord) SummaryView {
	view := SummaryView{
		JobID:       record.JobID,
		Summary:     record.Summary,
		ActionItems: record.ActionItems,
		Decisions:   record.Decisions,
	}
	if view.ActionItems == nil {
		view.ActionItems = []string{}
	}
	if view.Decisions == nil {
		view.Decisions = []string{}
	}
	return view
}

// NewTranscriptView projects a record into its transcript view
func NewTranscriptView(record *sqlite.MeetingRecord) TranscriptView {
	return TranscriptView{
		JobID:      record.JobID,
		Transcript: record.Transcript,
	}
}

// orPlaceholder substitutes an explicit placeholder for an absent value;
// exports never silently omit a section.
func orPlaceholder(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}
