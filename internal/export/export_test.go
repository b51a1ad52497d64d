package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fluentnotes/fluent-notes/internal/storage/sqlite"
)

func testRecord() *sqlite.MeetingRecord {
	return &sqlite.MeetingRecord{
		JobID:       "job-1",
		Filename:    "job-1.wav",
		Status:      sqlite.StatusComplete,
		Transcript:  "Alice will send the report by Friday.",
		Summary:     "Quick sync about the report.",
		ActionItems: []string{"Alice will send the report by Friday."},
		Decisions:   []string{"Weekly syncs move to Tuesdays."},
		CreatedAt:   time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2025, 6, 1, 9, 5, 0, 0, time.UTC),
	}
}

func TestTextExportSectionOrder(t *testing.T) {
	text := Text(testRecord())

	require.Contains(t, text, "Meeting Report - Job ID: job-1")
	require.Contains(t, text, "Original File: job-1.wav")
	require.Contains(t, text, "Timestamp: 2025-06-01T09:05:00Z")
	require.Contains(t, text, "- Alice will send the report by Friday.")
	require.Contains(t, text, "- Weekly syncs move to Tuesdays.")

	// Fixed section order: summary, action items, decisions, transcript
	summaryIdx := strings.Index(text, "SUMMARY")
	actionsIdx := strings.Index(text, "ACTION ITEMS")
	decisionsIdx := strings.Index(text, "DECISIONS")
	transcriptIdx := strings.Index(text, "TRANSCRIPT")
	require.True(t, summaryIdx >= 0 && actionsIdx > summaryIdx)
	require.True(t, decisionsIdx > actionsIdx)
	require.True(t, transcriptIdx > decisionsIdx)
}

func TestTextExportPlaceholdersAndOmittedLists(t *testing.T) {
	record := testRecord()
	record.Summary = ""
	record.Transcript = ""
	record.ActionItems = []string{}
	record.Decisions = []string{}

	text := Text(record)

	// Absent values render as explicit placeholders, never silently omitted
	require.Contains(t, text, "No summary available.")
	require.Contains(t, text, "No transcript available.")

	// Empty lists omit their sections entirely
	require.NotContains(t, text, "ACTION ITEMS")
	require.NotContains(t, text, "DECISIONS")
}

func TestPDFExport(t *testing.T) {
	withTranscript, err := PDF(testRecord(), true)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(withTranscript), "%PDF"))

	withoutTranscript, err := PDF(testRecord(), false)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(withoutTranscript), "%PDF"))

	// Dropping the transcript section shrinks the document
	require.Less(t, len(withoutTranscript), len(withTranscript))
}

func TestViews(t *testing.T) {
	record := testRecord()

	summary := NewSummaryView(record)
	require.Equal(t, "job-1", summary.JobID)
	require.Equal(t, record.Summary, summary.Summary)
	require.Equal(t, record.ActionItems, summary.ActionItems)
	require.Equal(t, record.Decisions, summary.Decisions)

	transcript := NewTranscriptView(record)
	require.Equal(t, "job-1", transcript.JobID)
	require.Equal(t, record.Transcript, transcript.Transcript)
}

func TestSummaryViewNormalizesNilLists(t *testing.T) {
	record := testRecord()
	record.ActionItems = nil
	record.Decisions = nil

	view := NewSummaryView(record)
	require.NotNil(t, view.ActionItems)
	require.NotNil(t, view.Decisions)
}
