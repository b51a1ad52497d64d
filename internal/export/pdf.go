package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/fluentnotes/fluent-notes/internal/storage/sqlite"
)

// PDF renders a record as a printable A4 report with the same section
// ordering as the text export. The transcript section is caller-controlled.
func PDF(record *sqlite.MeetingRecord, includeTranscript bool) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 10, "Meeting Report", "", 1, "C", false, 0, "")
		pdf.Ln(10)
	})
	pdf.AddPage()

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, fmt.Sprintf("Job ID: %s", record.JobID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Original File: %s", orPlaceholder(record.Filename, "N/A")), "", 1, "L", false, 0, "")
	pdf.Ln(5)

	chapterTitle(pdf, "Summary")
	chapterBody(pdf, orPlaceholder(record.Summary, "No summary available."))

	listItems(pdf, record.ActionItems, "Action Items")
	listItems(pdf, record.Decisions, "Decisions Made")

	if includeTranscript {
		chapterTitle(pdf, "Full Transcript")
		chapterBody(pdf, orPlaceholder(record.Transcript, "No transcript available."))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF for job %s: %w", record.JobID, err)
	}

	return buf.Bytes(), nil
}

func chapterTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func chapterBody(pdf *fpdf.Fpdf, body string) {
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, body, "", "L", false)
	pdf.Ln(-1)
}

func listItems(pdf *fpdf.Fpdf, items []string, title string) {
	if len(items) == 0 {
		return
	}
	chapterTitle(pdf, title)
	pdf.SetFont("Arial", "", 10)
	for _, item := range items {
		pdf.MultiCell(0, 5, fmt.Sprintf("- %s", item), "", "L", false)
	}
	pdf.Ln(-1)
}
