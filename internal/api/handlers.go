package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fluentnotes/fluent-notes/internal/config"
	"github.com/fluentnotes/fluent-notes/internal/export"
	"github.com/fluentnotes/fluent-notes/internal/pipeline"
	"github.com/fluentnotes/fluent-notes/internal/storage/sqlite"
	"github.com/fluentnotes/fluent-notes/pkg/logger"
)

// maxUploadMemory caps the in-memory portion of a multipart parse; larger
// uploads spill to temp files.
const maxUploadMemory = 32 << 20

// allowedExtensions is the audio container allow-list for uploads
var allowedExtensions = map[string]bool{
	".wav": true,
	".mp3": true,
	".m4a": true,
}

// Handler contains the API request handlers
type Handler struct {
	storage  *sqlite.MeetingStorage
	pipeline *pipeline.Service
	config   *config.Config
	logger   *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(storage *sqlite.MeetingStorage, pipelineService *pipeline.Service, config *config.Config, logger *logger.Logger) *Handler {
	return &Handler{
		storage:  storage,
		pipeline: pipelineService,
		config:   config,
		logger:   logger.Named("api-handler"),
	}
}

// UploadAudio accepts an audio upload, assigns a job ID, writes the file
// to durable storage, records the job as processing, and enqueues
// pipeline execution. Responds 202 immediately; callers poll for results.
func (h *Handler) UploadAudio(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		h.respondError(w, http.StatusBadRequest,
			fmt.Sprintf("invalid file type %q, allowed types: .wav, .mp3, .m4a", ext))
		return
	}

	jobID := uuid.NewString()
	filename := jobID + ext

	// The audio must be durably stored before the pipeline can start
	if err := os.MkdirAll(h.config.Storage.UploadsDir, 0o755); err != nil {
		h.logger.Error("Failed to create uploads directory", logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "could not save the file")
		return
	}
	audioPath := filepath.Join(h.config.Storage.UploadsDir, filename)
	if err := saveUpload(audioPath, file); err != nil {
		h.logger.Error("Failed to save upload",
			logger.String("audio_path", audioPath), logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "could not save the file")
		return
	}

	// Initial record: status processing, empty derived fields
	record := &sqlite.MeetingRecord{
		JobID:       jobID,
		Filename:    filename,
		Status:      sqlite.StatusProcessing,
		ActionItems: []string{},
		Decisions:   []string{},
	}
	if err := h.storage.Upsert(record); err != nil {
		h.logger.Error("Failed to create job record",
			logger.String("job_id", jobID), logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "could not create job record")
		return
	}

	if err := h.pipeline.Enqueue(pipeline.Job{ID: jobID, AudioPath: audioPath, Filename: filename}); err != nil {
		h.logger.Error("Failed to enqueue job",
			logger.String("job_id", jobID), logger.Error(err))
		h.respondError(w, http.StatusServiceUnavailable, "processing queue is full, try again later")
		return
	}

	h.logger.Info("Upload accepted",
		logger.String("job_id", jobID),
		logger.String("filename", filename),
		logger.String("original_filename", header.Filename))

	h.respondJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   jobID,
		"filename": filename,
		"message":  "File upload accepted. Processing started in background.",
	})
}

// ListMeetings returns all meeting records, newest first
func (h *Handler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	records, err := h.storage.List()
	if err != nil {
		h.logger.Error("Failed to list meetings", logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to list meetings")
		return
	}
	if records == nil {
		records = []*sqlite.MeetingRecord{}
	}

	h.respondJSON(w, http.StatusOK, records)
}

// SearchTranscripts performs a full-text search over transcripts. The
// raw query is validated and rewritten into a bag-of-terms match
// expression here; nothing the user types can reach the index as FTS5
// syntax.
func (h *Handler) SearchTranscripts(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		h.respondError(w, http.StatusBadRequest, "search query cannot be empty")
		return
	}

	match := ftsMatchExpr(query)
	if match == "" {
		h.respondError(w, http.StatusBadRequest, "search query contains no searchable terms")
		return
	}

	records, err := h.storage.Search(match)
	if err != nil {
		h.logger.Error("Search failed",
			logger.String("query", query), logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if records == nil {
		records = []*sqlite.MeetingRecord{}
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"results": records,
	})
}

// GetSummary returns the summary view for a job
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	record := h.getRecordOr404(w, r)
	if record == nil {
		return
	}
	h.respondJSON(w, http.StatusOK, export.NewSummaryView(record))
}

// GetTranscript returns the transcript view for a job
func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	record := h.getRecordOr404(w, r)
	if record == nil {
		return
	}
	h.respondJSON(w, http.StatusOK, export.NewTranscriptView(record))
}

// GetJSONExport returns the entire record as a structured object
func (h *Handler) GetJSONExport(w http.ResponseWriter, r *http.Request) {
	record := h.getRecordOr404(w, r)
	if record == nil {
		return
	}
	h.respondJSON(w, http.StatusOK, record)
}

// GetTextExport returns the record flattened into a plain-text report
func (h *Handler) GetTextExport(w http.ResponseWriter, r *http.Request) {
	record := h.getRecordOr404(w, r)
	if record == nil {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="meeting_%s_report.txt"`, record.JobID))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, export.Text(record))
}

// GetPDFExport returns the record rendered as a PDF report. The
// include_transcript query parameter (default true) controls whether the
// full transcript section is included.
func (h *Handler) GetPDFExport(w http.ResponseWriter, r *http.Request) {
	record := h.getRecordOr404(w, r)
	if record == nil {
		return
	}

	includeTranscript := r.URL.Query().Get("include_transcript") != "false"

	data, err := export.PDF(record, includeTranscript)
	if err != nil {
		h.logger.Error("PDF generation failed",
			logger.String("job_id", record.JobID), logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "could not generate PDF report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="meeting_%s_report.pdf"`, record.JobID))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// GetHealth returns the health status
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// saveUpload writes the uploaded audio to its durable location. Close
// errors fail the save too; a truncated file must never reach the
// pipeline.
func saveUpload(path string, src io.Reader) error {
	dest, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create upload file: %w", err)
	}
	if _, err := io.Copy(dest, src); err != nil {
		dest.Close()
		return fmt.Errorf("failed to write upload file: %w", err)
	}
	if err := dest.Close(); err != nil {
		return fmt.Errorf("failed to flush upload file: %w", err)
	}
	return nil
}

// ftsMatchExpr rewrites a free-text query into a quoted bag-of-terms
// FTS5 expression. Quoting every token keeps unbalanced quotes, dangling
// operators, and other syntactically invalid input from ever being parsed
// as query syntax. Returns "" when no token carries a searchable term.
func ftsMatchExpr(query string) string {
	var terms []string
	for _, token := range strings.Fields(query) {
		token = strings.ReplaceAll(token, `"`, "")
		if !strings.ContainsFunc(token, func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r)
		}) {
			continue
		}
		terms = append(terms, `"`+token+`"`)
	}
	return strings.Join(terms, " ")
}

// getRecordOr404 fetches the record for the request's id parameter,
// writing the not-found or error response itself when there is nothing
// for the caller to project.
func (h *Handler) getRecordOr404(w http.ResponseWriter, r *http.Request) *sqlite.MeetingRecord {
	jobID := chi.URLParam(r, "id")

	record, err := h.storage.Get(jobID)
	if err != nil {
		h.logger.Error("Failed to fetch meeting",
			logger.String("job_id", jobID), logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to fetch meeting")
		return nil
	}
	if record == nil {
		h.respondError(w, http.StatusNotFound,
			fmt.Sprintf("meeting data not found for job ID: %s", jobID))
		return nil
	}

	return record
}

// respondJSON writes a JSON response with the given status code
func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", logger.Error(err))
	}
}

// respondError writes a JSON error response
func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
