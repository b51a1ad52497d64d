package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/fluentnotes/fluent-notes/internal/extraction"
	"github.com/fluentnotes/fluent-notes/internal/storage/sqlite"
	"github.com/fluentnotes/fluent-notes/internal/transcription"
	"github.com/fluentnotes/fluent-notes/pkg/logger"
)

// Service runs the background job pipeline: ingress enqueues a Job, a
// worker dequeues it and drives it to a terminal status. The storage
// upsert at the end of Process is the durable completion signal.
type Service struct {
	ctx         context.Context
	cancel      context.CancelFunc
	storage     *sqlite.MeetingStorage
	transcriber transcription.Transcriber
	extractor   extraction.Extractor
	queue       chan Job
	workers     int
	language    string
	wg          sync.WaitGroup
	logger      *logger.Logger
}

// NewService creates a new pipeline service
func NewService(
	ctx context.Context,
	storage *sqlite.MeetingStorage,
	transcriber transcription.Transcriber,
	extractor extraction.Extractor,
	config Config,
	logger *logger.Logger,
) *Service {
	workers := config.Workers
	if workers <= 0 {
		workers = 1
	}
	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = 16
	}

	svcCtx, svcCancel := context.WithCancel(ctx)

	return &Service{
		ctx:         svcCtx,
		cancel:      svcCancel,
		storage:     storage,
		transcriber: transcriber,
		extractor:   extractor,
		queue:       make(chan Job, queueSize),
		workers:     workers,
		language:    config.LanguageHint,
		logger:      logger.Named("pipeline"),
	}
}

// Start launches the worker pool
func (s *Service) Start() error {
	s.logger.Info("Starting pipeline workers",
		logger.Int("workers", s.workers),
		logger.Int("queue_size", cap(s.queue)))

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go func(worker int) {
			defer s.wg.Done()
			for {
				select {
				case <-s.ctx.Done():
					return
				case job := <-s.queue:
					// A started job runs to a terminal state even during
					// shutdown; cancellation of in-flight work is not
					// supported.
					if err := s.Process(context.Background(), job); err != nil {
						s.logger.Error("Job processing failed",
							logger.String("job_id", job.ID),
							logger.Int("worker", worker),
							logger.Error(err))
					}
				}
			}
		}(i)
	}
	return nil
}

// Stop stops the worker pool. Jobs already being processed run to their
// terminal state before their worker exits; queued but unstarted jobs are
// abandoned and remain in status processing.
func (s *Service) Stop() error {
	s.logger.Info("Stopping pipeline workers")
	s.cancel()
	s.wg.Wait()
	return nil
}

// Enqueue schedules a job for processing without blocking. Returns an
// error when the queue is full so ingress can fail the request
// synchronously instead of silently dropping work.
func (s *Service) Enqueue(job Job) error {
	select {
	case s.queue <- job:
		s.logger.Debug("Job enqueued", logger.String("job_id", job.ID))
		return nil
	default:
		return fmt.Errorf("pipeline queue is full")
	}
}

// Process runs the full pipeline for one job: transcription, then the
// three extractions in parallel, then exactly one upsert with the final
// field values. Provider failures degrade into diagnostic placeholders
// and the job still completes; only a storage failure yields status
// failed. Re-running Process for the same job ID fully overwrites the
// prior record.
func (s *Service) Process(ctx context.Context, job Job) error {
	s.logger.Info("Processing job",
		logger.String("job_id", job.ID),
		logger.String("audio_path", job.AudioPath))

	var transcript, summary string
	actionItems := []string{}
	decisions := []string{}

	result, err := s.transcriber.Transcribe(ctx, job.AudioPath, s.language)
	if err != nil {
		// A provider failure degrades the job rather than aborting it:
		// the error is captured as data and extraction is skipped.
		s.logger.Error("Transcription failed",
			logger.String("job_id", job.ID),
			logger.Error(err))
		transcript = fmt.Sprintf("Processing Error: %v", err)
	} else {
		transcript = result.Text
		summary, actionItems, decisions = s.extract(ctx, job.ID, transcript)
	}

	record := &sqlite.MeetingRecord{
		JobID:       job.ID,
		Filename:    job.Filename,
		Status:      sqlite.StatusComplete,
		Transcript:  transcript,
		Summary:     summary,
		ActionItems: actionItems,
		Decisions:   decisions,
	}

	if err := s.storage.Upsert(record); err != nil {
		// Best effort: leave a failed marker so the job is not stuck in
		// processing forever. If storage is down entirely this fails too
		// and an operator must treat the job as retryable.
		record.Status = sqlite.StatusFailed
		if markErr := s.storage.Upsert(record); markErr != nil {
			s.logger.Error("Failed to mark job as failed",
				logger.String("job_id", job.ID),
				logger.Error(markErr))
		}
		return fmt.Errorf("failed to persist results for job %s: %w", job.ID, err)
	}

	s.logger.Info("Job complete",
		logger.String("job_id", job.ID),
		logger.Int("transcript_chars", len(transcript)),
		logger.Int("action_items", len(actionItems)),
		logger.Int("decisions", len(decisions)))

	return nil
}

// extract runs the three extraction sub-tasks concurrently. The tasks are
// independent: a failure in one replaces only that field with a
// diagnostic placeholder.
func (s *Service) extract(ctx context.Context, jobID, transcript string) (string, []string, []string) {
	var summary string
	var actionItems, decisions []string

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		result, err := s.extractor.Summarize(ctx, transcript)
		if err != nil {
			s.logger.Error("Summary extraction failed",
				logger.String("job_id", jobID), logger.Error(err))
			summary = fmt.Sprintf("Error: %v", err)
			return
		}
		summary = result
	}()

	go func() {
		defer wg.Done()
		result, err := s.extractor.ActionItems(ctx, transcript)
		if err != nil {
			s.logger.Error("Action item extraction failed",
				logger.String("job_id", jobID), logger.Error(err))
			actionItems = []string{fmt.Sprintf("Error: %v", err)}
			return
		}
		actionItems = result
	}()

	go func() {
		defer wg.Done()
		result, err := s.extractor.Decisions(ctx, transcript)
		if err != nil {
			s.logger.Error("Decision extraction failed",
				logger.String("job_id", jobID), logger.Error(err))
			decisions = []string{fmt.Sprintf("Error: %v", err)}
			return
		}
		decisions = result
	}()

	wg.Wait()

	if actionItems == nil {
		actionItems = []string{}
	}
	if decisions == nil {
		decisions = []string{}
	}

	return summary, actionItems, decisions
}
