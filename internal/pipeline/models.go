package pipeline

// Job is one unit of processing work: an uploaded audio file awaiting
// transcription and extraction. The record for the job already exists in
// storage (status processing) by the time the job is enqueued.
type Job struct {
	ID        string
	AudioPath string
	Filename  string
}

// Config represents the pipeline configuration
type Config struct {
	Workers      int
	QueueSize    int
	LanguageHint string
}
