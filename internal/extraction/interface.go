package extraction

import "context"

// Extractor derives a summary, action items, and decisions from a meeting
// transcript. The three operations are independently callable and
// independently failable; the pipeline runs them concurrently.
type Extractor interface {
	Summarize(ctx context.Context, transcript string) (string, error)
	ActionItems(ctx context.Context, transcript string) ([]string, error)
	Decisions(ctx context.Context, transcript string) ([]string, error)
}

// Config represents the configuration for the extraction client
type Config struct {
	APIKey         string
	Model          string
	TimeoutSeconds int
}

// Ensure the OpenAI client implements the interface
var _ Extractor = (*OpenAIClient)(nil)
