package transcription

// Result represents the outcome of transcribing one audio file
type Result struct {
	Text     string    `json:"text"`
	Language string    `json:"language,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
}

// Segment is a span of transcript text with start/end offsets in seconds
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Config represents the configuration for the transcription client
type Config struct {
	APIKey         string
	Model          string
	TimeoutSeconds int
}
