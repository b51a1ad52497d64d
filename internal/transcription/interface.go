package transcription

import "context"

// Transcriber converts an audio file into text. Implementations must
// return a non-nil error on failure; an empty transcript with a nil error
// means the audio genuinely contained no recognizable speech.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, languageHint string) (*Result, error)
}

// Ensure the whisper client implements the interface
var _ Transcriber = (*WhisperClient)(nil)
