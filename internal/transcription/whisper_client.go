package transcription

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/fluentnotes/fluent-notes/pkg/logger"
)

// WhisperClient transcribes audio files through the OpenAI
// audio.transcriptions endpoint.
type WhisperClient struct {
	client openai.Client
	model  string
	logger *logger.Logger
}

// NewWhisperClient creates a new whisper transcription client
func NewWhisperClient(config Config, logger *logger.Logger) *WhisperClient {
	if config.APIKey == "" {
		logger.Warn("OpenAI API key is empty - transcription will fail")
	}

	model := config.Model
	if model == "" {
		model = "whisper-1"
	}

	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	return &WhisperClient{
		client: openai.NewClient(
			option.WithAPIKey(config.APIKey),
			option.WithHTTPClient(&http.Client{Timeout: timeout}),
		),
		model:  model,
		logger: logger.Named("whisper-client"),
	}
}

// Transcribe sends the audio file at the given path for transcription.
// The language hint is best-effort and may be empty.
func (c *WhisperClient) Transcribe(ctx context.Context, audioPath string, languageHint string) (*Result, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	c.logger.Debug("Starting transcription",
		logger.String("audio_path", audioPath),
		logger.String("model", c.model),
		logger.String("language_hint", languageHint))

	params := openai.AudioTranscriptionNewParams{
		File:  file,
		Model: openai.AudioModel(c.model),
	}
	if languageHint != "" {
		params.Language = openai.String(languageHint)
	}

	start := time.Now()
	resp, err := c.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("transcription request failed: %w", err)
	}

	c.logger.Info("Transcription complete",
		logger.String("audio_path", audioPath),
		logger.Int("chars", len(resp.Text)),
		logger.Duration("duration", time.Since(start)))

	// The plain-json endpoint returns text without timings, so the result
	// carries a single segment spanning the whole transcript.
	result := &Result{
		Text:     resp.Text,
		Language: languageHint,
	}
	if resp.Text != "" {
		result.Segments = []Segment{{Start: 0, End: 0, Text: resp.Text}}
	}

	return result, nil
}
