package extraction

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/fluentnotes/fluent-notes/pkg/logger"
)

// OpenAIClient implements Extractor over the OpenAI chat completions API
type OpenAIClient struct {
	client openai.Client
	model  string
	logger *logger.Logger
}

// NewOpenAIClient creates a new extraction client
func NewOpenAIClient(config Config, logger *logger.Logger) *OpenAIClient {
	if config.APIKey == "" {
		logger.Warn("OpenAI API key is empty - extraction will fail")
	}

	model := config.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return &OpenAIClient{
		client: openai.NewClient(
			option.WithAPIKey(config.APIKey),
			option.WithHTTPClient(&http.Client{Timeout: timeout}),
		),
		model:  model,
		logger: logger.Named("extraction-client"),
	}
}

// Summarize produces a concise neutral summary of the transcript
func (c *OpenAIClient) Summarize(ctx context.Context, transcript string) (string, error) {
	text, err := c.complete(ctx, fmt.Sprintf(summaryPrompt, transcript))
	if err != nil {
		return "", fmt.Errorf("summary generation failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// ActionItems extracts the action items assigned during the meeting
func (c *OpenAIClient) ActionItems(ctx context.Context, transcript string) ([]string, error) {
	text, err := c.complete(ctx, fmt.Sprintf(actionItemsPrompt, transcript))
	if err != nil {
		return nil, fmt.Errorf("action item extraction failed: %w", err)
	}
	return ParseBullets(text), nil
}

// Decisions extracts the explicit decisions made during the meeting
func (c *OpenAIClient) Decisions(ctx context.Context, transcript string) ([]string, error) {
	text, err := c.complete(ctx, fmt.Sprintf(decisionsPrompt, transcript))
	if err != nil {
		return nil, fmt.Errorf("decision extraction failed: %w", err)
	}
	return ParseBullets(text), nil
}

// complete sends one prompt and returns the first choice's content
func (c *OpenAIClient) complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from API")
	}

	c.logger.Debug("Chat completion finished",
		logger.String("model", c.model),
		logger.Duration("duration", time.Since(start)))

	return resp.Choices[0].Message.Content, nil
}
