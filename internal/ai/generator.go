package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
)

var ErrMalformedResponse = errors.New("malformed generator response")

const systemPrompt = `You write multiple-choice review questions for a spaced repetition app.
Reply with a JSON object: {"question": string, "correct": string, "distractors": [string, string, string]}.
The question must be answerable from the topic notes. Distractors must be plausible, distinct and wrong.
Write in the language of the topic.`

// Config holds the generator settings.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// Generator drafts quiz questions with an OpenAI compatible chat model.
type Generator struct {
	client *openai.Client
	cfg    Config
	logger *zap.Logger
}

// NewGenerator creates a Generator. It returns nil when no API key is configured
// so callers can treat question generation as unavailable.
func NewGenerator(cfg Config, logger *zap.Logger) *Generator {
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Generator{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
		logger: logger,
	}
}

// Generate asks the model for one question about the topic.
func (g *Generator) Generate(ctx context.Context, title, hint string) (*entities.GeneratedQuestion, error) {
	var content string
	err := g.doWithRetry(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()

		resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: g.cfg.Model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt(title, hint)},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: 0.7,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty chat response")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("generate question: %w", err)
	}

	return ParseResponse(content)
}

func userPrompt(title, hint string) string {
	var b strings.Builder
	b.WriteString("Topic: ")
	b.WriteString(title)
	if hint = strings.TrimSpace(hint); hint != "" {
		b.WriteString("\n\nNotes:\n")
		b.WriteString(hint)
	}
	return b.String()
}

// ParseResponse decodes the model reply, tolerating a fenced code block around the JSON.
func ParseResponse(content string) (*entities.GeneratedQuestion, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var q entities.GeneratedQuestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &q); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	q.Text = strings.TrimSpace(q.Text)
	q.Correct = strings.TrimSpace(q.Correct)

	distractors := q.Distractors[:0]
	for _, d := range q.Distractors {
		if d = strings.TrimSpace(d); d != "" {
			distractors = append(distractors, d)
		}
	}
	q.Distractors = distractors

	if q.Text == "" || q.Correct == "" || len(q.Distractors) < 3 {
		return nil, ErrMalformedResponse
	}
	q.Distractors = q.Distractors[:3]

	return &q, nil
}

// doWithRetry retries fn with exponential backoff.
func (g *Generator) doWithRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < g.cfg.MaxRetries; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == g.cfg.MaxRetries-1 {
			break
		}

		wait := time.Duration(math.Pow(2, float64(attempt))) * time.Second
		g.logger.Debug("question generation failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(lastErr),
		)

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
