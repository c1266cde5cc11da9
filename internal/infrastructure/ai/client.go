// Package ai implements content generation against OpenAI-compatible APIs.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	infraconfig "github.com/agencyhub/backend/internal/infrastructure/config"
)

// chatRequest is one structured-output completion call
type chatRequest struct {
	systemPrompt string
	userPrompt   string
	schemaName   string
	schema       any
}

// usage reports token consumption of one completion
type usage struct {
	promptTokens     int
	completionTokens int
}

// Client is a thin wrapper over the OpenAI chat completions API that
// always requests strict JSON-schema output.
type Client struct {
	openai      openai.Client
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

// NewClient creates a Client from configuration
func NewClient(cfg *infraconfig.AIConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("ai configuration is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("ai api key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}

	return &Client{
		openai:      openai.NewClient(opts...),
		model:       model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		logger:      logger,
	}, nil
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

// chat runs one completion and unmarshals the JSON response into result
func (c *Client) chat(ctx context.Context, req chatRequest, result any) (usage, error) {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        req.schemaName,
		Description: openai.String("Structured response schema"),
		Schema:      req.schema,
		Strict:      openai.Bool(true),
	}

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.systemPrompt),
			openai.UserMessage(req.userPrompt),
		},
		MaxTokens: openai.Int(int64(c.maxTokens)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
	}
	if c.temperature > 0 {
		params.Temperature = openai.Float(c.temperature)
	}

	start := time.Now()
	resp, err := c.openai.Chat.Completions.New(ctx, params)
	if err != nil {
		return usage{}, fmt.Errorf("openai chat: %w", err)
	}

	c.logger.Debug("generation chat completed",
		zap.String("model", c.model),
		zap.String("schema", req.schemaName),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
	)

	if len(resp.Choices) == 0 {
		return usage{}, errors.New("no choices in response")
	}

	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), result); err != nil {
		return usage{}, fmt.Errorf("unmarshal response: %w", err)
	}

	return usage{
		promptTokens:     int(resp.Usage.PromptTokens),
		completionTokens: int(resp.Usage.CompletionTokens),
	}, nil
}

// generateSchema builds a strict JSON schema for the given output type
func generateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// IsRetryable reports whether a generation error is worth retrying.
// Rate limits and server errors are transient; schema and auth errors
// will fail the same way every attempt.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}

	// Network errors without an API response are generally transient
	return true
}
