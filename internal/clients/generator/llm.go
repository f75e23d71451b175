package generator

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/KirkDiggler/encounter-forge/internal/errors"
)

const tracerName = "github.com/KirkDiggler/encounter-forge/internal/clients/generator"

// LLMConfig configures the LLM backed generator
type LLMConfig struct {
	// APIKey for the Chat Completions endpoint (required)
	APIKey string
	// BaseURL of an OpenAI compatible API (optional, defaults to the OpenAI API)
	BaseURL string
	// Model name (optional, defaults to gpt-4o-mini)
	Model string
	// Temperature for sampling (optional, defaults to 0.8)
	Temperature float64
	// HTTPTimeout per request (optional, defaults to 60 seconds)
	HTTPTimeout time.Duration
	// MaxRetries on transient failures (negative disables retries, 0 means default of 2)
	MaxRetries int
}

// Validate validates the LLMConfig and sets defaults if not provided.
func (cfg *LLMConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("APIKey", cfg.APIKey, vb)
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		vb.Field("Temperature", "must be between 0 and 2")
	}
	if err := vb.Build(); err != nil {
		return err
	}

	if cfg.Model == "" {
		cfg.Model = string(openai.ChatModelGPT4oMini)
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.8
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 60 * time.Second
	}
	switch {
	case cfg.MaxRetries == 0:
		cfg.MaxRetries = 2
	case cfg.MaxRetries < 0:
		cfg.MaxRetries = 0
	}
	return nil
}

type llmClient struct {
	client      openai.Client
	model       string
	temperature float64
}

// NewLLM creates a generator backed by a Chat Completions endpoint
func NewLLM(cfg *LLMConfig) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
		option.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &llmClient{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

func (c *llmClient) GenerateStats(ctx context.Context, input *StatsInput) (*StatsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	prompt, err := renderStatsPrompt(input)
	if err != nil {
		return nil, err
	}

	var out StatsOutput
	if err := c.complete(ctx, "generate_stats", prompt, &out); err != nil {
		return nil, err
	}

	if err := ValidateStats(&out); err != nil {
		slog.Warn("model returned unusable stats",
			"enemy_type", input.EnemyType,
			"armor_class", out.ArmorClass,
			"hit_points", out.HitPoints,
			"speed", out.Speed)
		return nil, err
	}

	return &out, nil
}

func (c *llmClient) AssignAbilities(ctx context.Context, input *AbilitiesInput) (*AbilitiesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	prompt, err := renderAbilitiesPrompt(input)
	if err != nil {
		return nil, err
	}

	var out AbilitiesOutput
	if err := c.complete(ctx, "assign_abilities", prompt, &out); err != nil {
		return nil, err
	}

	return NormalizeAbilities(&out, input.EnemyType, input.TargetLanguage)
}

// complete sends one prompt and decodes the JSON reply into target
func (c *llmClient) complete(ctx context.Context, operation, prompt string, target any) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "generator."+operation)
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", c.model))

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(c.temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat completion failed")
		return classify(ctx, err)
	}

	slog.Debug("chat completion finished",
		"operation", operation,
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"total_tokens", resp.Usage.TotalTokens)

	if len(resp.Choices) == 0 {
		return errors.Unavailable("model returned no choices")
	}

	content := stripFence(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), target); err != nil {
		span.RecordError(err)
		return errors.WrapWithCode(err, errors.CodeUnavailable, "model reply is not the expected JSON")
	}

	return nil
}

// classify keeps cancellation distinct from upstream failures
func classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.WrapWithCode(ctxErr, errors.GetCode(ctxErr), "generation canceled")
	}

	var apiErr *openai.Error
	if stderrors.As(err, &apiErr) {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "generation service rejected the request").
			WithMeta("status_code", apiErr.StatusCode)
	}

	return errors.WrapWithCode(err, errors.CodeUnavailable, "generation service unreachable")
}

// stripFence removes a markdown code fence some compatible servers wrap
// JSON replies in even when asked not to
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
