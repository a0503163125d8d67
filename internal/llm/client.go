// Package llm talks to the OpenAI API for the story, scene and image calls.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"ecostory/internal/game"
	"ecostory/internal/observability"
)

// ErrEmptyResponse is returned when the API answers without usable content.
var ErrEmptyResponse = errors.New("empty response from model")

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecostory_ai_requests_total",
			Help: "Requests to the AI API by kind (text, image), model and status.",
		},
		[]string{"kind", "model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ecostory_ai_request_duration_seconds",
			Help:    "AI API request durations.",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"kind", "model"},
	)
)

var tracer = otel.Tracer("ecostory/llm")

// Config holds the client settings.
type Config struct {
	APIKey string
	// BaseURL overrides https://api.openai.com/v1, e.g. for a proxy.
	BaseURL string
	// ImageModel is sent with image requests when set.
	ImageModel string
	// Timeout bounds each HTTP request; zero means no limit.
	Timeout time.Duration
}

// Client implements game.TextGenerator and game.ImageGenerator.
type Client struct {
	api        *openai.Client
	imageModel string
	logger     *zap.Logger
}

var (
	_ game.TextGenerator  = (*Client)(nil)
	_ game.ImageGenerator = (*Client)(nil)
)

// New returns a client for cfg. A nil logger discards logs.
func New(cfg Config, log *zap.Logger) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		api:        openai.NewClientWithConfig(oc),
		imageModel: cfg.ImageModel,
		logger:     log.Named("llm"),
	}
}

// GenerateText runs one chat completion and returns the trimmed content of
// the first choice.
func (c *Client) GenerateText(ctx context.Context, req game.TextRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "chat "+req.Model)
	defer span.End()

	var messages []openai.ChatCompletionMessage
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.UserPrompt,
	})
	chat := openai.ChatCompletionRequest{
		Model:     req.Model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	}
	if req.Temperature != nil {
		chat.Temperature = *req.Temperature
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, chat)
	elapsed := time.Since(start)
	aiRequestDuration.WithLabelValues("text", req.Model).Observe(elapsed.Seconds())
	log := c.logger.With(zap.String("model", req.Model), zap.Duration("elapsed", elapsed))

	if err != nil {
		c.fail(span, "text", req.Model, err)
		log.Error("Chat completion failed", zap.Error(err))
		return "", fmt.Errorf("chat completion: %w", err)
	}
	span.SetAttributes(observability.GenAIAttributes("chat", req.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)...)

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		c.fail(span, "text", req.Model, ErrEmptyResponse)
		log.Warn("Chat completion returned no content")
		return "", ErrEmptyResponse
	}
	aiRequestsTotal.WithLabelValues("text", req.Model, "success").Inc()
	log.Debug("Chat completion done",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// GenerateImage requests one image and returns its URL.
func (c *Client) GenerateImage(ctx context.Context, req game.ImageRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "image_generation")
	defer span.End()
	model := c.imageModel
	if model == "" {
		model = "default"
	}
	span.SetAttributes(observability.GenAIAttributes("image_generation", model, 0, 0)...)
	span.SetAttributes(attribute.String("gen_ai.request.image_size", req.Size))

	n := req.N
	if n <= 0 {
		n = 1
	}
	start := time.Now()
	resp, err := c.api.CreateImage(ctx, openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          c.imageModel,
		N:              n,
		Size:           req.Size,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	elapsed := time.Since(start)
	aiRequestDuration.WithLabelValues("image", model).Observe(elapsed.Seconds())
	log := c.logger.With(zap.String("model", model), zap.String("size", req.Size), zap.Duration("elapsed", elapsed))

	if err != nil {
		c.fail(span, "image", model, err)
		log.Warn("Image generation failed", zap.Error(err))
		return "", fmt.Errorf("image generation: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		c.fail(span, "image", model, ErrEmptyResponse)
		log.Warn("Image generation returned no url")
		return "", ErrEmptyResponse
	}
	aiRequestsTotal.WithLabelValues("image", model, "success").Inc()
	log.Debug("Image ready")
	return resp.Data[0].URL, nil
}

func (c *Client) fail(s trace.Span, kind, model string, err error) {
	aiRequestsTotal.WithLabelValues(kind, model, errorStatus(err)).Inc()
	s.RecordError(err)
	s.SetStatus(codes.Error, err.Error())
}

// errorStatus maps an error to a short metric label.
func errorStatus(err error) string {
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.Is(err, ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &apiErr):
		return "http_" + strconv.Itoa(apiErr.HTTPStatusCode)
	case errors.As(err, &reqErr):
		return "http_" + strconv.Itoa(reqErr.HTTPStatusCode)
	default:
		return "error"
	}
}
