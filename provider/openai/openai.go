package openai

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"
	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/modelops/fault"
	"github.com/jonwraymond/modelops/observe"
	"github.com/jonwraymond/modelops/provider"
)

// ProviderName is the registry name for this backend.
const ProviderName = "openai"

// ChatService is the slice of the SDK used for generation. The narrow
// interface keeps the provider testable without network access.
type ChatService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
	NewStreaming(ctx context.Context, params openai.ChatCompletionNewParams) *ssestream.Stream[openai.ChatCompletionChunk]
}

// ModelService is the slice of the SDK used for the availability probe.
type ModelService interface {
	List(ctx context.Context) error
}

// Config configures the OpenAI provider.
type Config struct {
	// APIKey authenticates against the OpenAI API. Required.
	APIKey string

	// BaseURL overrides the API endpoint. Optional.
	BaseURL string

	// ProbeTimeout bounds the availability probe.
	// Default: 5 seconds
	ProbeTimeout time.Duration

	// Logger reports call failures. Optional.
	Logger observe.Logger

	// Recorder receives per-call metrics. Optional.
	Recorder provider.CallRecorder
}

// Provider calls the OpenAI chat completions API.
type Provider struct {
	chat     ChatService
	models   ModelService
	config   Config
	recorder provider.CallRecorder

	probes singleflight.Group
}

// New creates a provider backed by the real OpenAI client.
func New(config Config) (*Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	client := openai.NewClient(opts...)

	return NewWithServices(chatAdapter{client}, modelAdapter{client}, config), nil
}

// NewWithServices creates a provider over explicit service implementations.
// Tests inject mocks here.
func NewWithServices(chat ChatService, models ModelService, config Config) *Provider {
	if config.ProbeTimeout <= 0 {
		config.ProbeTimeout = 5 * time.Second
	}
	recorder := config.Recorder
	if recorder == nil {
		recorder = provider.NopRecorder{}
	}

	return &Provider{
		chat:     chat,
		models:   models,
		config:   config,
		recorder: recorder,
	}
}

// Name implements provider.Provider.
func (p *Provider) Name() string {
	return ProviderName
}

// Generate implements provider.Provider.
func (p *Provider) Generate(ctx context.Context, req provider.Request) (*provider.Response, error) {
	params := buildParams(req)

	start := time.Now()
	completion, err := p.chat.New(ctx, params)
	elapsed := time.Since(start)

	p.recorder.RecordCall(ctx, ProviderName, req.Model, elapsed, err)
	if err != nil {
		err = classify(err)
		if p.config.Logger != nil {
			p.config.Logger.Warn(ctx, "openai completion failed",
				observe.Field{Key: "model", Value: req.Model},
				observe.Field{Key: "error", Value: err.Error()},
			)
		}
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, provider.ErrEmptyCompletion
	}

	choice := completion.Choices[0]
	return &provider.Response{
		ID:           completion.ID,
		Model:        completion.Model,
		Provider:     ProviderName,
		Content:      choice.Message.Content,
		FinishReason: choice.FinishReason,
		Usage: provider.Usage{
			PromptTokens:     completion.Usage.PromptTokens,
			CompletionTokens: completion.Usage.CompletionTokens,
			TotalTokens:      completion.Usage.TotalTokens,
		},
		Latency: elapsed,
		Created: time.Unix(completion.Created, 0),
	}, nil
}

// GenerateStream implements provider.Provider.
func (p *Provider) GenerateStream(ctx context.Context, req provider.Request) (provider.Stream, error) {
	params := buildParams(req)
	params.StreamOptions = openai.ChatCompletionStreamOptionsParam{
		IncludeUsage: openai.Bool(true),
	}

	start := time.Now()
	inner := p.chat.NewStreaming(ctx, params)
	if err := inner.Err(); err != nil {
		err = classify(err)
		p.recorder.RecordCall(ctx, ProviderName, req.Model, time.Since(start), err)
		return nil, err
	}

	return &stream{
		inner:    inner,
		ctx:      ctx,
		model:    req.Model,
		start:    start,
		recorder: p.recorder,
	}, nil
}

// Available implements provider.Provider. Concurrent probes collapse into a
// single models request; the probe runs on its own deadline so one caller's
// cancellation cannot fail the shared result.
func (p *Provider) Available(ctx context.Context) bool {
	_, err, _ := p.probes.Do("probe", func() (any, error) {
		probeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.config.ProbeTimeout)
		defer cancel()
		return nil, p.models.List(probeCtx)
	})
	return err == nil
}

func buildParams(req provider.Request) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	if req.CachedContext != "" {
		messages = append(messages, openai.SystemMessage(req.CachedContext))
	}
	for _, msg := range req.Messages {
		switch msg.Role {
		case provider.RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case provider.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	return params
}

// stream adapts the SDK's SSE stream to provider.Stream.
type stream struct {
	inner    *ssestream.Stream[openai.ChatCompletionChunk]
	ctx      context.Context
	model    string
	start    time.Time
	recorder provider.CallRecorder

	cur      provider.Chunk
	recorded bool
}

func (s *stream) Next() bool {
	if !s.inner.Next() {
		s.record(s.inner.Err())
		return false
	}

	chunk := s.inner.Current()
	cur := provider.Chunk{}
	if len(chunk.Choices) > 0 {
		cur.Content = chunk.Choices[0].Delta.Content
		cur.FinishReason = chunk.Choices[0].FinishReason
	}
	if chunk.Usage.TotalTokens > 0 {
		cur.Usage = &provider.Usage{
			PromptTokens:     chunk.Usage.PromptTokens,
			CompletionTokens: chunk.Usage.CompletionTokens,
			TotalTokens:      chunk.Usage.TotalTokens,
		}
	}
	s.cur = cur
	return true
}

func (s *stream) Current() provider.Chunk {
	return s.cur
}

func (s *stream) Err() error {
	return classify(s.inner.Err())
}

func (s *stream) Close() error {
	s.record(s.inner.Err())
	return s.inner.Close()
}

// record reports the stream outcome once, at termination or close.
func (s *stream) record(err error) {
	if s.recorded {
		return
	}
	s.recorded = true
	s.recorder.RecordCall(s.ctx, ProviderName, s.model, time.Since(s.start), classify(err))
}

// classify translates SDK and transport errors to tagged faults. Errors
// that are already tagged pass through; errors with no known mapping
// propagate untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var tagged *fault.Error
	if errors.As(err, &tagged) {
		return err
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if kind := kindForStatus(apiErr.StatusCode); kind != fault.KindUnknown {
			return fault.Wrap(kind, ProviderName, err)
		}
		return err
	}

	if kind := fault.KindOf(err); kind != fault.KindUnknown {
		return fault.Wrap(kind, ProviderName, err)
	}
	return err
}

func kindForStatus(status int) fault.Kind {
	switch {
	case status == 401 || status == 403:
		return fault.KindAuth
	case status == 408:
		return fault.KindTimeout
	case status == 429:
		return fault.KindRateLimit
	case status == 502 || status == 503 || status == 504:
		return fault.KindConnection
	case status >= 500:
		return fault.KindIO
	case status >= 400:
		return fault.KindInvalid
	default:
		return fault.KindUnknown
	}
}

// chatAdapter narrows the real client to ChatService.
type chatAdapter struct {
	client openai.Client
}

func (a chatAdapter) New(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return a.client.Chat.Completions.New(ctx, params)
}

func (a chatAdapter) NewStreaming(ctx context.Context, params openai.ChatCompletionNewParams) *ssestream.Stream[openai.ChatCompletionChunk] {
	return a.client.Chat.Completions.NewStreaming(ctx, params)
}

// modelAdapter narrows the real client to ModelService.
type modelAdapter struct {
	client openai.Client
}

func (a modelAdapter) List(ctx context.Context) error {
	_, err := a.client.Models.List(ctx)
	return err
}
