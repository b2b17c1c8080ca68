package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

var ErrNotStarted = errors.New("completion client is not started")

type Config struct {
	OpenAIAPIKey string
	Model        string
	BaseURL      string
}

// AI owns the OpenAI completion client. It implements llms.Model so callers never
// hold the concrete client.
type AI struct {
	log     *zap.Logger
	config  Config
	llm     *openai.LLM
	initErr error
}

var _ llms.Model = (*AI)(nil)

func NewAI(log *zap.Logger, c Config) *AI {
	return &AI{
		log:    log,
		config: c,
	}
}

// Start builds the OpenAI client. A missing or malformed key is not fatal here: the
// error is kept and returned from every completion request instead.
func (a *AI) Start(ctx context.Context) error {
	if a.config.OpenAIAPIKey == "" {
		a.initErr = errors.New("OPENAI_API_KEY is not configured")
		a.log.Warn("No OpenAI API key configured, completions will fail until one is provided.")
		return nil
	}

	opts := []openai.Option{openai.WithToken(a.config.OpenAIAPIKey)}
	if a.config.Model != "" {
		opts = append(opts, openai.WithModel(a.config.Model))
	}
	if a.config.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(a.config.BaseURL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		a.initErr = fmt.Errorf("create OpenAI model: %w", err)
		a.log.Warn("Failed to create OpenAI client.", zap.Error(err))
		return nil
	}
	a.llm = model
	a.initErr = nil
	a.log.Debug("OpenAI client ready.", zap.String("model", a.config.Model))
	return nil
}

func (a *AI) Stop(ctx context.Context) error {
	return nil
}

func (a *AI) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	return a.llm.GenerateContent(ctx, messages, options...)
}

func (a *AI) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	if err := a.ready(); err != nil {
		return "", err
	}
	return llms.GenerateFromSinglePrompt(ctx, a.llm, prompt, options...)
}

func (a *AI) ready() error {
	if a.initErr != nil {
		return a.initErr
	}
	if a.llm == nil {
		return ErrNotStarted
	}
	return nil
}
