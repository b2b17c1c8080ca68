// Package generator turns a persona and a piece of user text into a model completion.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.5
	DefaultMaxTokens   = 600

	// EmptyInputMessage is returned instead of calling the model when the input is blank.
	EmptyInputMessage = "input text is empty, please provide content"
	// FailureHint prefixes every failed completion shown to the user.
	FailureHint = "An error occurred. Please check your API key and network settings."
)

var ErrEmptyResponse = errors.New("completion returned no choices")

type personaResolver interface {
	Resolve(label string) string
}

type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

func DefaultOptions() Options {
	return Options{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
}

type Generator struct {
	log      *zap.Logger
	model    llms.Model
	personas personaResolver
	opts     Options
}

func New(log *zap.Logger, model llms.Model, personas personaResolver, opts Options) *Generator {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	return &Generator{
		log:      log,
		model:    model,
		personas: personas,
		opts:     opts,
	}
}

// Generate validates the input, resolves the persona and runs a single completion.
// Failures of the completion client are returned in the Result, never as a panic or error.
func (g *Generator) Generate(ctx context.Context, userText, personaLabel string) (res Result) {
	// Only the check uses the trimmed copy; the model receives the text as typed.
	if strings.TrimSpace(userText) == "" {
		return Invalid()
	}

	system := g.personas.Resolve(personaLabel)

	defer func() {
		if r := recover(); r != nil {
			g.log.Error("Completion client panicked",
				zap.String("persona", personaLabel),
				zap.Any("panic", r),
			)
			res = Failed(fmt.Errorf("completion client panicked: %v", r))
		}
	}()

	g.log.Debug("Requesting completion",
		zap.String("persona", personaLabel),
		zap.String("model", g.opts.Model),
		zap.Int("inputLength", len(userText)),
	)

	resp, err := g.model.GenerateContent(ctx, Messages(system, userText),
		llms.WithModel(g.opts.Model),
		llms.WithTemperature(g.opts.Temperature),
		llms.WithMaxTokens(g.opts.MaxTokens),
	)
	if err != nil {
		g.log.Warn("Failed to generate completion",
			zap.String("persona", personaLabel),
			zap.Error(err),
		)
		return Failed(err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		g.log.Warn("Completion returned no choices", zap.String("persona", personaLabel))
		return Failed(ErrEmptyResponse)
	}

	return OK(resp.Choices[0].Content)
}

// Messages builds the system + human exchange sent to the model.
func Messages(system, user string) []llms.MessageContent {
	return []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}
}
