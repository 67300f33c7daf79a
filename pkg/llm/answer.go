package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// FallbackAnswer is returned whenever the model produced no usable text.
const FallbackAnswer = "Couldn't fetch an answer."

var ErrNoCompletion = errors.New("model returned no completion")

// Outcome classifies an Answer.
type Outcome string

const (
	OutcomeAnswered     Outcome = "answered"
	OutcomeNoCompletion Outcome = "no_completion"
	OutcomeFailed       Outcome = "failed"
)

// Answer is the result of a completion request. Text is always safe to show
// to a user: it is the model output for OutcomeAnswered and FallbackAnswer
// otherwise.
type Answer struct {
	Text    string
	Outcome Outcome
	Err     error
}

// AnswererConfig holds optional generation settings. A nil Temperature or a
// zero MaxTokens leaves the provider default in place.
type AnswererConfig struct {
	Temperature *float64
	MaxTokens   int
}

// Answerer forwards questions verbatim to an LLM.
type Answerer struct {
	config AnswererConfig
	llm    llms.Model
}

func NewAnswerer(model llms.Model, config AnswererConfig) *Answerer {
	return &Answerer{
		config: config,
		llm:    model,
	}
}

// Answer sends question as the only message, without a system prompt or
// any documentation context, and returns the first non-empty choice.
func (a *Answerer) Answer(ctx context.Context, question string) Answer {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, question),
	}

	response, err := a.llm.GenerateContent(ctx, content, a.callOptions()...)
	if err != nil {
		return Answer{
			Text:    FallbackAnswer,
			Outcome: OutcomeFailed,
			Err:     fmt.Errorf("completion error: %w", err),
		}
	}

	if text, ok := firstText(response); ok {
		return Answer{Text: text, Outcome: OutcomeAnswered}
	}

	return Answer{
		Text:    FallbackAnswer,
		Outcome: OutcomeNoCompletion,
		Err:     ErrNoCompletion,
	}
}

func (a *Answerer) callOptions() []llms.CallOption {
	var opts []llms.CallOption
	if a.config.Temperature != nil {
		opts = append(opts, llms.WithTemperature(*a.config.Temperature))
	}
	if a.config.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(a.config.MaxTokens))
	}
	return opts
}

func firstText(response *llms.ContentResponse) (string, bool) {
	if response == nil {
		return "", false
	}
	for _, choice := range response.Choices {
		if choice != nil && choice.Content != "" {
			return choice.Content, true
		}
	}
	return "", false
}
