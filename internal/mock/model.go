package mock

import (
	"context"
	"errors"

	"github.com/tmc/langchaingo/llms"
)

var _ llms.Model = (*Model)(nil)

// Model is a mock implementation of llms.Model.
type Model struct {
	GenerateContentFn func(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

func (m *Model) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	return m.GenerateContentFn(ctx, messages, options...)
}

func (m *Model) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}, options...)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("empty response")
	}
	return resp.Choices[0].Content, nil
}

// Reply returns a Model that always answers with text.
func Reply(text string) *Model {
	return &Model{
		GenerateContentFn: func(context.Context, []llms.MessageContent, ...llms.CallOption) (*llms.ContentResponse, error) {
			return &llms.ContentResponse{
				Choices: []*llms.ContentChoice{{Content: text}},
			}, nil
		},
	}
}

// NoReply returns a Model that produces no response at all.
func NoReply() *Model {
	return &Model{
		GenerateContentFn: func(context.Context, []llms.MessageContent, ...llms.CallOption) (*llms.ContentResponse, error) {
			return nil, nil
		},
	}
}
