package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"github.com/colindelotavo/chatgpt-cli/memory"
)

const DefaultOpenAIModel = string(shared.ChatModelGPT3_5Turbo)

// OpenAI calls the Chat Completions API.
type OpenAI struct {
	client openai.Client
}

// NewOpenAI returns a client using the API key from s, falling back to
// OPENAI_API_KEY in the environment.
func NewOpenAI(s Settings) *OpenAI {
	var opts []option.RequestOption
	if s.APIKey != "" {
		opts = append(opts, option.WithAPIKey(s.APIKey))
	}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}
	if s.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(s.HTTPClient))
	}
	opts = append(opts, option.WithMaxRetries(s.retries()))
	return &OpenAI{client: openai.NewClient(opts...)}
}

func (p *OpenAI) Complete(ctx context.Context, model string, msgs []memory.Message) (json.RawMessage, error) {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs)),
	}
	for _, m := range msgs {
		switch m.Role {
		case memory.RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case memory.RoleUser:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		case memory.RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			return nil, fmt.Errorf("openai: unsupported role %q", m.Role)
		}
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai: chat completion: %w", err)
	}
	return json.RawMessage(resp.RawJSON()), nil
}
