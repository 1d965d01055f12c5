package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tidwall/sjson"

	"github.com/colindelotavo/chatgpt-cli/memory"
)

const (
	DefaultAnthropicModel = string(anthropic.ModelClaude3_7SonnetLatest)
	APIVersion            = "2023-06-01"
	// anthropicMaxTokens is required by the Messages API; chat completions leave it unset.
	anthropicMaxTokens = 1024
)

// chatCompletionTemplate is filled in by Complete so callers read Anthropic
// replies at the same paths as OpenAI ones.
const chatCompletionTemplate = `{"object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":""}}]}`

// Anthropic calls the Messages API and reshapes the reply as a chat completion.
type Anthropic struct {
	client anthropic.Client
}

// NewAnthropic returns a client using the API key from s, falling back to
// ANTHROPIC_API_KEY in the environment.
func NewAnthropic(s Settings) *Anthropic {
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
	return &Anthropic{client: anthropic.NewClient(opts...)}
}

// Complete moves system messages into the system parameter and sends the
// rest in order.
func (p *Anthropic) Complete(ctx context.Context, model string, msgs []memory.Message) (json.RawMessage, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(anthropicMaxTokens),
	}
	for _, m := range msgs {
		switch m.Role {
		case memory.RoleSystem:
			params.System = append(params.System, anthropic.TextBlockParam{Text: m.Content})
		case memory.RoleUser:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case memory.RoleAssistant:
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			return nil, fmt.Errorf("anthropic: unsupported role %q", m.Role)
		}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic: messages: %w", err)
	}

	var parts []string
	for _, b := range msg.Content {
		if tb, ok := b.AsAny().(anthropic.TextBlock); ok && tb.Text != "" {
			parts = append(parts, tb.Text)
		}
	}
	return toChatCompletion(msg, strings.Join(parts, "\n"))
}

func toChatCompletion(msg *anthropic.Message, text string) (json.RawMessage, error) {
	out := chatCompletionTemplate
	sets := []struct {
		path  string
		value any
	}{
		{"id", msg.ID},
		{"model", string(msg.Model)},
		{"choices.0.message.content", text},
		{"choices.0.finish_reason", string(msg.StopReason)},
		{"usage.prompt_tokens", msg.Usage.InputTokens},
		{"usage.completion_tokens", msg.Usage.OutputTokens},
		{"usage.total_tokens", msg.Usage.InputTokens + msg.Usage.OutputTokens},
	}
	for _, s := range sets {
		var err error
		if out, err = sjson.Set(out, s.path, s.value); err != nil {
			return nil, fmt.Errorf("anthropic: reshape %s: %w", s.path, err)
		}
	}
	return json.RawMessage(out), nil
}
