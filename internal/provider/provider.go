// Package provider adapts hosted chat-completion APIs to a single call that
// takes the request messages and returns the raw chat-completion JSON.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/colindelotavo/chatgpt-cli/memory"
)

const (
	NameOpenAI    = "openai"
	NameAnthropic = "anthropic"
)

// Completer sends one chat-completion request. The returned JSON always
// carries the reply at choices[0].message.content.
type Completer interface {
	Complete(ctx context.Context, model string, msgs []memory.Message) (json.RawMessage, error)
}

// Settings selects and configures a backend.
type Settings struct {
	Name    string
	APIKey  string
	BaseURL string
	// HTTPClient replaces the SDK's default client; tests use it to intercept requests.
	HTTPClient *http.Client
	// MaxRetries enables SDK retries when set above zero; requests are sent once otherwise.
	MaxRetries *int
}

func (s Settings) retries() int {
	if s.MaxRetries != nil && *s.MaxRetries > 0 {
		return *s.MaxRetries
	}
	return 0
}

// New returns the backend named by s.Name.
func New(s Settings) (Completer, error) {
	switch s.Name {
	case "", NameOpenAI:
		return NewOpenAI(s), nil
	case NameAnthropic:
		return NewAnthropic(s), nil
	default:
		return nil, fmt.Errorf("provider: unknown provider %q", s.Name)
	}
}

// DefaultModel returns the model used for name when none is configured.
func DefaultModel(name string) string {
	if name == NameAnthropic {
		return DefaultAnthropicModel
	}
	return DefaultOpenAIModel
}
