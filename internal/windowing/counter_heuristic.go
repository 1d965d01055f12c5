package windowing

import (
	"unicode/utf8"

	"github.com/colindelotavo/chatgpt-cli/memory"
)

// TokenCounter estimates input-token cost for messages.
type TokenCounter interface {
	CountMessage(m memory.Message) int
	CountWindow(msgs []memory.Message) int
}

// HeuristicCounter is a deterministic estimator: roughly four runes per token,
// rounded up, plus a fixed per-message overhead for role framing.
type HeuristicCounter struct{}

const (
	runesPerToken   = 4
	messageOverhead = 4
)

func (HeuristicCounter) CountMessage(m memory.Message) int {
	n := utf8.RuneCountInString(m.Content)
	return (n+runesPerToken-1)/runesPerToken + messageOverhead
}

func (h HeuristicCounter) CountWindow(msgs []memory.Message) int {
	total := 0
	for _, m := range msgs {
		total += h.CountMessage(m)
	}
	return total
}
