// Package windowing selects the slice of a conversation sent to the model.
package windowing

import "github.com/colindelotavo/chatgpt-cli/memory"

// DefaultSize is how many trailing messages each request carries, regardless
// of how many the save file retains.
const DefaultSize = 2

// Stats summarizes the result of window preparation.
//
// Fields:
// - Size: the requested window size.
// - Total: messages in the conversation.
// - Included: messages in the window.
// - Skipped: Total minus Included; retained on disk but not sent.
// - EstimatedTokens: TokenCounter estimate for the window only.
type Stats struct {
	Size            int
	Total           int
	Included        int
	Skipped         int
	EstimatedTokens int
}

// PrepareSendWindow returns the final size messages of msgs (oldest→newest)
// as a fresh slice, with stats computed by c.
func PrepareSendWindow(msgs []memory.Message, size int, c TokenCounter) ([]memory.Message, Stats) {
	stats := Stats{Size: size, Total: len(msgs)}
	if size <= 0 || len(msgs) == 0 {
		stats.Skipped = len(msgs)
		return []memory.Message{}, stats
	}

	start := len(msgs) - size
	if start < 0 {
		start = 0
	}
	window := append([]memory.Message{}, msgs[start:]...)

	stats.Included = len(window)
	stats.Skipped = len(msgs) - len(window)
	if c != nil {
		stats.EstimatedTokens = c.CountWindow(window)
	}
	return window, stats
}
