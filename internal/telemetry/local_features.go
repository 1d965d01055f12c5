package telemetry

import (
	"context"

	"github.com/colindelotavo/chatgpt-cli/internal/metrics"
	"github.com/colindelotavo/chatgpt-cli/memory"
)

// EmitLocalFeatures records size features of the prompt and the stored
// conversation. Raw text never leaves this function.
func EmitLocalFeatures(ctx context.Context, prompt string, conv []memory.Message) {
	if !ObserveEnabled() {
		return
	}
	turnID, _ := TurnIDFromContext(ctx)
	f := metrics.CountFeatures(prompt)
	c := metrics.CountConversation(conv)
	Emit("local_features", map[string]any{
		"turn_id":          turnID,
		"features_version": "1",
		"user": map[string]any{
			"bytes": f.Bytes,
			"runes": f.Runes,
			"words": f.Words,
			"lines": f.Lines,
		},
		"conversation": map[string]any{
			"messages": c.Messages,
			"bytes":    c.Content.Bytes,
			"words":    c.Content.Words,
		},
	})
}
