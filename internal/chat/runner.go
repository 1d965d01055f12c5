package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/colindelotavo/chatgpt-cli/internal/provider"
	"github.com/colindelotavo/chatgpt-cli/internal/telemetry"
	"github.com/colindelotavo/chatgpt-cli/internal/windowing"
	"github.com/colindelotavo/chatgpt-cli/memory"
)

var (
	// ErrEmptyReply is returned when a response carries no assistant content.
	ErrEmptyReply = errors.New("chat: response has no choices[0].message.content")
	// ErrInvalidResponse is returned when the response body is not JSON.
	ErrInvalidResponse = errors.New("chat: response is not valid JSON")
)

// replyPath locates the assistant text in a chat-completion response.
const replyPath = "choices.0.message.content"

type Runner struct {
	Store  *memory.Store
	Client provider.Completer
	Model  string

	// Out receives user-facing output: inspected payloads, the raw response and Q/A.
	Out io.Writer
	Log zerolog.Logger

	// SendWindow is how many trailing messages are transmitted.
	SendWindow int
	// Retain is how many messages are kept after each round.
	Retain int
	// Counter estimates window size for telemetry.
	Counter windowing.TokenCounter
}

func New(store *memory.Store, client provider.Completer, model string) *Runner {
	return &Runner{
		Store:      store,
		Client:     client,
		Model:      model,
		Out:        os.Stdout,
		Log:        zerolog.Nop(),
		SendWindow: windowing.DefaultSize,
		Retain:     memory.DefaultRetain,
		Counter:    windowing.HeuristicCounter{},
	}
}

// CompleteRound sends prompt with the trailing context, records the reply,
// persists the bounded conversation and returns the raw response.
//
// maxTokens is accepted for CLI compatibility and not forwarded.
func (r *Runner) CompleteRound(ctx context.Context, prompt string, maxTokens int, inspectRequest bool) (json.RawMessage, error) {
	ctx, turnID := telemetry.EnsureTurnID(ctx)
	log := r.Log.With().Str("turn_id", turnID).Logger()

	res, err := r.Store.Load()
	if err != nil {
		return nil, err
	}
	logLoad(log, r.Store.Path(), res)

	r.Store.Append(memory.RoleUser, prompt)
	telemetry.EmitLocalFeatures(ctx, prompt, r.Store.Messages())

	payload, stats := windowing.PrepareSendWindow(r.Store.Messages(), r.SendWindow, r.Counter)
	telemetry.Emit("window_prepared", map[string]any{
		"turn_id":          turnID,
		"model":            r.Model,
		"size":             stats.Size,
		"total_messages":   stats.Total,
		"included":         stats.Included,
		"skipped":          stats.Skipped,
		"estimated_tokens": stats.EstimatedTokens,
		"max_tokens":       maxTokens,
	})
	log.Debug().
		Int("included", stats.Included).
		Int("skipped", stats.Skipped).
		Int("estimated_tokens", stats.EstimatedTokens).
		Msg("send window prepared")

	if inspectRequest {
		if err := memory.WriteJSON(r.Out, payload); err != nil {
			return nil, fmt.Errorf("inspect request: %w", err)
		}
	}
	if telemetry.PersistPayloadsEnabled() {
		if b, err := json.Marshal(payload); err == nil {
			telemetry.PersistPayload(turnID, "request", b)
		}
	}

	raw, err := r.Client.Complete(ctx, r.Model, payload)
	if err != nil {
		telemetry.Emit("completion", map[string]any{"turn_id": turnID, "model": r.Model, "error": "request failed"})
		return nil, fmt.Errorf("complete round: %w", err)
	}
	telemetry.PersistPayload(turnID, "response", raw)

	reply, err := ReplyText(raw)
	if err != nil {
		return raw, err
	}
	telemetry.Emit("completion", map[string]any{
		"turn_id":     turnID,
		"model":       r.Model,
		"reply_bytes": len(reply),
		"error":       nil,
	})

	r.Store.Append(memory.RoleAssistant, reply)
	r.Store.Truncate(r.Retain)
	if err := r.Store.Persist(); err != nil {
		return raw, err
	}
	log.Debug().Str("path", r.Store.Path()).Int("messages", r.Store.Len()).Msg("conversation persisted")

	if _, err := r.Out.Write(pretty.Pretty(raw)); err != nil {
		return raw, err
	}
	if _, err := fmt.Fprintf(r.Out, "Q: %s\nA: %s\n\n", prompt, reply); err != nil {
		return raw, err
	}
	return raw, nil
}

// ReplyText extracts the assistant content from a chat-completion response.
func ReplyText(raw []byte) (string, error) {
	if !gjson.ValidBytes(raw) {
		return "", ErrInvalidResponse
	}
	v := gjson.GetBytes(raw, replyPath)
	if !v.Exists() || v.Type == gjson.Null {
		return "", ErrEmptyReply
	}
	return v.String(), nil
}

func logLoad(log zerolog.Logger, path string, res memory.LoadResult) {
	switch res.Reason {
	case memory.ReasonCorrupt:
		log.Warn().Str("path", path).Err(res.Cause).Msg("save file unreadable; starting a fresh conversation")
	case memory.ReasonMissing:
		log.Debug().Str("path", path).Msg("no save file; starting a fresh conversation")
	default:
		log.Debug().Str("path", path).Int("messages", res.Count).Msg("conversation loaded")
	}
}
